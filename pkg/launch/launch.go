// Package launch turns upstream launch documents into stored items.
package launch

// Status is the derived outcome of a launch
type Status string

// Launch statuses
const (
	StatusSuccess  Status = "success"
	StatusFailed   Status = "failed"
	StatusUpcoming Status = "upcoming"
)

// Item is a launch as persisted in the table, keyed by pk and sk
type Item struct {
	PK             string   `dynamodbav:"pk" json:"pk"`
	SK             string   `dynamodbav:"sk" json:"sk"`
	MissionName    *string  `dynamodbav:"mission_name" json:"mission_name"`
	RocketName     *string  `dynamodbav:"rocket_name" json:"rocket_name"`
	LaunchpadName  *string  `dynamodbav:"launchpad_name" json:"launchpad_name"`
	LaunchDateUTC  *string  `dynamodbav:"launch_date_utc" json:"launch_date_utc"`
	LaunchDateUnix *int64   `dynamodbav:"launch_date_unix" json:"launch_date_unix"`
	Status         Status   `dynamodbav:"status" json:"status"`
	PayloadNames   []string `dynamodbav:"payload_names,omitempty" json:"payload_names,omitempty"`
}

// Key is the composite primary key of an item
type Key struct {
	PK string `dynamodbav:"pk"`
	SK string `dynamodbav:"sk"`
}

// Key returns the item's primary key
func (i Item) Key() Key {
	return Key{PK: i.PK, SK: i.SK}
}

// DeriveStatus classifies a launch from its upcoming and success flags.
// An upcoming launch is never success or failed, whatever its success flag says.
func DeriveStatus(upcoming, success *bool) Status {
	switch {
	case upcoming != nil && *upcoming:
		return StatusUpcoming
	case success != nil && *success:
		return StatusSuccess
	default:
		return StatusFailed
	}
}
