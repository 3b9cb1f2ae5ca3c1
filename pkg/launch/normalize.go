package launch

import (
	"strconv"
	"time"
)

// Normalize maps a record to a stored item. It returns false when the
// record has no identifier and must be skipped.
func Normalize(r Record, now time.Time) (Item, bool) {

	if r.ID == nil || *r.ID == "" {
		return Item{}, false
	}

	// sort key falls back to invocation time so every item can be ordered
	ts := now.Unix()
	if r.DateUnix != nil && *r.DateUnix != 0 {
		ts = *r.DateUnix
	}

	item := Item{
		PK:             *r.ID,
		SK:             strconv.FormatInt(ts, 10),
		MissionName:    r.Name,
		RocketName:     r.Rocket,
		LaunchpadName:  r.Launchpad,
		LaunchDateUTC:  r.DateUTC,
		LaunchDateUnix: r.DateUnix,
		Status:         DeriveStatus(r.Upcoming, r.Success),
	}

	if len(r.Payloads) > 0 {
		item.PayloadNames = append([]string(nil), r.Payloads...)
	}

	return item, true
}

// NormalizeAll normalizes a batch of raw documents, skipping the ones
// without an identifier. It returns the items and the number skipped.
func NormalizeAll(docs []string, now time.Time) ([]Item, int) {

	items := make([]Item, 0, len(docs))
	skipped := 0
	for _, d := range docs {
		item, ok := Normalize(ParseRecord(d), now)
		if !ok {
			skipped++
			continue
		}
		items = append(items, item)
	}
	return items, skipped
}
