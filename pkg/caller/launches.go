package caller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// QueryPath is the launch query endpoint
const QueryPath = "/v4/launches/query"

// PageLimit is the most launches the provider returns for one query
const PageLimit = 100

// Query is a provider query body
type Query struct {
	Query   map[string]interface{} `json:"query"`
	Options Options                `json:"options"`
}

// Options controls sorting, paging and inline population of references
type Options struct {
	Sort     map[string]string `json:"sort"`
	Limit    int               `json:"limit"`
	Populate []string          `json:"populate"`
}

// LaunchQuery asks for every launch, newest first, with rocket, launchpad
// and payloads populated inline
func LaunchQuery() Query {
	return Query{
		Query: map[string]interface{}{},
		Options: Options{
			Sort:     map[string]string{"date_unix": "desc"},
			Limit:    PageLimit,
			Populate: []string{"rocket", "launchpad", "payloads"},
		},
	}
}

// Error is a failure to fetch from the provider. StatusCode is set when the
// provider answered with a non-2xx status, and is zero otherwise.
type Error struct {
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("could not fetch launches: %v", e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// FetchLaunches runs the launch query and returns the raw documents
func (c *Client) FetchLaunches(ctx context.Context) ([]string, error) {

	body, err := json.Marshal(LaunchQuery())
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("could not marshal query: %w", err)}
	}

	req, err := c.NewRequest(ctx, QueryPath, http.MethodPost, body)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("could not make request: %w", err)}
	}

	res, err := c.Do(req)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("could not call provider: %w", err)}
	}
	defer res.Body.Close()

	out, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &Error{Err: fmt.Errorf("could not read response body: %w", err)}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &Error{StatusCode: res.StatusCode, Err: errors.New(http.StatusText(res.StatusCode))}
	}

	if !gjson.ValidBytes(out) {
		return nil, &Error{Err: errors.New("could not decode response: invalid JSON")}
	}

	// a response without docs is an empty dataset, not a failure
	docs := gjson.GetBytes(out, "docs")
	if docs.Exists() && !docs.IsArray() {
		return nil, &Error{Err: errors.New("could not decode response: docs is not a list")}
	}

	var raw []string
	docs.ForEach(func(_, d gjson.Result) bool {
		raw = append(raw, d.Raw)
		return true
	})

	return raw, nil
}
