// Package storage persists launch items and reads them back page by page.
package storage

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/launchsync/launchsync/pkg/launch"
)

// Cursor is an opaque continuation token, the key a scan resumes after
type Cursor map[string]types.AttributeValue

// Page is one bounded slice of a scan. Next is nil on the last page.
type Page struct {
	Items []launch.Item
	Next  Cursor
}

// Scanner reads a store one page at a time
type Scanner interface {
	Scan(ctx context.Context, from Cursor) (Page, error)
}

// Upserter writes a batch of items, overwriting items with the same key
type Upserter interface {
	BatchUpsert(ctx context.Context, items []launch.Item) error
	Name() string
}

// Store is a launch table
type Store interface {
	Scanner
	Upserter
}

// ReadError is a failed scan
type ReadError struct {
	Page int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not scan page %d: %v", e.Page, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// WriteError is a failed batch write
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("DynamoDB error: %v", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// ReadAll scans every page and returns all items. Items come back in
// whatever order the store keeps them. A failure on any page discards what
// was read so far.
func ReadAll(ctx context.Context, s Scanner) ([]launch.Item, error) {

	var items []launch.Item
	var cursor Cursor
	for n := 1; ; n++ {
		page, err := s.Scan(ctx, cursor)
		if err != nil {
			return nil, &ReadError{Page: n, Err: err}
		}
		items = append(items, page.Items...)
		if len(page.Next) == 0 {
			break
		}
		cursor = page.Next
	}

	if items == nil {
		items = []launch.Item{}
	}
	return items, nil
}

// dedupe collapses items sharing a key to the last occurrence, keeping the
// position of the first
func dedupe(items []launch.Item) []launch.Item {

	out := make([]launch.Item, 0, len(items))
	seen := make(map[launch.Key]int, len(items))
	for _, it := range items {
		if i, ok := seen[it.Key()]; ok {
			out[i] = it
			continue
		}
		seen[it.Key()] = len(out)
		out = append(out, it)
	}
	return out
}
