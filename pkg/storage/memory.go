package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"

	"github.com/launchsync/launchsync/pkg/launch"
)

// Memory is an in-process launch table that pages like DynamoDB.
// Items are kept in first-write order.
type Memory struct {
	Table    string
	PageSize int

	// WriteErr and ScanErr make the matching call fail when set. FailPage
	// limits ScanErr to the given 1-based page.
	WriteErr error
	ScanErr  error
	FailPage int

	mu     sync.Mutex
	keys   []launch.Key
	items  map[launch.Key]launch.Item
	writes int
	scans  int
}

// NewMemory returns an empty table serving pageSize items per scan
func NewMemory(table string, pageSize int) *Memory {
	return &Memory{Table: table, PageSize: pageSize, items: map[launch.Key]launch.Item{}}
}

// Name returns the table name
func (m *Memory) Name() string {
	return m.Table
}

// BatchUpsert stores items, replacing items with the same key
func (m *Memory) BatchUpsert(_ context.Context, items []launch.Item) error {

	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.WriteErr != nil {
		return &WriteError{Err: m.WriteErr}
	}
	if m.items == nil {
		m.items = map[launch.Key]launch.Item{}
	}

	for _, it := range dedupe(items) {
		k := it.Key()
		if _, ok := m.items[k]; !ok {
			m.keys = append(m.keys, k)
		}
		m.items[k] = it
	}
	return nil
}

// Scan returns the page after from
func (m *Memory) Scan(_ context.Context, from Cursor) (Page, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	m.scans++
	if m.ScanErr != nil && (m.FailPage == 0 || m.FailPage == m.scans) {
		return Page{}, m.ScanErr
	}

	start := 0
	if len(from) > 0 {
		var k launch.Key
		if err := attributevalue.UnmarshalMap(from, &k); err != nil {
			return Page{}, fmt.Errorf("could not decode cursor: %w", err)
		}
		start = -1
		for i, key := range m.keys {
			if key == k {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return Page{}, fmt.Errorf("unknown cursor %v/%v", k.PK, k.SK)
		}
	}

	end := len(m.keys)
	if m.PageSize > 0 && start+m.PageSize < end {
		end = start + m.PageSize
	}

	page := Page{Items: make([]launch.Item, 0, end-start)}
	for _, k := range m.keys[start:end] {
		page.Items = append(page.Items, m.items[k])
	}

	if end < len(m.keys) {
		last := m.keys[end-1]
		next, err := attributevalue.MarshalMap(last)
		if err != nil {
			return Page{}, fmt.Errorf("could not encode cursor: %w", err)
		}
		page.Next = next
	}
	return page, nil
}

// Writes returns how many batch writes were attempted
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Scans returns how many pages were requested
func (m *Memory) Scans() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scans
}

// Len returns the number of stored items
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys)
}
