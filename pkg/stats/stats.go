// Package stats derives launch statistics from a full set of stored items.
// Every view is a single pass over the items and keeps no state.
package stats

import (
	"sort"

	"github.com/launchsync/launchsync/pkg/launch"
)

// UnknownRocket labels launches without a rocket name
const UnknownRocket = "unknown"

// Totals counts launches by status
type Totals struct {
	Total    int `json:"total"`
	Success  int `json:"success"`
	Failed   int `json:"failed"`
	Upcoming int `json:"upcoming"`
}

// SuccessRate is the status breakdown as chart series plus the success
// percentage over all launches
type SuccessRate struct {
	Labels     []string `json:"labels"`
	Statistics []int    `json:"statistics"`
	Rate       float64  `json:"rate"`
}

// Series is a labelled count, labels in order of first occurrence
type Series struct {
	Labels     []string `json:"labels"`
	Statistics []int    `json:"statistics"`
}

// Count returns totals by status
func Count(items []launch.Item) Totals {

	t := Totals{Total: len(items)}
	for _, it := range items {
		switch it.Status {
		case launch.StatusSuccess:
			t.Success++
		case launch.StatusFailed:
			t.Failed++
		case launch.StatusUpcoming:
			t.Upcoming++
		}
	}
	return t
}

// Rate returns success, failed and upcoming counts in that order, and the
// success percentage. An empty set has a rate of zero.
func Rate(items []launch.Item) SuccessRate {

	t := Count(items)

	r := SuccessRate{
		Labels:     []string{string(launch.StatusSuccess), string(launch.StatusFailed), string(launch.StatusUpcoming)},
		Statistics: []int{t.Success, t.Failed, t.Upcoming},
	}
	if t.Total > 0 {
		r.Rate = float64(t.Success) / float64(t.Total) * 100
	}
	return r
}

// ByYear counts launches per year of their UTC date. Items without a date
// starting with four digits are left out.
func ByYear(items []launch.Item) Series {

	c := newCounter()
	for _, it := range items {
		if year, ok := yearOf(it.LaunchDateUTC); ok {
			c.add(year)
		}
	}
	return c.series()
}

// ByRocket counts launches per rocket name
func ByRocket(items []launch.Item) Series {

	c := newCounter()
	for _, it := range items {
		name := UnknownRocket
		if it.RocketName != nil && *it.RocketName != "" {
			name = *it.RocketName
		}
		c.add(name)
	}
	return c.series()
}

// Sorted returns a copy of s with labels in ascending order
func Sorted(s Series) Series {

	idx := make([]int, len(s.Labels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return s.Labels[idx[a]] < s.Labels[idx[b]]
	})

	out := Series{Labels: make([]string, len(idx)), Statistics: make([]int, len(idx))}
	for i, j := range idx {
		out.Labels[i] = s.Labels[j]
		out.Statistics[i] = s.Statistics[j]
	}
	return out
}

func yearOf(date *string) (string, bool) {

	if date == nil || len(*date) < 4 {
		return "", false
	}
	year := (*date)[:4]
	for _, r := range year {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return year, true
}

// counter groups by label keeping first-occurrence order
type counter struct {
	index map[string]int
	out   Series
}

func newCounter() *counter {
	return &counter{
		index: map[string]int{},
		out:   Series{Labels: []string{}, Statistics: []int{}},
	}
}

func (c *counter) add(label string) {
	if i, ok := c.index[label]; ok {
		c.out.Statistics[i]++
		return
	}
	c.index[label] = len(c.out.Labels)
	c.out.Labels = append(c.out.Labels, label)
	c.out.Statistics = append(c.out.Statistics, 1)
}

func (c *counter) series() Series {
	return c.out
}
