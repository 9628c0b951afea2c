package todo

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// Filter selects which part of the store the view shows.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}

// ParseFilter accepts the filter names case-insensitively.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed", "done":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q (want all, active or completed)", s)
}

// Select returns the items f admits, preserving order.
func Select(items []model.Item, f Filter) []model.Item {
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		switch f {
		case FilterActive:
			if it.Completed {
				continue
			}
		case FilterCompleted:
			if !it.Completed {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}
