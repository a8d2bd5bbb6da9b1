package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by timespans.
const DateLayout = "2006-01-02"

// AtomicQuery is one conjunctive search request, ready to send to the photo service.
//
// Zero values mean "no constraint". Each query owns its slices.
type AtomicQuery struct {
	Country   string     `json:"country,omitempty"`
	State     string     `json:"state,omitempty"`
	City      string     `json:"city,omitempty"`
	After     *time.Time `json:"after,omitempty"`
	Before    *time.Time `json:"before,omitempty"`
	Favorite  *bool      `json:"favorite,omitempty"`
	PersonIDs []string   `json:"person_ids,omitempty"`
	TagIDs    []string   `json:"tag_ids,omitempty"`
	Type      string     `json:"type,omitempty"`
}

// String renders the set constraints as space-separated key=value pairs for logs.
func (q AtomicQuery) String() string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}

	add("country", q.Country)
	add("state", q.State)
	add("city", q.City)
	if q.After != nil {
		add("after", q.After.Format(time.DateTime))
	}
	if q.Before != nil {
		add("before", q.Before.Format(time.DateTime))
	}
	if q.Favorite != nil {
		add("favorite", fmt.Sprint(*q.Favorite))
	}
	if len(q.PersonIDs) > 0 {
		add("people", strings.Join(q.PersonIDs, ","))
	}
	if len(q.TagIDs) > 0 {
		add("tags", strings.Join(q.TagIDs, ","))
	}
	add("type", q.Type)

	if len(parts) == 0 {
		return "(all assets)"
	}
	return strings.Join(parts, " ")
}
