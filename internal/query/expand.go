package query

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/desertthunder/albumsync/internal/models"
	"github.com/desertthunder/albumsync/internal/shared"
)

// TimespanError reports a timespan branch that cannot be turned into a time range.
type TimespanError struct {
	Index    int
	Timespan models.Timespan
	Reason   string
}

func (e *TimespanError) Error() string {
	return fmt.Sprintf("%v: timespan[%d] {start: %q, end: %q}: %s", shared.ErrMalformedTimespan, e.Index, e.Timespan.Start, e.Timespan.End, e.Reason)
}

func (e *TimespanError) Unwrap() error { return shared.ErrMalformedTimespan }

// dateRange is a half-open [after, before) interval; a zero value is unbounded.
type dateRange struct {
	after, before time.Time
	bounded       bool
}

// Expansion is the resolved form of a filter expression.
//
// It is immutable and can be iterated any number of times.
type Expansion struct {
	countries []string
	spans     []dateRange
	orPeople  [][]string
	andPeople []string
	tags      []string

	state     string
	city      string
	mediaType string
	favorite  *bool
}

// Check validates the parts of expr that need no name lookup: the
// people/any_people conflict and every timespan.
func Check(expr models.FilterExpression) error {
	if err := checkConflict(expr); err != nil {
		return err
	}
	_, err := parseTimespans(expr.Timespan)
	return err
}

// Expand resolves expr against the people and tag mappings.
//
// All validation happens here, so iterating the returned [Expansion] cannot fail.
// The expression is never modified.
func Expand(expr models.FilterExpression, people, tags models.NameMapping) (*Expansion, error) {
	if err := checkConflict(expr); err != nil {
		return nil, err
	}

	e := &Expansion{
		state:     expr.State,
		city:      expr.City,
		mediaType: expr.Type,
		orPeople:  [][]string{nil},
	}
	if expr.Favorite != nil {
		fav := *expr.Favorite
		e.favorite = &fav
	}

	if expr.People != nil {
		ids, err := ResolveAll("people", expr.People, people)
		if err != nil {
			return nil, err
		}
		e.andPeople = ids
	} else if expr.AnyPeople != nil {
		ids, err := ResolveAll("any_people", expr.AnyPeople, people)
		if err != nil {
			return nil, err
		}
		if len(ids) > 0 {
			e.orPeople = make([][]string, len(ids))
			for i, id := range ids {
				e.orPeople[i] = []string{id}
			}
		}
	}

	if expr.Tags != nil {
		ids, err := ResolveAll("tags", expr.Tags, tags)
		if err != nil {
			return nil, err
		}
		e.tags = ids
	}

	e.countries = []string{""}
	if len(expr.Country) > 0 {
		e.countries = slices.Clone(expr.Country)
	}

	spans, err := parseTimespans(expr.Timespan)
	if err != nil {
		return nil, err
	}
	e.spans = spans

	return e, nil
}

// Len is the number of queries All yields: countries × timespans × person branches.
func (e *Expansion) Len() int {
	return len(e.countries) * len(e.spans) * len(e.orPeople)
}

// All yields one query per combination of country, timespan and person branch,
// countries varying slowest.
func (e *Expansion) All() iter.Seq[models.AtomicQuery] {
	return func(yield func(models.AtomicQuery) bool) {
		for _, country := range e.countries {
			for _, span := range e.spans {
				for _, person := range e.orPeople {
					if !yield(e.build(country, span, person)) {
						return
					}
				}
			}
		}
	}
}

// Queries collects All into a slice.
func (e *Expansion) Queries() []models.AtomicQuery {
	return slices.Collect(e.All())
}

func (e *Expansion) build(country string, span dateRange, orPerson []string) models.AtomicQuery {
	q := models.AtomicQuery{
		Country: country,
		State:   e.state,
		City:    e.city,
		Type:    e.mediaType,
	}

	if span.bounded {
		after, before := span.after, span.before
		q.After, q.Before = &after, &before
	}
	if e.favorite != nil {
		fav := *e.favorite
		q.Favorite = &fav
	}

	// people and any_people never coexist, so at most one of these applies
	switch {
	case len(orPerson) > 0:
		q.PersonIDs = slices.Clone(orPerson)
	case len(e.andPeople) > 0:
		q.PersonIDs = slices.Clone(e.andPeople)
	}
	if len(e.tags) > 0 {
		q.TagIDs = slices.Clone(e.tags)
	}

	return q
}

func checkConflict(expr models.FilterExpression) error {
	if expr.People != nil && expr.AnyPeople != nil {
		return fmt.Errorf("%w: cannot use 'people' (all must match) and 'any_people' (any may match) in the same query", shared.ErrConfigConflict)
	}
	return nil
}

// parseTimespans converts inclusive date pairs into [start 00:00, end+1day 00:00) ranges.
// No timespans yields a single unbounded range.
func parseTimespans(spans models.TimespanList) ([]dateRange, error) {
	if len(spans) == 0 {
		return []dateRange{{}}, nil
	}

	ranges := make([]dateRange, 0, len(spans))
	for i, ts := range spans {
		start, err := time.ParseInLocation(models.DateLayout, ts.Start, time.UTC)
		if err != nil {
			return nil, &TimespanError{Index: i, Timespan: ts, Reason: "start is not a YYYY-MM-DD date"}
		}
		end, err := time.ParseInLocation(models.DateLayout, ts.End, time.UTC)
		if err != nil {
			return nil, &TimespanError{Index: i, Timespan: ts, Reason: "end is not a YYYY-MM-DD date"}
		}
		if end.Before(start) {
			return nil, &TimespanError{Index: i, Timespan: ts, Reason: "end is before start"}
		}
		ranges = append(ranges, dateRange{after: start, before: end.AddDate(0, 0, 1), bounded: true})
	}
	return ranges, nil
}
