// Package filter translates transaction-listing query parameters into SQL
// predicate fragments. The builders are pure: they never touch storage.
package filter

import (
	"errors"
	"strconv"
	"time"

	sq "github.com/Masterminds/squirrel"
)

var (
	ErrDateConflict = errors.New("cannot use `date` parameter together with `from` or `upTo`")
	ErrInvalidDate  = errors.New("invalid `date` parameter")
	ErrInvalidFrom  = errors.New("invalid `from` parameter")
	ErrInvalidUpTo  = errors.New("invalid `upTo` parameter")
	ErrInvalidMin   = errors.New("invalid `min` parameter")
	ErrInvalidMax   = errors.New("invalid `max` parameter")
)

// Date builds the date predicate for the `date`, `from` and `upTo` query
// parameters. Empty strings stand for absent parameters; all three absent
// yields a nil fragment (no constraint). `date` is mutually exclusive with
// the range parameters. Bounds are inclusive whole UTC days: `from` starts
// at 00:00:00.000 and `upTo` ends at 23:59:59.999.
func Date(date, from, upTo string) (sq.Sqlizer, error) {
	if date != "" && (from != "" || upTo != "") {
		return nil, ErrDateConflict
	}

	if date != "" {
		day, err := parseDay(date)
		if err != nil {
			return nil, ErrInvalidDate
		}
		return sq.And{
			sq.GtOrEq{"date": day},
			sq.LtOrEq{"date": endOfDay(day)},
		}, nil
	}

	var parts sq.And
	if from != "" {
		day, err := parseDay(from)
		if err != nil {
			return nil, ErrInvalidFrom
		}
		parts = append(parts, sq.GtOrEq{"date": day})
	}
	if upTo != "" {
		day, err := parseDay(upTo)
		if err != nil {
			return nil, ErrInvalidUpTo
		}
		parts = append(parts, sq.LtOrEq{"date": endOfDay(day)})
	}

	if len(parts) == 0 {
		return nil, nil
	}
	return parts, nil
}

// Amount builds the amount predicate for the `min` and `max` query
// parameters. Values must be numeric and are truncated to integer bounds.
func Amount(min, max string) (sq.Sqlizer, error) {
	var parts sq.And
	if min != "" {
		v, err := strconv.ParseFloat(min, 64)
		if err != nil {
			return nil, ErrInvalidMin
		}
		parts = append(parts, sq.GtOrEq{"amount": int(v)})
	}
	if max != "" {
		v, err := strconv.ParseFloat(max, 64)
		if err != nil {
			return nil, ErrInvalidMax
		}
		parts = append(parts, sq.LtOrEq{"amount": int(v)})
	}

	if len(parts) == 0 {
		return nil, nil
	}
	return parts, nil
}

// parseDay parses a calendar date, ignoring any time of day, and returns the
// start of that day in UTC.
func parseDay(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func endOfDay(start time.Time) time.Time {
	return start.Add(24*time.Hour - time.Millisecond)
}
