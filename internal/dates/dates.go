// Package dates parses the day headings of the current events portal and orders them.
package dates

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"time"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/pkg/apperr"
)

// First month with an archived current events page.
const (
	FirstArchivedYear  = 1994
	FirstArchivedMonth = time.July
)

// LongDatePattern matches headings such as "June 20, 2019 (Thursday)", allowing any
// text between the year and the weekday.
var LongDatePattern = regexp.MustCompile(
	`(January|February|March|April|May|June|July|August|September|October|November|December)\s([1-9][0-9]?),\s(\d{4}).*\((Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)\)`)

func ParseHeader(text string) (entity.ParsedDate, error) {
	const op = "dates.ParseHeader"

	m := LongDatePattern.FindStringSubmatch(text)
	if m == nil {
		return entity.ParsedDate{}, apperr.Wrap(op, apperr.CodePatternMismatch, fmt.Errorf("%w: %q", apperr.ErrPatternMismatch, text), map[string]any{
			apperr.MetaStage: apperr.StageParsing,
			apperr.MetaInput: text,
		})
	}

	return entity.ParsedDate{Month: m[1], Day: m[2], Year: m[3], Weekday: m[4]}, nil
}

var monthsByName = func() map[string]time.Month {
	m := make(map[string]time.Month, 12)
	for i := time.January; i <= time.December; i++ {
		m[i.String()] = i
	}

	return m
}()

// MonthIndex maps a full English month name to its number. Names are case sensitive.
func MonthIndex(name string) (time.Month, error) {
	if m, ok := monthsByName[name]; ok {
		return m, nil
	}

	return 0, apperr.InvalidReqError("dates.MonthIndex", "month_name", fmt.Errorf("%w name %q", apperr.ErrInvalidMonth, name))
}

func MonthName(index int) (string, error) {
	if index < int(time.January) || index > int(time.December) {
		return "", apperr.InvalidReqError("dates.MonthName", "month_index", fmt.Errorf("%w number %d", apperr.ErrInvalidMonth, index))
	}

	return time.Month(index).String(), nil
}

// Key is a ParsedDate in sortable numeric form.
type Key struct {
	Year  int
	Month time.Month
	Day   int
}

func (k Key) Compare(o Key) int {
	switch {
	case k.Year != o.Year:
		return k.Year - o.Year
	case k.Month != o.Month:
		return int(k.Month) - int(o.Month)
	default:
		return k.Day - o.Day
	}
}

func KeyOf(d entity.ParsedDate) (Key, error) {
	const op = "dates.KeyOf"

	year, err := strconv.Atoi(d.Year)
	if err != nil {
		return Key{}, apperr.InvalidReqError(op, "year", err)
	}

	day, err := strconv.Atoi(d.Day)
	if err != nil {
		return Key{}, apperr.InvalidReqError(op, "day", err)
	}

	month, err := MonthIndex(d.Month)
	if err != nil {
		return Key{}, err
	}

	return Key{Year: year, Month: month, Day: day}, nil
}

// InOrder reports whether the dates, as listed, equal their own sorted order
// (ascending or descending). Equal neighbours are allowed either way.
func InOrder(dates []entity.ParsedDate, ascending bool) (bool, error) {
	keys := make([]Key, 0, len(dates))

	for _, d := range dates {
		k, err := KeyOf(d)
		if err != nil {
			return false, err
		}

		keys = append(keys, k)
	}

	sorted := slices.Clone(keys)
	slices.SortStableFunc(sorted, func(a, b Key) int {
		if ascending {
			return a.Compare(b)
		}

		return b.Compare(a)
	})

	return slices.Equal(keys, sorted), nil
}

// MonthRange returns the first and last month with an archive page in year, given the
// current date. Years before the first archive or after now are rejected.
func MonthRange(year int, now time.Time) (first, last time.Month, err error) {
	if year < FirstArchivedYear || year > now.Year() {
		return 0, 0, apperr.InvalidReqError("dates.MonthRange", "year",
			fmt.Errorf("year must be between %d and %d, value is %d", FirstArchivedYear, now.Year(), year))
	}

	first, last = time.January, time.December

	if year == FirstArchivedYear {
		first = FirstArchivedMonth
	}

	if year == now.Year() {
		last = now.Month()
	}

	return first, last, nil
}
