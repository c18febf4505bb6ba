package dates

import (
	"slices"
	"strconv"
	"testing"
	"time"
	"wiki-ui-suite/internal/entity"
	"wiki-ui-suite/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseHeader(t *testing.T) {
	d, err := ParseHeader("June 20, 2019 (Thursday)")
	require.NoError(t, err)
	assert.Equal(t, entity.ParsedDate{Month: "June", Day: "20", Year: "2019", Weekday: "Thursday"}, d)

	d, err = ParseHeader("July 4, 1994 edit history watch (Monday)")
	require.NoError(t, err)
	assert.Equal(t, "4", d.Day)
	assert.Equal(t, "Monday", d.Weekday)
}

func TestParseHeaderMismatch(t *testing.T) {
	for _, text := range []string{"June 2019", "June 0, 2019 (Thursday)", "Juny 20, 2019 (Thursday)", "June 20, 2019", ""} {
		_, err := ParseHeader(text)
		assert.ErrorIs(t, err, apperr.ErrPatternMismatch, text)
		assert.Equal(t, apperr.CodePatternMismatch, apperr.CodeOf(err), text)
	}
}

func TestMonthLookupsRejectInvalidInput(t *testing.T) {
	_, err := MonthIndex("june")
	assert.ErrorIs(t, err, apperr.ErrInvalidMonth)

	_, err = MonthIndex("")
	assert.ErrorIs(t, err, apperr.ErrInvalidMonth)

	for _, i := range []int{0, 13, -1} {
		_, err := MonthName(i)
		assert.ErrorIs(t, err, apperr.ErrInvalidMonth)
	}
}

func TestMonthRoundTrip_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		i := rapid.IntRange(1, 12).Draw(t, "index")

		name, err := MonthName(i)
		if err != nil {
			t.Fatalf("MonthName(%d): %v", i, err)
		}

		back, err := MonthIndex(name)
		if err != nil {
			t.Fatalf("MonthIndex(%q): %v", name, err)
		}

		if int(back) != i {
			t.Fatalf("round trip %d -> %q -> %d", i, name, back)
		}
	})
}

func TestMonthNameRoundTrip(t *testing.T) {
	names := []string{"January", "February", "March", "April", "May", "June", "July",
		"August", "September", "October", "November", "December"}

	for _, name := range names {
		i, err := MonthIndex(name)
		require.NoError(t, err)

		back, err := MonthName(int(i))
		require.NoError(t, err)
		assert.Equal(t, name, back)
	}
}

func drawDate(t *rapid.T, label string) entity.ParsedDate {
	year := rapid.IntRange(FirstArchivedYear, 2030).Draw(t, label+"_year")
	month := time.Month(rapid.IntRange(1, 12).Draw(t, label+"_month"))
	day := rapid.IntRange(1, 28).Draw(t, label+"_day")
	when := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	return entity.ParsedDate{
		Month:   month.String(),
		Day:     strconv.Itoa(day),
		Year:    strconv.Itoa(year),
		Weekday: when.Weekday().String(),
	}
}

func TestInOrder_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		ds := make([]entity.ParsedDate, n)
		for i := range ds {
			ds[i] = drawDate(t, strconv.Itoa(i))
		}

		cmp := func(a, b entity.ParsedDate) int {
			ka, _ := KeyOf(a)
			kb, _ := KeyOf(b)
			return ka.Compare(kb)
		}

		asc := slices.Clone(ds)
		slices.SortStableFunc(asc, cmp)

		ok, err := InOrder(asc, true)
		if err != nil || !ok {
			t.Fatalf("ascending listing not recognised: ok=%v err=%v", ok, err)
		}

		desc := slices.Clone(asc)
		slices.Reverse(desc)

		ok, err = InOrder(desc, false)
		if err != nil || !ok {
			t.Fatalf("descending listing not recognised: ok=%v err=%v", ok, err)
		}
	})
}

func TestInOrderDetectsDisorder(t *testing.T) {
	ds := []entity.ParsedDate{
		{Month: "June", Day: "2", Year: "2019"},
		{Month: "June", Day: "1", Year: "2019"},
		{Month: "June", Day: "3", Year: "2019"},
	}

	ok, err := InOrder(ds, true)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = InOrder(ds, false)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = InOrder([]entity.ParsedDate{{Month: "Smarch", Day: "1", Year: "2019"}}, true)
	assert.ErrorIs(t, err, apperr.ErrInvalidMonth)
}

func TestMonthRange(t *testing.T) {
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

	first, last, err := MonthRange(1994, now)
	require.NoError(t, err)
	assert.Equal(t, time.July, first)
	assert.Equal(t, time.December, last)

	first, last, err = MonthRange(2026, now)
	require.NoError(t, err)
	assert.Equal(t, time.January, first)
	assert.Equal(t, time.October, last)

	_, _, err = MonthRange(1993, now)
	assert.Error(t, err)

	_, _, err = MonthRange(2027, now)
	assert.Error(t, err)
}
