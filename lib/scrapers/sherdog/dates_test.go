package sherdog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseCompactDate(t *testing.T) {
	date := ParseCompactDate("JUL122025")
	require.NotNil(t, date)
	require.Equal(t, time.Date(2025, time.July, 12, 0, 0, 0, 0, time.UTC), *date)

	date = ParseCompactDate("dec012019")
	require.NotNil(t, date)
	require.Equal(t, time.Date(2019, time.December, 1, 0, 0, 0, 0, time.UTC), *date)

	require.Nil(t, ParseCompactDate(""))
	require.Nil(t, ParseCompactDate("JUL2025"))
	require.Nil(t, ParseCompactDate("XYZ122025"))
	require.Nil(t, ParseCompactDate("JULAB2025"))
	require.Nil(t, ParseCompactDate("JUL992025"))
}

func TestParseRoundTime(t *testing.T) {
	seconds, ok := ParseRoundTime("4:13")
	require.True(t, ok)
	require.Equal(t, 253, seconds)

	seconds, ok = ParseRoundTime("0:47")
	require.True(t, ok)
	require.Equal(t, 47, seconds)

	_, ok = ParseRoundTime("")
	require.False(t, ok)
	_, ok = ParseRoundTime("N/A")
	require.False(t, ok)
	_, ok = ParseRoundTime("4:99")
	require.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	category, err := ParseCategory("185 Middleweight")
	require.NoError(t, err)
	require.Equal(t, Category{Name: "Middleweight", Weight: 185}, category)

	// weight resolved from the static table when the cell omits it
	category, err = ParseCategory("Middleweight")
	require.NoError(t, err)
	require.Equal(t, Category{Name: "Middleweight", Weight: 185}, category)

	category, err = ParseCategory("Light Heavyweight Title Bout")
	require.NoError(t, err)
	require.Equal(t, Category{Name: "Light Heavyweight", Weight: 205}, category)

	// a novel name with no scraped weight and no table entry is a hard
	// failure, not a guess
	_, err = ParseCategory("Openweight")
	require.Error(t, err)

	_, err = ParseCategory("")
	require.Error(t, err)
}

func TestIsTitleFight(t *testing.T) {
	require.True(t, IsTitleFight("Heavyweight Title Bout"))
	require.False(t, IsTitleFight("185 Middleweight"))
}
