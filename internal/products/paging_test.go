package products

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseQueryInt(t *testing.T) {
	cases := []struct {
		query  string
		def    int
		want   int
		wantOK bool
	}{
		{query: "", def: 1, want: 1, wantOK: true},
		{query: "page=7", def: 1, want: 7, wantOK: true},
		{query: "page=007", def: 1, want: 7, wantOK: true},
		{query: "page=-3", def: 1, want: -3, wantOK: true},
		{query: "page=abc", def: 1, wantOK: false},
		{query: "page=1.5", def: 1, wantOK: false},
		{query: "page=12abc", def: 1, wantOK: false},
		// A present-but-empty value is not the same as an absent one.
		{query: "page=", def: 1, wantOK: false},
	}

	for _, tc := range cases {
		q, err := url.ParseQuery(tc.query)
		require.NoError(t, err, "query=%q", tc.query)

		got, ok := parseQueryInt(q, "page", tc.def)
		require.Equal(t, tc.wantOK, ok, "query=%q", tc.query)
		if ok {
			require.Equal(t, tc.want, got, "query=%q", tc.query)
		}
	}
}

func TestSliceWindow(t *testing.T) {
	cases := []struct {
		length, start, end int
		wantLo, wantHi     int
	}{
		{length: 5, start: 0, end: 5, wantLo: 0, wantHi: 5},
		{length: 5, start: 1, end: 3, wantLo: 1, wantHi: 3},
		{length: 5, start: 3, end: 100, wantLo: 3, wantHi: 5},
		{length: 5, start: 10, end: 20, wantLo: 5, wantHi: 5},
		{length: 5, start: -2, end: 5, wantLo: 3, wantHi: 5},
		{length: 5, start: -20, end: -10, wantLo: 0, wantHi: 0},
		{length: 3, start: -2, end: 0, wantLo: 1, wantHi: 1},
		{length: 0, start: 0, end: 10, wantLo: 0, wantHi: 0},
		{length: 5, start: 4, end: 2, wantLo: 4, wantHi: 4},
	}

	for _, tc := range cases {
		lo, hi := sliceWindow(tc.length, tc.start, tc.end)
		require.Equal(t, tc.wantLo, lo, "length=%d start=%d end=%d", tc.length, tc.start, tc.end)
		require.Equal(t, tc.wantHi, hi, "length=%d start=%d end=%d", tc.length, tc.start, tc.end)
	}
}

func TestTruthy(t *testing.T) {
	require.False(t, truthy(nil))
	require.False(t, truthy(false))
	require.False(t, truthy(""))
	require.False(t, truthy(float64(0)))

	require.True(t, truthy(true))
	require.True(t, truthy("x"))
	require.True(t, truthy(float64(-1)))
	require.True(t, truthy(map[string]any{}))
	require.True(t, truthy([]any{}))
}

func TestCategoryKey(t *testing.T) {
	require.Equal(t, "Books", categoryKey("Books"))
	require.Equal(t, "5", categoryKey(float64(5)))
	require.Equal(t, "5.5", categoryKey(float64(5.5)))
	require.Equal(t, "true", categoryKey(true))
	require.Equal(t, "<nil>", categoryKey(nil))
}
