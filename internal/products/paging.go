package products

import (
	"net/url"
	"strconv"
)

// parseQueryInt parses a page or limit parameter. An absent key falls
// back to def; a present value that is not an integer (including the
// empty string) reports ok=false, which callers surface as a null in
// the response.
func parseQueryInt(q url.Values, key string, def int) (int, bool) {
	if !q.Has(key) {
		return def, true
	}

	n, err := strconv.Atoi(q.Get(key))
	if err != nil {
		return 0, false
	}
	return n, true
}

// sliceWindow clamps [start, end) to a slice of the given length.
// Negative indexes count back from the end, and a window that closes
// before it opens is empty.
func sliceWindow(length, start, end int) (int, int) {
	lo := clampIndex(start, length)
	hi := clampIndex(end, length)
	if hi < lo {
		hi = lo
	}
	return lo, hi
}

func clampIndex(i, length int) int {
	if i < 0 {
		i += length
		if i < 0 {
			return 0
		}
		return i
	}
	if i > length {
		return length
	}
	return i
}
