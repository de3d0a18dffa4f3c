package compare

import (
	"net/http"
	"slices"
	"sort"

	"github.com/nao1215/httpdiff/internal/model"
)

// ExcludeFunc reports whether a response header is left out of the comparison.
type ExcludeFunc func(name string) bool

// headerEntry is one header name with its values, keyed by canonical name.
type headerEntry struct {
	display string
	values  []string
}

// CompareHeaders compares two header sets and returns whether they match
// together with every difference found.
//
// Names are compared in canonical MIME form; the name reported in a diff is
// the one received. Left names are scanned first in sorted order: a name
// missing on the right is left-only, a name present on both sides is
// different when its value lists are not positionally equal. Right names
// missing on the left are then reported as right-only. A one-sided header is
// reported once and never as different.
func CompareHeaders(left, right http.Header, excluded ExcludeFunc) (bool, []model.HeaderDiff) {
	if excluded == nil {
		excluded = func(string) bool { return false }
	}

	l := normalize(left, excluded)
	r := normalize(right, excluded)

	var diffs []model.HeaderDiff

	for _, key := range sortedKeys(l) {
		le := l[key]
		re, ok := r[key]
		if !ok {
			diffs = append(diffs, model.HeaderDiff{
				Name: le.display,
				Kind: model.HeaderLeftOnly,
				Left: le.values,
			})
			continue
		}
		if !slices.Equal(le.values, re.values) {
			diffs = append(diffs, model.HeaderDiff{
				Name:  le.display,
				Kind:  model.HeaderDifferent,
				Left:  le.values,
				Right: re.values,
			})
		}
	}

	for _, key := range sortedKeys(r) {
		if _, ok := l[key]; ok {
			continue
		}
		re := r[key]
		diffs = append(diffs, model.HeaderDiff{
			Name:  re.display,
			Kind:  model.HeaderRightOnly,
			Right: re.values,
		})
	}

	return len(diffs) == 0, diffs
}

// normalize keys h by canonical name and drops excluded headers. Values of
// spellings that only differ in case are concatenated in sorted spelling order.
func normalize(h http.Header, excluded ExcludeFunc) map[string]headerEntry {
	out := make(map[string]headerEntry, len(h))

	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if excluded(name) {
			continue
		}
		key := http.CanonicalHeaderKey(name)
		e, ok := out[key]
		if !ok {
			e.display = name
		}
		e.values = append(e.values, h[name]...)
		out[key] = e
	}
	return out
}

func sortedKeys(m map[string]headerEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
