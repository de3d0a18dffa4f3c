package compare

import (
	"bytes"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/nao1215/httpdiff/internal/model"
)

// MaxStatsSize is the largest body, in bytes, for which diff statistics are
// computed. Larger bodies only get the length and offset information.
const MaxStatsSize = 1 << 20

// CompareBodies compares two response bodies byte for byte.
//
// It returns true and a nil detail when the bodies are identical. Otherwise
// the detail tells whether the lengths or only the contents differ and, for
// bodies up to MaxStatsSize, carries diff statistics.
func CompareBodies(left, right []byte) (bool, *model.BodyDiffDetail) {
	detail := &model.BodyDiffDetail{
		LeftLength:  len(left),
		RightLength: len(right),
	}

	switch {
	case len(left) != len(right):
		detail.Reason = model.BodyDifferentLength
	case bytes.Equal(left, right):
		return true, nil
	default:
		detail.Reason = model.BodyDifferentContent
	}

	detail.Stats = Stats(left, right)
	return false, detail
}

// Stats summarizes the differences between two bodies. It returns nil when
// the bodies are equal. When either body exceeds MaxStatsSize or is not
// valid UTF-8 only the first difference offset is filled in.
func Stats(left, right []byte) *model.DiffStats {
	first := FirstDifference(left, right)
	if first < 0 {
		return nil
	}

	stats := &model.DiffStats{FirstDifference: first}
	if len(left) > MaxStatsSize || len(right) > MaxStatsSize {
		return stats
	}
	// Character counts are meaningless for binary bodies: every invalid
	// byte would decode to the same replacement rune.
	if !utf8.Valid(left) || !utf8.Valid(right) {
		return stats
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(left), string(right), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	inChange := false
	for _, d := range diffs {
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			stats.Inserted += n
		case diffmatchpatch.DiffDelete:
			stats.Deleted += n
		case diffmatchpatch.DiffEqual:
			stats.Equal += n
			inChange = false
			continue
		}
		if !inChange {
			stats.Hunks++
			inChange = true
		}
	}

	return stats
}

// FirstDifference returns the offset of the first byte at which left and
// right differ, or -1 if they are equal. When one body is a prefix of the
// other the offset is the length of the shorter one.
func FirstDifference(left, right []byte) int {
	n := min(len(left), len(right))
	for i := 0; i < n; i++ {
		if left[i] != right[i] {
			return i
		}
	}
	if len(left) != len(right) {
		return n
	}
	return -1
}
