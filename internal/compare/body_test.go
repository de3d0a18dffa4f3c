package compare

import (
	"bytes"
	"testing"

	"github.com/nao1215/httpdiff/internal/model"
)

func TestCompareBodies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		left       []byte
		right      []byte
		wantMatch  bool
		wantReason model.BodyMismatchReason
	}{
		{name: "identical", left: []byte("hello"), right: []byte("hello"), wantMatch: true},
		{name: "both empty", left: nil, right: []byte{}, wantMatch: true},
		{name: "same length different content", left: []byte("hello"), right: []byte("hallo"), wantReason: model.BodyDifferentContent},
		{name: "different length", left: []byte("hello"), right: []byte("hello!"), wantReason: model.BodyDifferentLength},
		{name: "one side empty", left: []byte(""), right: []byte("x"), wantReason: model.BodyDifferentLength},
		{name: "binary content", left: []byte{0x00, 0xff}, right: []byte{0x00, 0xfe}, wantReason: model.BodyDifferentContent},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			match, detail := CompareBodies(tt.left, tt.right)
			if match != tt.wantMatch {
				t.Fatalf("match = %v, want %v", match, tt.wantMatch)
			}
			if match {
				if detail != nil {
					t.Errorf("expected nil detail for equal bodies, got %+v", detail)
				}
				return
			}
			if detail.Reason != tt.wantReason {
				t.Errorf("reason = %s, want %s", detail.Reason, tt.wantReason)
			}
			if detail.LeftLength != len(tt.left) || detail.RightLength != len(tt.right) {
				t.Errorf("lengths = %d/%d, want %d/%d", detail.LeftLength, detail.RightLength, len(tt.left), len(tt.right))
			}
		})
	}
}

func TestCompareBodies_DifferentLengthNeverContent(t *testing.T) {
	t.Parallel()

	// Shares a long prefix so a content scan would find a difference late.
	left := bytes.Repeat([]byte("a"), 1000)
	right := append(bytes.Repeat([]byte("a"), 1000), 'b')

	_, detail := CompareBodies(left, right)
	if detail == nil || detail.Reason != model.BodyDifferentLength {
		t.Fatalf("expected different-length, got %+v", detail)
	}
}

func TestStats(t *testing.T) {
	t.Parallel()

	t.Run("equal bodies have no stats", func(t *testing.T) {
		t.Parallel()
		if s := Stats([]byte("same"), []byte("same")); s != nil {
			t.Errorf("expected nil, got %+v", s)
		}
	})

	t.Run("single substitution", func(t *testing.T) {
		t.Parallel()
		s := Stats([]byte("hello"), []byte("hallo"))
		if s == nil {
			t.Fatal("expected stats")
		}
		if s.FirstDifference != 1 {
			t.Errorf("FirstDifference = %d, want 1", s.FirstDifference)
		}
		if s.Inserted != 1 || s.Deleted != 1 {
			t.Errorf("inserted/deleted = %d/%d, want 1/1", s.Inserted, s.Deleted)
		}
		if s.Equal != 4 {
			t.Errorf("Equal = %d, want 4", s.Equal)
		}
		if s.Hunks != 1 {
			t.Errorf("Hunks = %d, want 1", s.Hunks)
		}
	})

	t.Run("appended suffix", func(t *testing.T) {
		t.Parallel()
		s := Stats([]byte("abc"), []byte("abcdef"))
		if s == nil {
			t.Fatal("expected stats")
		}
		if s.FirstDifference != 3 {
			t.Errorf("FirstDifference = %d, want 3", s.FirstDifference)
		}
		if s.Inserted != 3 || s.Deleted != 0 {
			t.Errorf("inserted/deleted = %d/%d, want 3/0", s.Inserted, s.Deleted)
		}
	})

	t.Run("large bodies skip the character diff", func(t *testing.T) {
		t.Parallel()
		left := bytes.Repeat([]byte("x"), MaxStatsSize+1)
		right := bytes.Repeat([]byte("y"), MaxStatsSize+1)
		s := Stats(left, right)
		if s == nil {
			t.Fatal("expected stats")
		}
		if s.FirstDifference != 0 {
			t.Errorf("FirstDifference = %d, want 0", s.FirstDifference)
		}
		if s.Inserted != 0 || s.Deleted != 0 || s.Equal != 0 || s.Hunks != 0 {
			t.Errorf("expected only the offset, got %+v", s)
		}
	})

	t.Run("binary bodies skip the character diff", func(t *testing.T) {
		t.Parallel()
		s := Stats([]byte("ab\xff"), []byte("ab\xfe"))
		if s == nil {
			t.Fatal("expected stats")
		}
		if s.FirstDifference != 2 {
			t.Errorf("FirstDifference = %d, want 2", s.FirstDifference)
		}
		if s.Inserted != 0 || s.Deleted != 0 || s.Equal != 0 || s.Hunks != 0 {
			t.Errorf("expected only the offset, got %+v", s)
		}
	})

	t.Run("binary bodies are still reported as different", func(t *testing.T) {
		t.Parallel()
		same, detail := CompareBodies([]byte{0xff}, []byte{0xfe})
		if same {
			t.Fatal("expected bodies to differ")
		}
		if detail.Reason != model.BodyDifferentContent || detail.Stats == nil || detail.Stats.FirstDifference != 0 {
			t.Errorf("unexpected detail: %+v", detail)
		}
	})
}

func TestFirstDifference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		left, right string
		want        int
	}{
		{"", "", -1},
		{"abc", "abc", -1},
		{"abc", "abd", 2},
		{"abc", "ab", 2},
		{"", "a", 0},
	}
	for _, tt := range tests {
		if got := FirstDifference([]byte(tt.left), []byte(tt.right)); got != tt.want {
			t.Errorf("FirstDifference(%q, %q) = %d, want %d", tt.left, tt.right, got, tt.want)
		}
	}
}
