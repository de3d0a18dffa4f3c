package model

import (
	"errors"
	"strings"
	"testing"
)

func TestOutcome(t *testing.T) {
	t.Parallel()

	t.Run("succeeded outcome is OK", func(t *testing.T) {
		t.Parallel()
		o := Succeeded(&ResponseSnapshot{StatusCode: 200})
		if !o.OK() {
			t.Error("expected OK outcome")
		}
		if o.Failure != nil {
			t.Error("expected no failure")
		}
	})

	t.Run("failed outcome carries side and reason", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection refused")
		o := Failed(SideRight, "http://b.example", cause)

		if o.OK() {
			t.Fatal("expected failed outcome")
		}
		if o.Failure.Side != SideRight {
			t.Errorf("Side = %q, want right", o.Failure.Side)
		}
		if o.Failure.Reason != "connection refused" {
			t.Errorf("Reason = %q", o.Failure.Reason)
		}
		if !errors.Is(o.Failure, cause) {
			t.Error("expected failure to unwrap to the cause")
		}
		if !strings.Contains(o.Failure.Error(), "http://b.example") {
			t.Errorf("Error() should mention the URL, got %q", o.Failure.Error())
		}
	})
}

func TestComparisonResultOneSidedHeaders(t *testing.T) {
	t.Parallel()

	req := NewComparisonRequest("GET", "http://a", "http://b")
	r := NewComparisonResult("run", req)
	r.HeaderDiffs = []HeaderDiff{
		{Name: "Server", Kind: HeaderDifferent},
		{Name: "X-Trace-Id", Kind: HeaderLeftOnly},
		{Name: "X-New", Kind: HeaderRightOnly},
	}

	got := r.OneSidedHeaders()
	if len(got) != 2 {
		t.Fatalf("expected 2 one-sided headers, got %d", len(got))
	}
	if got[0].Name != "X-Trace-Id" || got[1].Name != "X-New" {
		t.Errorf("unexpected headers: %+v", got)
	}
	if r.Failed() {
		t.Error("result without failures must not report Failed")
	}
}
