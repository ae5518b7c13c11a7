package reports_test

import (
	"testing"

	"github.com/danclocks/cleanjam-sub001/internal/reports"
)

// TestCanTransition pins the full status transition matrix: resolved and
// rejected are terminal, and nothing moves backwards.
func TestCanTransition(t *testing.T) {
	all := []reports.Status{
		reports.StatusOpen, reports.StatusInProgress,
		reports.StatusResolved, reports.StatusRejected,
	}

	legal := map[[2]reports.Status]bool{
		{reports.StatusOpen, reports.StatusInProgress}:     true,
		{reports.StatusOpen, reports.StatusResolved}:       true,
		{reports.StatusOpen, reports.StatusRejected}:       true,
		{reports.StatusInProgress, reports.StatusResolved}: true,
		{reports.StatusInProgress, reports.StatusRejected}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := legal[[2]reports.Status{from, to}]
			if got := reports.CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, valid := range []string{"garbage", "dumping", "overflow", "other"} {
		if _, ok := reports.ParseCategory(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	for _, invalid := range []string{"", "Garbage", "litter"} {
		if _, ok := reports.ParseCategory(invalid); ok {
			t.Errorf("expected %q to be rejected", invalid)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"open", "in_progress", "resolved", "rejected"} {
		if _, ok := reports.ParseStatus(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	if _, ok := reports.ParseStatus("closed"); ok {
		t.Error("expected \"closed\" to be rejected")
	}
}
