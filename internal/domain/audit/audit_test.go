package audit

import (
	"strings"
	"testing"
	"time"
)

func TestBuildBaseQueryDateRange(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{Action: "auth.login", From: from, To: to})

	if !strings.Contains(query, "created_at >= $2") || !strings.Contains(query, "created_at < $3") {
		t.Fatalf("expected date range predicates, got %q", query)
	}
	if len(args) != 3 || args[1] != from || args[2] != to {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildBaseQuerySkipsZeroDates(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", Filter{EntityType: "payroll_batch"})

	if strings.Contains(query, "created_at") {
		t.Fatalf("zero dates must not add predicates, got %q", query)
	}
	if len(args) != 1 {
		t.Fatalf("expected one arg, got %v", args)
	}
}
