package sync

import (
	"testing"
	"time"
)

func TestReadyForPayroll(t *testing.T) {
	doneChecklist := []ChecklistItem{
		{Key: "contract_signed", Done: true},
		{Key: "bank_verified", Done: true},
	}

	if !ReadyForPayroll(doneChecklist, nil) {
		t.Fatal("complete checklist with no issues must be ready")
	}

	if ReadyForPayroll([]ChecklistItem{{Key: "bank_verified", Done: false}}, nil) {
		t.Fatal("incomplete checklist must not be ready")
	}

	redOpen := []Issue{{Type: IssueFXFailure, Severity: SeverityRed, Resolved: false}}
	if ReadyForPayroll(doneChecklist, redOpen) {
		t.Fatal("open red issue must block readiness")
	}

	redResolved := []Issue{{Type: IssueFXFailure, Severity: SeverityRed, Resolved: true}}
	if !ReadyForPayroll(doneChecklist, redResolved) {
		t.Fatal("resolved red issue must not block readiness")
	}

	yellowOpen := []Issue{{Type: IssueDateChange, Severity: SeverityYellow, Resolved: false}}
	if !ReadyForPayroll(doneChecklist, yellowOpen) {
		t.Fatal("open yellow issue must not block readiness")
	}
}

func TestSortIssuesOrdersBySeverityThenRecency(t *testing.T) {
	now := time.Now()
	issues := []Issue{
		{ID: "resolved-red", Severity: SeverityRed, Resolved: true, CreatedAt: now},
		{ID: "old-yellow", Severity: SeverityYellow, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "blue", Severity: SeverityBlue, CreatedAt: now},
		{ID: "new-yellow", Severity: SeverityYellow, CreatedAt: now.Add(-time.Hour)},
		{ID: "red", Severity: SeverityRed, CreatedAt: now},
	}

	SortIssues(issues)

	want := []string{"red", "new-yellow", "old-yellow", "blue", "resolved-red"}
	for i, id := range want {
		if issues[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, issues[i].ID)
		}
	}
}

func TestValidators(t *testing.T) {
	if !ValidIssueType(IssueMissingDoc) || ValidIssueType("overdraft") {
		t.Fatal("issue type validation wrong")
	}
	if !ValidSeverity(SeverityBlue) || ValidSeverity("orange") {
		t.Fatal("severity validation wrong")
	}
}
