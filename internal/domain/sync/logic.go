package sync

import "sort"

func ValidIssueType(issueType string) bool {
	for _, candidate := range IssueTypes {
		if issueType == candidate {
			return true
		}
	}
	return false
}

func ValidSeverity(severity string) bool {
	_, ok := severityRank[severity]
	return ok
}

// SortIssues orders unresolved before resolved, then by severity (red
// first), then newest first.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Resolved != issues[j].Resolved {
			return !issues[i].Resolved
		}
		if severityRank[issues[i].Severity] != severityRank[issues[j].Severity] {
			return severityRank[issues[i].Severity] < severityRank[issues[j].Severity]
		}
		return issues[i].CreatedAt.After(issues[j].CreatedAt)
	})
}

// ReadyForPayroll reports whether a worker can enter a batch: every
// checklist item done and no unresolved red issue.
func ReadyForPayroll(checklist []ChecklistItem, issues []Issue) bool {
	for _, item := range checklist {
		if !item.Done {
			return false
		}
	}
	for _, issue := range issues {
		if !issue.Resolved && issue.Severity == SeverityRed {
			return false
		}
	}
	return true
}
