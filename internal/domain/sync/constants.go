package sync

const (
	IssueFXFailure       = "fx_failure"
	IssueMissingDoc      = "missing_doc"
	IssuePolicyViolation = "policy_violation"
	IssueDateChange      = "date_change"

	SeverityRed    = "red"
	SeverityYellow = "yellow"
	SeverityBlue   = "blue"
)

var IssueTypes = []string{
	IssueFXFailure,
	IssueMissingDoc,
	IssuePolicyViolation,
	IssueDateChange,
}

var Severities = []string{
	SeverityRed,
	SeverityYellow,
	SeverityBlue,
}

// severityRank orders red above yellow above blue for sorting and blocking
// decisions.
var severityRank = map[string]int{
	SeverityRed:    0,
	SeverityYellow: 1,
	SeverityBlue:   2,
}
