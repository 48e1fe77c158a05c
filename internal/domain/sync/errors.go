package sync

import "errors"

var (
	ErrIssueNotFound    = errors.New("payroll issue not found")
	ErrUnknownIssueType = errors.New("unknown issue type")
	ErrUnknownSeverity  = errors.New("unknown issue severity")
)
