package batch

import "errors"

var (
	ErrBatchNotFound       = errors.New("payroll batch not found")
	ErrPayeeNotFound       = errors.New("payee not found in batch")
	ErrUnknownStatus       = errors.New("unknown batch status")
	ErrUnknownPayeeStatus  = errors.New("unknown payee status")
	ErrInvalidTransition   = errors.New("illegal batch status transition")
	ErrNoPayees            = errors.New("batch requires at least one payee")
	ErrExecuteNotApproved  = errors.New("batch must be approved before execution")
	ErrSnapshotTerminal    = errors.New("fx snapshot cannot change on a completed or failed batch")
)
