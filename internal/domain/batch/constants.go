package batch

const (
	StatusDraft            = "Draft"
	StatusAwaitingApproval = "AwaitingApproval"
	StatusApproved         = "Approved"
	StatusExecuting        = "Executing"
	StatusCompleted        = "Completed"
	StatusFailed           = "Failed"

	PayeeCertified      = "CERTIFIED"
	PayeePayrollPending = "PAYROLL_PENDING"
	PayeeInBatch        = "IN_BATCH"
	PayeeExecuting      = "EXECUTING"
	PayeePaid           = "PAID"
	PayeeOnHold         = "ON_HOLD"

	AdjustmentOvertime = "overtime"
	AdjustmentBonus    = "bonus"
	AdjustmentExpense  = "expense"

	DecisionSubmitted        = "submitted"
	DecisionApproved         = "approved"
	DecisionChangesRequested = "changes_requested"

	EventCreated         = "batch.created"
	EventStatusChanged   = "batch.status_changed"
	EventFXSnapshotSet   = "batch.fx_snapshot_set"
	EventPayeeUpdated    = "batch.payee_updated"
	EventReceiptAttached = "batch.receipt_attached"
)

var BatchStatuses = []string{
	StatusDraft,
	StatusAwaitingApproval,
	StatusApproved,
	StatusExecuting,
	StatusCompleted,
	StatusFailed,
}

var PayeeStatuses = []string{
	PayeeCertified,
	PayeePayrollPending,
	PayeeInBatch,
	PayeeExecuting,
	PayeePaid,
	PayeeOnHold,
}

var AdjustmentTypes = []string{
	AdjustmentOvertime,
	AdjustmentBonus,
	AdjustmentExpense,
}
