package batch

import "context"

type StoreAPI interface {
	CreateBatch(ctx context.Context, b Batch) error
	GetBatch(ctx context.Context, batchID string) (Batch, error)
	CountBatches(ctx context.Context) (int, error)
	ListBatches(ctx context.Context, limit, offset int) ([]Batch, error)
	BatchStatus(ctx context.Context, batchID string) (string, error)
	UpdateBatchStatus(ctx context.Context, batchID, status string) error
	SetFXSnapshot(ctx context.Context, batchID string, snapshot FXSnapshot) error
	AddApproval(ctx context.Context, ev ApprovalEvent) error
	AddEvent(ctx context.Context, ev Event) error
	ListPayees(ctx context.Context, batchID string) ([]Payee, error)
	UpdatePayeeStatus(ctx context.Context, batchID, payeeID, status string) error
	AddReceipt(ctx context.Context, receipt Receipt) error
	ListReceipts(ctx context.Context, batchID string) ([]Receipt, error)
}
