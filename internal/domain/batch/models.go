package batch

import "time"

// Batch groups payouts for one period. Approvals and Events are append-only
// audit trails; prior entries are never rewritten.
type Batch struct {
	ID        string          `json:"id"`
	Period    string          `json:"period"`
	Status    string          `json:"status"`
	CreatedBy string          `json:"createdBy"`
	Totals    Totals          `json:"totals"`
	FX        FXSnapshot      `json:"fx"`
	Payees    []Payee         `json:"payees"`
	Approvals []ApprovalEvent `json:"approvals"`
	Events    []Event         `json:"events"`
	Receipts  []Receipt       `json:"receipts,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type Totals struct {
	Gross         float64 `json:"gross"`
	EmployerCosts float64 `json:"employerCosts"`
	FXFees        float64 `json:"fxFees"`
}

// Payee is one worker's line. Its status advances independently of the
// parent batch; the batch aggregates payee progress but does not dictate it.
type Payee struct {
	ID            string       `json:"id"`
	BatchID       string       `json:"batchId"`
	WorkerID      string       `json:"workerId"`
	WorkerName    string       `json:"workerName"`
	WorkerType    string       `json:"workerType"`
	Country       string       `json:"country"`
	Currency      string       `json:"currency"`
	Gross         float64      `json:"gross"`
	EmployerCosts float64      `json:"employerCosts"`
	FXFee         float64      `json:"fxFee"`
	ProposedRate  float64      `json:"proposedRate,omitempty"`
	ETA           string       `json:"eta,omitempty"`
	Status        string       `json:"status"`
	Adjustments   []Adjustment `json:"adjustments,omitempty"`
}

type Adjustment struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description,omitempty"`
	Amount      float64 `json:"amount"`
}

// FXSnapshot is a captured set of conversion quotes. LockedUntil is metadata
// only: nothing invalidates the snapshot when the lock window passes (the
// product has not defined an expiry consequence).
type FXSnapshot struct {
	Provider     string             `json:"provider,omitempty"`
	BaseCurrency string             `json:"baseCurrency,omitempty"`
	Quotes       map[string]FXQuote `json:"quotes,omitempty"`
	LockedAt     *time.Time         `json:"lockedAt,omitempty"`
	LockedUntil  *time.Time         `json:"lockedUntil,omitempty"`
	VarianceBps  int                `json:"varianceBps,omitempty"`
}

type FXQuote struct {
	Rate   float64 `json:"rate"`
	FeePct float64 `json:"feePct"`
}

func (s FXSnapshot) Zero() bool {
	return s.Provider == "" && len(s.Quotes) == 0
}

type ApprovalEvent struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batchId"`
	Actor     string    `json:"actor"`
	Decision  string    `json:"decision"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Event struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batchId"`
	Type      string    `json:"type"`
	Actor     string    `json:"actor,omitempty"`
	Note      string    `json:"note,omitempty"`
	RequestID string    `json:"requestId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Receipt struct {
	ID        string    `json:"id"`
	BatchID   string    `json:"batchId"`
	PayeeID   string    `json:"payeeId"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	FileURL   string    `json:"fileUrl"`
	CreatedAt time.Time `json:"createdAt"`
}
