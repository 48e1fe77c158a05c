package assistant

// Intent is one entry in the assistant's fixed command grammar. Patterns
// are matched against normalized utterances; Confidence is the score
// reported when a pattern hits.
type Intent struct {
	Name       string
	Patterns   []string
	Confidence float64
}

const (
	IntentCreatePayrollBatch = "create_payroll_batch"
	IntentSubmitBatch        = "submit_batch"
	IntentApproveBatch       = "approve_batch"
	IntentBatchStatus        = "batch_status"
	IntentListIssues         = "list_issues"
	IntentResolveIssue       = "resolve_issue"
	IntentCostBreakdown      = "cost_breakdown"
	IntentLockFXRate         = "lock_fx_rate"
	IntentHelp               = "help"
)

// Intents is the closed grammar. First match wins; there is no ranking
// model or ambiguity resolution beyond table order.
var Intents = []Intent{
	{
		Name:       IntentCreatePayrollBatch,
		Patterns:   []string{"create payroll batch", "new payroll batch", "start payroll run", "create a batch"},
		Confidence: 0.95,
	},
	{
		Name:       IntentSubmitBatch,
		Patterns:   []string{"submit batch", "send batch for approval", "submit for approval"},
		Confidence: 0.9,
	},
	{
		Name:       IntentApproveBatch,
		Patterns:   []string{"approve batch", "approve the batch", "sign off batch"},
		Confidence: 0.9,
	},
	{
		Name:       IntentBatchStatus,
		Patterns:   []string{"batch status", "payroll status", "how is the batch", "show batch"},
		Confidence: 0.85,
	},
	{
		Name:       IntentListIssues,
		Patterns:   []string{"show issues", "list issues", "open issues", "any problems"},
		Confidence: 0.85,
	},
	{
		Name:       IntentResolveIssue,
		Patterns:   []string{"resolve issue", "mark issue resolved", "clear issue"},
		Confidence: 0.9,
	},
	{
		Name:       IntentCostBreakdown,
		Patterns:   []string{"cost breakdown", "employer cost", "how much does", "total cost"},
		Confidence: 0.8,
	},
	{
		Name:       IntentLockFXRate,
		Patterns:   []string{"lock rate", "lock fx", "lock the exchange rate", "fix the rate"},
		Confidence: 0.9,
	},
	{
		Name:       IntentHelp,
		Patterns:   []string{"help", "what can you do"},
		Confidence: 0.7,
	},
}
