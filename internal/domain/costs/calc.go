package costs

type FeeModel string

const (
	FeeModelGross     FeeModel = "GROSS"
	FeeModelTotalCost FeeModel = "TOTAL_COST"
)

// FXTerms carries a spot rate and the spread applied on top of it.
type FXTerms struct {
	Spot   float64
	Spread float64
}

// EffectiveRate is the rate actually charged: spot * (1 + spread).
func (t FXTerms) EffectiveRate() float64 {
	return t.Spot * (1 + t.Spread)
}

type Input struct {
	Gross        float64
	EmployerRate float64
	FeeRate      float64
	FeeModel     FeeModel
	FX           *FXTerms
}

type Breakdown struct {
	Gross           float64 `json:"gross"`
	EmployerTax     float64 `json:"employerTax"`
	TotalCostBase   float64 `json:"totalCostBase"`
	Fee             float64 `json:"fee"`
	FinalTotal      float64 `json:"finalTotal"`
	EffectiveFXRate float64 `json:"effectiveFxRate,omitempty"`
}

// Compute is the gross-to-total employer cost breakdown. Amounts are not
// rounded here; rounding happens at the formatting boundary only.
func Compute(in Input) Breakdown {
	employerTax := in.Gross * in.EmployerRate
	totalCostBase := in.Gross + employerTax

	feeBase := in.Gross
	if in.FeeModel == FeeModelTotalCost {
		feeBase = totalCostBase
	}
	fee := in.FeeRate * feeBase

	out := Breakdown{
		Gross:         in.Gross,
		EmployerTax:   employerTax,
		TotalCostBase: totalCostBase,
		Fee:           fee,
		FinalTotal:    totalCostBase + fee,
	}
	if in.FX != nil && in.FX.Spot > 0 {
		out.EffectiveFXRate = in.FX.EffectiveRate()
	}
	return out
}
