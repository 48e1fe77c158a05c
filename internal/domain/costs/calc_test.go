package costs

import "testing"

func TestComputeFeeOnGross(t *testing.T) {
	out := Compute(Input{Gross: 1000, EmployerRate: 0.2, FeeRate: 0.05, FeeModel: FeeModelGross})
	if out.EmployerTax != 200 {
		t.Fatalf("expected employer tax 200, got %v", out.EmployerTax)
	}
	if out.TotalCostBase != 1200 {
		t.Fatalf("expected total cost base 1200, got %v", out.TotalCostBase)
	}
	if out.Fee != 50 {
		t.Fatalf("expected fee 50, got %v", out.Fee)
	}
	if out.FinalTotal != 1250 {
		t.Fatalf("expected final total 1250, got %v", out.FinalTotal)
	}
}

func TestComputeFeeOnTotalCost(t *testing.T) {
	out := Compute(Input{Gross: 1000, EmployerRate: 0.2, FeeRate: 0.05, FeeModel: FeeModelTotalCost})
	if out.Fee != 60 {
		t.Fatalf("expected fee 60, got %v", out.Fee)
	}
	if out.FinalTotal != 1260 {
		t.Fatalf("expected final total 1260, got %v", out.FinalTotal)
	}
}

func TestComputeZeroRates(t *testing.T) {
	out := Compute(Input{Gross: 500, FeeModel: FeeModelGross})
	if out.EmployerTax != 0 || out.Fee != 0 {
		t.Fatalf("expected zero tax and fee, got %v / %v", out.EmployerTax, out.Fee)
	}
	if out.FinalTotal != 500 {
		t.Fatalf("expected final total 500, got %v", out.FinalTotal)
	}
}

func TestEffectiveFXRate(t *testing.T) {
	out := Compute(Input{Gross: 1000, FeeModel: FeeModelGross, FX: &FXTerms{Spot: 56.2, Spread: 0.01}})
	want := 56.2 * 1.01
	if out.EffectiveFXRate != want {
		t.Fatalf("expected effective rate %v, got %v", want, out.EffectiveFXRate)
	}
}
