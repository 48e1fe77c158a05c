package costs

import "testing"

func TestContractorCurrencyIsAlwaysEUR(t *testing.T) {
	countries := []string{"Philippines", "United States", "Japan", "Nowhere"}
	for _, country := range countries {
		if got := CurrencyCode(country, "contractor"); got != "EUR" {
			t.Fatalf("contractor in %s: expected EUR, got %s", country, got)
		}
	}
}

func TestEmployeeCurrencyByCountry(t *testing.T) {
	cases := []struct {
		country string
		want    string
	}{
		{"Philippines", "PHP"},
		{"United Kingdom", "GBP"},
		{"Germany", "EUR"},
		{"Atlantis", "USD"},
	}
	for _, tc := range cases {
		if got := CurrencyCode(tc.country, "employee"); got != tc.want {
			t.Fatalf("employee in %s: expected %s, got %s", tc.country, tc.want, got)
		}
	}
}

func TestParseSalaryValue(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"₱85,000/mo", "85000"},
		{"$4,500", "4500"},
		{"€3.200/mo", "3200"},
		{"no digits", ""},
	}
	for _, tc := range cases {
		if got := ParseSalaryValue(tc.raw); got != tc.want {
			t.Fatalf("ParseSalaryValue(%q): expected %q, got %q", tc.raw, tc.want, got)
		}
	}
}

func TestFormatAmountRoundsForDisplay(t *testing.T) {
	if got := FormatAmount(1249.999, "PHP"); got != "₱1250.00" {
		t.Fatalf("expected ₱1250.00, got %s", got)
	}
	if got := FormatAmount(100.5, "NOK"); got != "100.50 NOK" {
		t.Fatalf("expected 100.50 NOK, got %s", got)
	}
}
