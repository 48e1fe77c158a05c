package batchhandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func previewResponse(t *testing.T, body string) map[string]any {
	t.Helper()
	h := &Handler{EmployerRate: 0.2, FeeRate: 0.05}

	req := httptest.NewRequest(http.MethodPost, "/payroll/costs/preview", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.handleCostPreview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return envelope.Data
}

func TestCostPreviewGrossBasis(t *testing.T) {
	data := previewResponse(t, `{"country":"Germany","workerType":"employee","gross":1000,"feeBasis":"GROSS"}`)

	breakdown := data["breakdown"].(map[string]any)
	if breakdown["employerTax"].(float64) != 200 {
		t.Fatalf("expected employer tax 200, got %v", breakdown["employerTax"])
	}
	if breakdown["fee"].(float64) != 50 {
		t.Fatalf("expected fee 50, got %v", breakdown["fee"])
	}
	if breakdown["finalTotal"].(float64) != 1250 {
		t.Fatalf("expected final total 1250, got %v", breakdown["finalTotal"])
	}
	if data["currency"] != "EUR" {
		t.Fatalf("expected EUR for Germany, got %v", data["currency"])
	}
}

func TestCostPreviewTotalCostBasis(t *testing.T) {
	data := previewResponse(t, `{"country":"Philippines","workerType":"employee","gross":1000,"feeBasis":"TOTAL_COST"}`)

	breakdown := data["breakdown"].(map[string]any)
	if breakdown["fee"].(float64) != 60 {
		t.Fatalf("expected fee 60 on total-cost basis, got %v", breakdown["fee"])
	}
	if breakdown["finalTotal"].(float64) != 1260 {
		t.Fatalf("expected final total 1260, got %v", breakdown["finalTotal"])
	}
}

func TestCostPreviewContractorSkipsEmployerTax(t *testing.T) {
	data := previewResponse(t, `{"country":"India","workerType":"contractor","gross":1000,"feeBasis":"GROSS"}`)

	breakdown := data["breakdown"].(map[string]any)
	if breakdown["employerTax"].(float64) != 0 {
		t.Fatalf("expected zero employer tax for contractor, got %v", breakdown["employerTax"])
	}
	if data["currency"] != "EUR" {
		t.Fatalf("expected contractors paid in EUR, got %v", data["currency"])
	}
}

func TestCostPreviewParsesSalaryString(t *testing.T) {
	data := previewResponse(t, `{"country":"Philippines","workerType":"employee","salary":"₱85,000/mo","feeBasis":"GROSS"}`)

	breakdown := data["breakdown"].(map[string]any)
	if breakdown["gross"].(float64) != 85000 {
		t.Fatalf("expected gross 85000 from salary string, got %v", breakdown["gross"])
	}
}

func TestCostPreviewRejectsNonPositiveGross(t *testing.T) {
	h := &Handler{EmployerRate: 0.2, FeeRate: 0.05}
	req := httptest.NewRequest(http.MethodPost, "/payroll/costs/preview", strings.NewReader(`{"gross":0,"feeBasis":"GROSS"}`))
	rec := httptest.NewRecorder()
	h.handleCostPreview(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
