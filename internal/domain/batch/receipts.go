package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"geniehr/internal/domain/costs"
)

// GenerateReceiptPDF writes a payment receipt for one payee line and returns
// the file path.
func GenerateReceiptPDF(dir string, b Batch, payee Payee, receipt Receipt) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	filePath := filepath.Join(dir, receipt.ID+".pdf")

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payment Receipt")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Payee: %s", payee.WorkerName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s", b.Period))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Batch: %s", b.ID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Paid: %s", costs.FormatAmount(receipt.Amount, receipt.Currency)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", time.Now().UTC().Format("2006-01-02")))

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", err
	}
	return filePath, nil
}
