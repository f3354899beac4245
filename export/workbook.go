package export

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"collections-backend/models"
)

const summarySheet = "Summary"

var paymentColumns = []string{"Loan ID", "Campaign", "DPD", "Amount", "Date Paid", "Operator Name", "Customer Name"}

var disputeColumns = []string{
	"Dispute ID", "Loan ID", "Campaign", "Customer Name", "Amount", "Original Operator",
	"Reason", "Corrected Details", "Validated By", "Validation Date", "DA Verified By", "DA Verification Date",
}

// BuildPaymentWorkbook renders payment records into a workbook with one
// sheet per campaign plus a Summary sheet carrying per-campaign row counts
// and amount totals.
func BuildPaymentWorkbook(records []models.PaymentRecord, includeHeaders bool) ([]byte, error) {
	grouped := map[string][]models.PaymentRecord{}
	for _, r := range records {
		grouped[campaignOr(r.Campaign)] = append(grouped[campaignOr(r.Campaign)], r)
	}

	f := excelize.NewFile()
	defer f.Close()

	style, err := headerStyle(f)
	if err != nil {
		return nil, err
	}

	for i, campaign := range sortedKeys(grouped) {
		sheet := sheetName(campaign)
		if err := addSheet(f, sheet, i == 0); err != nil {
			return nil, err
		}

		row := 1
		if includeHeaders {
			if err := writeHeader(f, sheet, paymentColumns, style); err != nil {
				return nil, err
			}
			row = 2
		}

		for _, r := range grouped[campaign] {
			values := []any{r.LoanID, r.Campaign, r.DPD, r.Amount, r.DatePaid.Format("2006-01-02"), r.OperatorName, r.CustomerName}
			if err := writeRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			row++
		}

		f.SetColWidth(sheet, "A", "B", 16)
		f.SetColWidth(sheet, "C", "E", 12)
		f.SetColWidth(sheet, "F", "G", 20)
	}

	if err := addSheet(f, summarySheet, len(grouped) == 0); err != nil {
		return nil, err
	}
	if err := writeHeader(f, summarySheet, []string{"Campaign", "Record Count", "Total Amount"}, style); err != nil {
		return nil, err
	}
	row := 2
	for _, campaign := range sortedKeys(grouped) {
		var total float64
		for _, r := range grouped[campaign] {
			total += r.Amount
		}
		if err := writeRow(f, summarySheet, row, []any{campaign, len(grouped[campaign]), total}); err != nil {
			return nil, err
		}
		row++
	}
	f.SetColWidth(summarySheet, "A", "C", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildDisputeWorkbook renders approved disputes grouped by the referenced
// record's campaign, with both reviewer stamps, plus a Summary sheet with
// per-campaign dispute counts.
func BuildDisputeWorkbook(disputes []models.Dispute, includeHeaders bool) ([]byte, error) {
	grouped := map[string][]models.Dispute{}
	for _, d := range disputes {
		grouped[campaignOr(d.Entry.Campaign)] = append(grouped[campaignOr(d.Entry.Campaign)], d)
	}

	f := excelize.NewFile()
	defer f.Close()

	style, err := headerStyle(f)
	if err != nil {
		return nil, err
	}

	for i, campaign := range sortedKeys(grouped) {
		sheet := sheetName(campaign)
		if err := addSheet(f, sheet, i == 0); err != nil {
			return nil, err
		}

		row := 1
		if includeHeaders {
			if err := writeHeader(f, sheet, disputeColumns, style); err != nil {
				return nil, err
			}
			row = 2
		}

		for _, d := range grouped[campaign] {
			values := []any{
				d.ID, d.Entry.LoanID, d.Entry.Campaign, d.Entry.CustomerName, d.Entry.Amount, d.Entry.OperatorName,
				d.Reason, d.CorrectedDetails,
				d.ValidatedBy, stampOrEmpty(d.ValidatedAt),
				d.DAVerifiedBy, stampOrEmpty(d.DAVerifiedAt),
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return nil, err
			}
			row++
		}

		f.SetColWidth(sheet, "A", "F", 16)
		f.SetColWidth(sheet, "G", "L", 20)
	}

	if err := addSheet(f, summarySheet, len(grouped) == 0); err != nil {
		return nil, err
	}
	if err := writeHeader(f, summarySheet, []string{"Campaign", "Dispute Count"}, style); err != nil {
		return nil, err
	}
	row := 2
	for _, campaign := range sortedKeys(grouped) {
		if err := writeRow(f, summarySheet, row, []any{campaign, len(grouped[campaign])}); err != nil {
			return nil, err
		}
		row++
	}
	f.SetColWidth(summarySheet, "A", "B", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4F46E5"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("export: header style: %w", err)
	}
	return style, nil
}

// addSheet creates (or renames the default sheet into) the named sheet.
func addSheet(f *excelize.File, name string, first bool) error {
	if first {
		return f.SetSheetName("Sheet1", name)
	}
	_, err := f.NewSheet(name)
	return err
}

func writeHeader(f *excelize.File, sheet string, columns []string, style int) error {
	if err := writeRow(f, sheet, 1, toAny(columns)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("export: set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

// sheetName clips to Excel's 31-character limit and strips characters the
// format forbids.
func sheetName(campaign string) string {
	out := make([]rune, 0, len(campaign))
	for _, r := range campaign {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
		if len(out) == 31 {
			break
		}
	}
	if len(out) == 0 {
		return "Sheet1"
	}
	return string(out)
}

func campaignOr(name string) string {
	if name == "" {
		return "No Campaign"
	}
	return name
}

func stampOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
