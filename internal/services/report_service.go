package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"

	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/timeutil"
	"warehouse-backend/internal/workflows"
)

// ReportService renders printable session sheets and the session history
// workbook.
type ReportService struct{}

func NewReportService() *ReportService {
	return &ReportService{}
}

type column struct {
	title string
	width float64
	value func(e reconcile.Entry) string
}

func itemLabel(e reconcile.Entry) string {
	if e.Label != "" {
		return e.Label
	}
	if e.ItemType == reconcile.ItemTypeMisc {
		return e.MiscName
	}
	return e.SkuID + " / " + e.SizeID
}

func location(e reconcile.Entry) string {
	if e.RackID == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/%s", e.WarehouseID, e.FloorID, e.LaneID, e.RackID)
}

func num(v int) string { return fmt.Sprintf("%d", v) }

func sheetColumns(workflow string) []column {
	if workflow == workflows.NameReturn {
		return []column{
			{"Item", 55, itemLabel},
			{"Qty", 15, func(e reconcile.Entry) string { return num(e.Quantity) }},
			{"To Vendor", 20, func(e reconcile.Entry) string { return num(e.ReturnToVendorQty) }},
			{"To Stock", 20, func(e reconcile.Entry) string { return num(e.AcceptToStockQty) }},
			{"Reason", 30, func(e reconcile.Entry) string { return e.ReturnReason }},
			{"Condition", 22, func(e reconcile.Entry) string { return e.Condition }},
			{"Location", 28, location},
		}
	}
	return []column{
		{"Item", 70, itemLabel},
		{"Ordered", 20, func(e reconcile.Entry) string { return num(e.Ordered) }},
		{"Qty", 20, func(e reconcile.Entry) string { return num(e.Quantity) }},
		{"Location", 50, location},
		{"Notes", 30, func(e reconcile.Entry) string { return e.LocationNotes }},
	}
}

// SessionSheetPDF renders one session as an A4 sheet for the floor team.
func (s *ReportService) SessionSheetPDF(workflow, referenceID string, sess reconcile.Session) ([]byte, error) {
	title := "Put-away Sheet"
	if workflow == workflows.NameReturn {
		title = "Return Sheet"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Reference: %s", referenceID), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Session: %s (%s)", sess.Name, timeutil.Format(sess.Timestamp, timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	cols := sheetColumns(workflow)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(c.width, 7, c.title, "1", ln, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 9)
	total := 0
	for _, e := range sess.Entries {
		for i, c := range cols {
			ln := 0
			if i == len(cols)-1 {
				ln = 1
			}
			pdf.CellFormat(c.width, 6, c.value(e), "1", ln, "L", false, 0, "")
		}
		total += e.Quantity
	}

	pdf.Ln(5)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(190, 8, fmt.Sprintf("Lines: %d    Total quantity: %d", len(sess.Entries), total), "1", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render session sheet: %w", err)
	}
	return buf.Bytes(), nil
}

// SessionHistoryXLSX writes one row per (session, entry) for every saved
// session of a reference.
func (s *ReportService) SessionHistoryXLSX(workflow, referenceID string, sessions []reconcile.Session) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	cols := sheetColumns(workflow)
	headings := append([]string{"Session", "Saved At"}, titles(cols)...)
	for i, h := range headings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, sess := range sessions {
		if !sess.IsSaved {
			continue
		}
		for _, e := range sess.Entries {
			values := []string{sess.Name, timeutil.Format(sess.Timestamp, timeutil.DateTimeLayout)}
			for _, c := range cols {
				values = append(values, c.value(e))
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				f.SetCellValue(sheet, cell, v)
			}
			row++
		}
	}
	f.SetSheetName(sheet, referenceID)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func titles(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.title
	}
	return out
}
