package services

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"warehouse-backend/internal/reconcile"
	"warehouse-backend/internal/workflows"
)

func savedSession() reconcile.Session {
	return reconcile.Session{
		ID: "s1", Name: "Morning", IsSaved: true,
		Timestamp: time.Date(2024, 3, 5, 4, 0, 0, 0, time.UTC),
		Entries: []reconcile.Entry{
			{ID: "line-1", ItemType: reconcile.ItemTypeSKU, Label: "Shirt M", Ordered: 10, Quantity: 4,
				WarehouseID: "w1", FloorID: "f1", LaneID: "l1", RackID: "r1"},
			{ID: "line-2", ItemType: reconcile.ItemTypeMisc, MiscName: "Hangers", Ordered: 5, Quantity: 5,
				WarehouseID: "w1", FloorID: "f1", LaneID: "l1", RackID: "r1"},
		},
	}
}

func TestSessionSheetPDF(t *testing.T) {
	for _, wf := range workflows.Names() {
		out, err := NewReportService().SessionSheetPDF(wf, "po-1", savedSession())
		if err != nil {
			t.Fatalf("%s: SessionSheetPDF: %v", wf, err)
		}
		if !bytes.HasPrefix(out, []byte("%PDF")) {
			t.Fatalf("%s: output is not a PDF", wf)
		}
	}
}

func TestSessionHistoryXLSX(t *testing.T) {
	live := reconcile.Session{ID: reconcile.LiveSessionID, Entries: []reconcile.Entry{{ID: "line-1", Quantity: 1}}}
	out, err := NewReportService().SessionHistoryXLSX(workflows.NamePutAway, "po-1", []reconcile.Session{savedSession(), live})
	if err != nil {
		t.Fatalf("SessionHistoryXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("po-1")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus two rows, got %d", len(rows))
	}
	if rows[1][0] != "Morning" || rows[1][2] != "Shirt M" || rows[2][2] != "Hangers" {
		t.Fatalf("unexpected rows %v", rows)
	}
}
