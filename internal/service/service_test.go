package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/cache"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/domain"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store/memory"
)

func newTestService() *Service {
	return New(memory.New(), cache.NoopStockReportCache{}, 5*time.Second)
}

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{
		Username: "admin",
		Role:     "admin",
	})
}

func createTestItem(t *testing.T, svc *Service, reorderLevel, jct, uct int) string {
	t.Helper()
	resp, err := svc.CreateItem(adminCtx(), domain.ItemCreateRequest{
		Name:            "HP 26A Toner",
		Category:        domain.CategoryToner,
		Compatibility:   "LaserJet Pro M402",
		ReorderLevel:    reorderLevel,
		InitialStockJCT: jct,
		InitialStockUCT: uct,
	})
	if err != nil {
		t.Fatalf("create item failed: %v", err)
	}
	return resp.Item.ID
}

func mustStock(t *testing.T, svc *Service, itemID string) domain.StockSnapshot {
	t.Helper()
	snapshot, err := svc.GetStock(context.Background(), itemID)
	if err != nil {
		t.Fatalf("get stock failed: %v", err)
	}
	return snapshot
}

func TestCreateItemRequiresAdmin(t *testing.T) {
	svc := newTestService()
	ctx := WithActor(context.Background(), domain.Actor{Username: "clerk1", Role: "clerk"})

	_, err := svc.CreateItem(ctx, domain.ItemCreateRequest{
		Name:     "A4 Paper 70gsm",
		Category: domain.CategoryPaper,
	})
	if err == nil {
		t.Fatalf("expected clerk item create to be rejected")
	}
}

func TestCreateItemRejectsUnknownCategory(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateItem(adminCtx(), domain.ItemCreateRequest{
		Name:     "Stapler",
		Category: "stationery",
	})
	if !errors.Is(err, store.ErrInvalidEntry) {
		t.Fatalf("expected invalid entry, got %v", err)
	}
}

func TestReceivingAddsToBothLocations(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 0, 0)

	resp, err := svc.CreateReceiving(context.Background(), domain.ReceivingCreateRequest{
		ItemID:       itemID,
		Lot:          "LOT-2025-01",
		JCTQty:       20,
		UCTQty:       5,
		SupplierName: "Metro Office Supplies",
		Date:         "2025-01-15",
	})
	if err != nil {
		t.Fatalf("create receiving failed: %v", err)
	}
	if resp.Stock.StockJCT != 20 || resp.Stock.StockUCT != 5 {
		t.Fatalf("expected stock {20,5}, got {%d,%d}", resp.Stock.StockJCT, resp.Stock.StockUCT)
	}
}

func TestReceivingRejectsZeroQuantities(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 0, 0)

	_, err := svc.CreateReceiving(context.Background(), domain.ReceivingCreateRequest{
		ItemID: itemID,
		JCTQty: 0,
		UCTQty: 0,
		Date:   "2025-01-15",
	})
	if !errors.Is(err, store.ErrInvalidEntry) {
		t.Fatalf("expected invalid entry for empty receiving, got %v", err)
	}
}

func TestIssuingDrawsFromSingleLocation(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 20, 5)

	resp, err := svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   itemID,
		Location: "JCT",
		Quantity: 8,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-01-20",
	})
	if err != nil {
		t.Fatalf("create issuing failed: %v", err)
	}
	if resp.Stock.StockJCT != 12 || resp.Stock.StockUCT != 5 {
		t.Fatalf("expected stock {12,5}, got {%d,%d}", resp.Stock.StockJCT, resp.Stock.StockUCT)
	}
}

func TestIssuingInsufficientStockLeavesStockUnchanged(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 3, 10)

	_, err := svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   itemID,
		Location: "JCT",
		Quantity: 4,
		Division: "Engineering",
		Section:  "Maintenance",
		Date:     "2025-01-20",
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	snapshot := mustStock(t, svc, itemID)
	if snapshot.StockJCT != 3 || snapshot.StockUCT != 10 {
		t.Fatalf("expected stock unchanged {3,10}, got {%d,%d}", snapshot.StockJCT, snapshot.StockUCT)
	}
}

func TestDeleteIssuingRestoresStock(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 20, 5)

	resp, err := svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   itemID,
		Location: "UCT",
		Quantity: 5,
		Division: "Operations",
		Section:  "Gate",
		Date:     "2025-01-20",
	})
	if err != nil {
		t.Fatalf("create issuing failed: %v", err)
	}

	if err := svc.DeleteIssuing(context.Background(), resp.Entry.ID); err != nil {
		t.Fatalf("delete issuing failed: %v", err)
	}

	snapshot := mustStock(t, svc, itemID)
	if snapshot.StockJCT != 20 || snapshot.StockUCT != 5 {
		t.Fatalf("expected stock restored to {20,5}, got {%d,%d}", snapshot.StockJCT, snapshot.StockUCT)
	}
}

func TestEditIssuingMatchesDeleteAndRecreate(t *testing.T) {
	edited := newTestService()
	editedItem := createTestItem(t, edited, 5, 30, 30)

	resp, err := edited.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   editedItem,
		Location: "JCT",
		Quantity: 10,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-02-01",
	})
	if err != nil {
		t.Fatalf("create issuing failed: %v", err)
	}
	editResp, err := edited.EditIssuing(context.Background(), resp.Entry.ID, domain.IssuingCreateRequest{
		ItemID:   editedItem,
		Location: "UCT",
		Quantity: 4,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-02-02",
	})
	if err != nil {
		t.Fatalf("edit issuing failed: %v", err)
	}

	recreated := newTestService()
	recreatedItem := createTestItem(t, recreated, 5, 30, 30)
	if _, err := recreated.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   recreatedItem,
		Location: "UCT",
		Quantity: 4,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-02-02",
	}); err != nil {
		t.Fatalf("recreate issuing failed: %v", err)
	}

	want := mustStock(t, recreated, recreatedItem)
	if editResp.Stock.StockJCT != want.StockJCT || editResp.Stock.StockUCT != want.StockUCT {
		t.Fatalf("edit result {%d,%d} does not match delete+recreate {%d,%d}",
			editResp.Stock.StockJCT, editResp.Stock.StockUCT, want.StockJCT, want.StockUCT)
	}
}

func TestEditIssuingRejectsWhenNewQuantityExceedsStock(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 10, 0)

	resp, err := svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   itemID,
		Location: "JCT",
		Quantity: 6,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-02-01",
	})
	if err != nil {
		t.Fatalf("create issuing failed: %v", err)
	}

	// Reversal gives 10 back, but 15 cannot be drawn from it.
	_, err = svc.EditIssuing(context.Background(), resp.Entry.ID, domain.IssuingCreateRequest{
		ItemID:   itemID,
		Location: "JCT",
		Quantity: 15,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-02-01",
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	snapshot := mustStock(t, svc, itemID)
	if snapshot.StockJCT != 4 {
		t.Fatalf("expected stock unchanged at 4, got %d", snapshot.StockJCT)
	}
}

func TestEditIssuingRejectsItemChange(t *testing.T) {
	svc := newTestService()
	tonerID := createTestItem(t, svc, 5, 20, 5)

	paper, err := svc.CreateItem(adminCtx(), domain.ItemCreateRequest{
		Name:            "A4 Paper 70gsm",
		Category:        domain.CategoryPaper,
		ReorderLevel:    10,
		InitialStockJCT: 50,
	})
	if err != nil {
		t.Fatalf("create second item failed: %v", err)
	}

	resp, err := svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   tonerID,
		Location: "JCT",
		Quantity: 5,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-02-01",
	})
	if err != nil {
		t.Fatalf("create issuing failed: %v", err)
	}

	_, err = svc.EditIssuing(context.Background(), resp.Entry.ID, domain.IssuingCreateRequest{
		ItemID:   paper.Item.ID,
		Location: "JCT",
		Quantity: 5,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-02-01",
	})
	if !errors.Is(err, store.ErrInvalidEntry) {
		t.Fatalf("expected invalid entry for item change, got %v", err)
	}

	snapshot := mustStock(t, svc, tonerID)
	if snapshot.StockJCT != 15 {
		t.Fatalf("expected toner stock unchanged at 15, got %d", snapshot.StockJCT)
	}
	snapshot = mustStock(t, svc, paper.Item.ID)
	if snapshot.StockJCT != 50 {
		t.Fatalf("expected paper stock unchanged at 50, got %d", snapshot.StockJCT)
	}
}

func TestEditReceivingAdjustsStockByDelta(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 0, 0)

	resp, err := svc.CreateReceiving(context.Background(), domain.ReceivingCreateRequest{
		ItemID: itemID,
		JCTQty: 20,
		UCTQty: 5,
		Date:   "2025-01-15",
	})
	if err != nil {
		t.Fatalf("create receiving failed: %v", err)
	}

	editResp, err := svc.EditReceiving(context.Background(), resp.Entry.ID, domain.ReceivingCreateRequest{
		ItemID: itemID,
		JCTQty: 12,
		UCTQty: 8,
		Date:   "2025-01-16",
	})
	if err != nil {
		t.Fatalf("edit receiving failed: %v", err)
	}
	if editResp.Stock.StockJCT != 12 || editResp.Stock.StockUCT != 8 {
		t.Fatalf("expected stock {12,8}, got {%d,%d}", editResp.Stock.StockJCT, editResp.Stock.StockUCT)
	}
}

func TestDeleteReceivingRejectedWhenStockAlreadyIssued(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 0, 0)

	recv, err := svc.CreateReceiving(context.Background(), domain.ReceivingCreateRequest{
		ItemID: itemID,
		JCTQty: 10,
		UCTQty: 0,
		Date:   "2025-01-15",
	})
	if err != nil {
		t.Fatalf("create receiving failed: %v", err)
	}

	if _, err := svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   itemID,
		Location: "JCT",
		Quantity: 7,
		Division: "Operations",
		Section:  "Gate",
		Date:     "2025-01-20",
	}); err != nil {
		t.Fatalf("create issuing failed: %v", err)
	}

	// Reversing the receiving would leave 3 - 10 = -7 at JCT.
	err = svc.DeleteReceiving(context.Background(), recv.Entry.ID)
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	snapshot := mustStock(t, svc, itemID)
	if snapshot.StockJCT != 3 {
		t.Fatalf("expected stock unchanged at 3, got %d", snapshot.StockJCT)
	}
}

func TestReturnsAreStockNeutral(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 20, 5)

	_, err := svc.CreateReturn(context.Background(), domain.ReturnCreateRequest{
		ItemID:     itemID,
		Code:       "ISS-2025-0042",
		ReturnedBy: "K. Perera",
		Quantity:   2,
		Reason:     "defective cartridge",
		Date:       "2025-02-10",
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	snapshot := mustStock(t, svc, itemID)
	if snapshot.StockJCT != 20 || snapshot.StockUCT != 5 {
		t.Fatalf("expected stock untouched {20,5}, got {%d,%d}", snapshot.StockJCT, snapshot.StockUCT)
	}

	returns, err := svc.ListReturns(context.Background(), itemID, 10)
	if err != nil {
		t.Fatalf("list returns failed: %v", err)
	}
	if len(returns.Entries) != 1 {
		t.Fatalf("expected one return entry, got %d", len(returns.Entries))
	}
}

func TestEditAndDeleteReturnLeaveStockUnchanged(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 20, 5)

	created, err := svc.CreateReturn(context.Background(), domain.ReturnCreateRequest{
		ItemID:     itemID,
		Code:       "ISS-2025-0042",
		ReturnedBy: "K. Perera",
		Quantity:   2,
		Reason:     "defective cartridge",
		Date:       "2025-02-10",
	})
	if err != nil {
		t.Fatalf("create return failed: %v", err)
	}

	_, err = svc.EditReturn(context.Background(), created.Entry.ID, domain.ReturnCreateRequest{
		ItemID:     itemID,
		Code:       "ISS-2025-0042",
		ReturnedBy: "K. Perera",
		Quantity:   4,
		Reason:     "wrong model supplied",
		Date:       "2025-02-11",
	})
	if err != nil {
		t.Fatalf("edit return failed: %v", err)
	}
	snapshot := mustStock(t, svc, itemID)
	if snapshot.StockJCT != 20 || snapshot.StockUCT != 5 {
		t.Fatalf("expected stock untouched after edit, got {%d,%d}", snapshot.StockJCT, snapshot.StockUCT)
	}

	if err := svc.DeleteReturn(context.Background(), created.Entry.ID); err != nil {
		t.Fatalf("delete return failed: %v", err)
	}
	snapshot = mustStock(t, svc, itemID)
	if snapshot.StockJCT != 20 || snapshot.StockUCT != 5 {
		t.Fatalf("expected stock untouched after delete, got {%d,%d}", snapshot.StockJCT, snapshot.StockUCT)
	}

	returns, err := svc.ListReturns(context.Background(), itemID, 10)
	if err != nil {
		t.Fatalf("list returns failed: %v", err)
	}
	if len(returns.Entries) != 0 {
		t.Fatalf("expected no return entries left, got %d", len(returns.Entries))
	}
}

func TestEditReturnOntoUsedCodeRejected(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 20, 5)

	makeReturn := func(code string) domain.ReturnEntry {
		resp, err := svc.CreateReturn(context.Background(), domain.ReturnCreateRequest{
			ItemID:     itemID,
			Code:       code,
			ReturnedBy: "K. Perera",
			Quantity:   1,
			Reason:     "damaged in transit",
			Date:       "2025-02-10",
		})
		if err != nil {
			t.Fatalf("create return %s failed: %v", code, err)
		}
		return resp.Entry
	}

	makeReturn("ISS-2025-0042")
	second := makeReturn("ISS-2025-0043")

	_, err := svc.EditReturn(context.Background(), second.ID, domain.ReturnCreateRequest{
		ItemID:     itemID,
		Code:       "ISS-2025-0042",
		ReturnedBy: "K. Perera",
		Quantity:   1,
		Reason:     "damaged in transit",
		Date:       "2025-02-10",
	})
	if !errors.Is(err, store.ErrDuplicateReturn) {
		t.Fatalf("expected duplicate return on edit, got %v", err)
	}

	kept, err := svc.GetReturn(context.Background(), second.ID)
	if err != nil {
		t.Fatalf("get return failed: %v", err)
	}
	if kept.Code != "ISS-2025-0043" {
		t.Fatalf("expected rejected edit to leave code %q, got %q", "ISS-2025-0043", kept.Code)
	}
	snapshot := mustStock(t, svc, itemID)
	if snapshot.StockJCT != 20 || snapshot.StockUCT != 5 {
		t.Fatalf("expected stock untouched, got {%d,%d}", snapshot.StockJCT, snapshot.StockUCT)
	}
}

func TestDuplicateReturnRejected(t *testing.T) {
	svc := newTestService()
	first := createTestItem(t, svc, 5, 20, 5)

	makeReturn := func(itemID string) error {
		_, err := svc.CreateReturn(context.Background(), domain.ReturnCreateRequest{
			ItemID:     itemID,
			Code:       "ISS-2025-0042",
			ReturnedBy: "K. Perera",
			Quantity:   1,
			Reason:     "wrong model",
			Date:       "2025-02-10",
		})
		return err
	}

	if err := makeReturn(first); err != nil {
		t.Fatalf("first return failed: %v", err)
	}
	if err := makeReturn(first); !errors.Is(err, store.ErrDuplicateReturn) {
		t.Fatalf("expected duplicate return, got %v", err)
	}

	// The same code against a different item is a separate return.
	second, err := svc.CreateItem(adminCtx(), domain.ItemCreateRequest{
		Name:            "A4 Paper 70gsm",
		Category:        domain.CategoryPaper,
		ReorderLevel:    10,
		InitialStockJCT: 50,
	})
	if err != nil {
		t.Fatalf("create second item failed: %v", err)
	}
	if err := makeReturn(second.Item.ID); err != nil {
		t.Fatalf("return for second item failed: %v", err)
	}
}

func TestReturnAutofillFromIssuingCode(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 20, 5)

	if _, err := svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   itemID,
		Code:     "ISS-2025-0099",
		Lot:      "LOT-2025-03",
		Location: "UCT",
		Quantity: 2,
		Division: "Engineering",
		Section:  "Electrical",
		Date:     "2025-03-05",
	}); err != nil {
		t.Fatalf("create issuing failed: %v", err)
	}

	autofill, err := svc.ReturnAutofill(context.Background(), "ISS-2025-0099", "")
	if err != nil {
		t.Fatalf("autofill failed: %v", err)
	}
	if !autofill.Found {
		t.Fatalf("expected autofill to find the issuing")
	}
	if autofill.ItemID != itemID || autofill.Location != "UCT" || autofill.Division != "Engineering" {
		t.Fatalf("unexpected autofill %+v", autofill)
	}

	missing, err := svc.ReturnAutofill(context.Background(), "ISS-NO-SUCH", "")
	if err != nil {
		t.Fatalf("autofill for unknown code errored: %v", err)
	}
	if missing.Found {
		t.Fatalf("expected unknown code to report found=false")
	}
}

func TestStockLifecycleScenario(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 12, 0, 0)

	recv, err := svc.CreateReceiving(context.Background(), domain.ReceivingCreateRequest{
		ItemID: itemID,
		JCTQty: 20,
		UCTQty: 5,
		Date:   "2025-01-15",
	})
	if err != nil {
		t.Fatalf("create receiving failed: %v", err)
	}
	if recv.Stock.StockJCT != 20 || recv.Stock.StockUCT != 5 {
		t.Fatalf("expected {20,5} after receiving, got {%d,%d}", recv.Stock.StockJCT, recv.Stock.StockUCT)
	}

	issue, err := svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   itemID,
		Location: "JCT",
		Quantity: 15,
		Division: "Operations",
		Section:  "Gate",
		Date:     "2025-01-20",
	})
	if err != nil {
		t.Fatalf("create issuing failed: %v", err)
	}
	if issue.Stock.StockJCT != 5 || issue.Stock.StockUCT != 5 {
		t.Fatalf("expected {5,5} after issuing, got {%d,%d}", issue.Stock.StockJCT, issue.Stock.StockUCT)
	}
	if issue.Stock.Status != domain.StatusLowStock {
		t.Fatalf("expected LOW_STOCK at total 10 with reorder level 12, got %s", issue.Stock.Status)
	}

	_, err = svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   itemID,
		Location: "JCT",
		Quantity: 10,
		Division: "Operations",
		Section:  "Gate",
		Date:     "2025-01-21",
	})
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock for second issue, got %v", err)
	}

	if err := svc.DeleteIssuing(context.Background(), issue.Entry.ID); err != nil {
		t.Fatalf("delete issuing failed: %v", err)
	}
	snapshot := mustStock(t, svc, itemID)
	if snapshot.StockJCT != 20 || snapshot.StockUCT != 5 {
		t.Fatalf("expected {20,5} after delete, got {%d,%d}", snapshot.StockJCT, snapshot.StockUCT)
	}
	if snapshot.Status != domain.StatusInStock {
		t.Fatalf("expected IN_STOCK after delete, got %s", snapshot.Status)
	}
}

func TestDeleteItemCascadesJournalEntries(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 20, 5)

	if _, err := svc.CreateIssuing(context.Background(), domain.IssuingCreateRequest{
		ItemID:   itemID,
		Location: "JCT",
		Quantity: 2,
		Division: "Finance",
		Section:  "Payroll",
		Date:     "2025-01-20",
	}); err != nil {
		t.Fatalf("create issuing failed: %v", err)
	}

	if err := svc.DeleteItem(adminCtx(), itemID); err != nil {
		t.Fatalf("delete item failed: %v", err)
	}

	issuings, err := svc.ListIssuings(context.Background(), itemID, 10)
	if err != nil {
		t.Fatalf("list issuings failed: %v", err)
	}
	if len(issuings.Entries) != 0 {
		t.Fatalf("expected issuing entries to cascade, got %d", len(issuings.Entries))
	}
}

func TestStockStatusReport(t *testing.T) {
	svc := newTestService()
	createTestItem(t, svc, 5, 0, 0)

	report, err := svc.GetStockStatusReport(context.Background(), "")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if len(report.Rows) != 1 {
		t.Fatalf("expected one row, got %d", len(report.Rows))
	}
	if report.Rows[0].Status != domain.StatusOutOfStock {
		t.Fatalf("expected OUT_OF_STOCK at zero total, got %s", report.Rows[0].Status)
	}

	if _, err := svc.GetStockStatusReport(context.Background(), "stationery"); !errors.Is(err, store.ErrInvalidEntry) {
		t.Fatalf("expected invalid category to be rejected, got %v", err)
	}
}

func TestListAuditLogsRequiresAdmin(t *testing.T) {
	svc := newTestService()
	itemID := createTestItem(t, svc, 5, 20, 5)

	if _, err := svc.ListAuditLogs(context.Background(), time.Time{}, time.Time{}, 10); err == nil {
		t.Fatalf("expected anonymous audit log read to be rejected")
	}

	logs, err := svc.ListAuditLogs(adminCtx(), time.Time{}, time.Time{}, 10)
	if err != nil {
		t.Fatalf("list audit logs failed: %v", err)
	}
	if len(logs) == 0 {
		t.Fatalf("expected audit entries for item %s", itemID)
	}
}
