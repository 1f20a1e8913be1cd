package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/cache"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/domain"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

type Service struct {
	repo        store.Repository
	reportCache cache.StockReportCache
	reportTTL   time.Duration
}

func New(repo store.Repository, reportCache cache.StockReportCache, reportTTL time.Duration) *Service {
	if reportCache == nil {
		reportCache = cache.NoopStockReportCache{}
	}
	if reportTTL < time.Second {
		reportTTL = 30 * time.Second
	}

	return &Service{
		repo:        repo,
		reportCache: reportCache,
		reportTTL:   reportTTL,
	}
}

func (s *Service) ListItems(ctx context.Context, category string) (domain.ItemListResponse, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && !validCategory(category) {
		return domain.ItemListResponse{}, store.ErrInvalidEntry
	}

	items, err := s.repo.ListItems(ctx, category)
	if err != nil {
		return domain.ItemListResponse{}, err
	}

	resp := domain.ItemListResponse{Items: make([]domain.ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, domain.ItemResponse{Item: item, Status: item.StockStatus()})
	}
	return resp, nil
}

func (s *Service) GetItem(ctx context.Context, id string) (domain.ItemResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ItemResponse{}, store.ErrInvalidEntry
	}

	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return domain.ItemResponse{}, err
	}
	return domain.ItemResponse{Item: *item, Status: item.StockStatus()}, nil
}

func (s *Service) CreateItem(ctx context.Context, req domain.ItemCreateRequest) (domain.ItemResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.ItemResponse{}, fmt.Errorf("admin role required")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.ToLower(strings.TrimSpace(req.Category))
	if req.Name == "" || !validCategory(req.Category) {
		return domain.ItemResponse{}, store.ErrInvalidEntry
	}
	if req.ReorderLevel < 0 || req.InitialStockJCT < 0 || req.InitialStockUCT < 0 {
		return domain.ItemResponse{}, store.ErrInvalidEntry
	}

	item := domain.Item{
		ID:            xid.New("item"),
		Name:          req.Name,
		Category:      req.Category,
		Compatibility: strings.TrimSpace(req.Compatibility),
		Color:         strings.TrimSpace(req.Color),
		ReorderLevel:  req.ReorderLevel,
		StockJCT:      req.InitialStockJCT,
		StockUCT:      req.InitialStockUCT,
		CreatedAt:     time.Now().UTC(),
	}

	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	s.logAudit(ctx, "item_create", "item", created.ID, fmt.Sprintf("name=%s,category=%s,jct=%d,uct=%d", created.Name, created.Category, created.StockJCT, created.StockUCT))
	s.invalidateReports(ctx)

	return domain.ItemResponse{Item: *created, Status: created.StockStatus()}, nil
}

// UpdateItem is the master-edit path: it overwrites fields, including the raw
// stock counters, without going through the journal. Journal entries already
// recorded are untouched.
func (s *Service) UpdateItem(ctx context.Context, id string, req domain.ItemUpdateRequest) (domain.ItemResponse, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return domain.ItemResponse{}, fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ItemResponse{}, store.ErrInvalidEntry
	}

	existing, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.ItemResponse{}, store.ErrInvalidEntry
		}
		updated.Name = name
	}
	if req.Compatibility != nil {
		updated.Compatibility = strings.TrimSpace(*req.Compatibility)
	}
	if req.Color != nil {
		updated.Color = strings.TrimSpace(*req.Color)
	}
	if req.ReorderLevel != nil {
		if *req.ReorderLevel < 0 {
			return domain.ItemResponse{}, store.ErrInvalidEntry
		}
		updated.ReorderLevel = *req.ReorderLevel
	}
	if req.StockJCT != nil {
		if *req.StockJCT < 0 {
			return domain.ItemResponse{}, store.ErrInvalidEntry
		}
		updated.StockJCT = *req.StockJCT
	}
	if req.StockUCT != nil {
		if *req.StockUCT < 0 {
			return domain.ItemResponse{}, store.ErrInvalidEntry
		}
		updated.StockUCT = *req.StockUCT
	}

	saved, err := s.repo.UpdateItem(ctx, updated)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	s.logAudit(ctx, "item_update", "item", saved.ID, fmt.Sprintf("jct=%d,uct=%d,reorder=%d", saved.StockJCT, saved.StockUCT, saved.ReorderLevel))
	s.invalidateReports(ctx)

	return domain.ItemResponse{Item: *saved, Status: saved.StockStatus()}, nil
}

// DeleteItem always cascades to the item's journal entries so no orphaned
// receiving/issuing/return rows are left behind.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return fmt.Errorf("admin role required")
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidEntry
	}

	if err := s.repo.DeleteItem(ctx, id, true); err != nil {
		return err
	}

	s.logAudit(ctx, "item_delete", "item", id, "cascade=true")
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) GetStock(ctx context.Context, itemID string) (domain.StockSnapshot, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return domain.StockSnapshot{}, store.ErrInvalidEntry
	}

	snapshot, err := s.repo.GetStock(ctx, itemID)
	if err != nil {
		return domain.StockSnapshot{}, err
	}
	return *snapshot, nil
}

func (s *Service) CreateReceiving(ctx context.Context, req domain.ReceivingCreateRequest) (domain.ReceivingResponse, error) {
	entry, err := s.validateReceiving(req)
	if err != nil {
		return domain.ReceivingResponse{}, err
	}

	created, err := s.repo.CreateReceiving(ctx, *entry)
	if err != nil {
		return domain.ReceivingResponse{}, err
	}

	snapshot, err := s.repo.GetStock(ctx, created.ItemID)
	if err != nil {
		return domain.ReceivingResponse{}, err
	}

	s.logAudit(ctx, "receiving_create", "receiving", created.ID, fmt.Sprintf("item=%s,jct=%d,uct=%d", created.ItemID, created.JCTQty, created.UCTQty))
	s.invalidateReports(ctx)

	return domain.ReceivingResponse{Entry: *created, Stock: *snapshot}, nil
}

func (s *Service) GetReceiving(ctx context.Context, id string) (domain.ReceivingEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ReceivingEntry{}, store.ErrInvalidEntry
	}
	entry, err := s.repo.GetReceivingByID(ctx, id)
	if err != nil {
		return domain.ReceivingEntry{}, err
	}
	return *entry, nil
}

func (s *Service) ListReceivings(ctx context.Context, itemID string, limit int) (domain.ReceivingListResponse, error) {
	entries, err := s.repo.ListReceivings(ctx, strings.TrimSpace(itemID), limit)
	if err != nil {
		return domain.ReceivingListResponse{}, err
	}
	return domain.ReceivingListResponse{Entries: entries}, nil
}

func (s *Service) EditReceiving(ctx context.Context, id string, req domain.ReceivingCreateRequest) (domain.ReceivingResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ReceivingResponse{}, store.ErrInvalidEntry
	}

	entry, err := s.validateReceiving(req)
	if err != nil {
		return domain.ReceivingResponse{}, err
	}
	entry.ID = id

	updated, err := s.repo.UpdateReceiving(ctx, *entry)
	if err != nil {
		return domain.ReceivingResponse{}, err
	}

	snapshot, err := s.repo.GetStock(ctx, updated.ItemID)
	if err != nil {
		return domain.ReceivingResponse{}, err
	}

	s.logAudit(ctx, "receiving_edit", "receiving", updated.ID, fmt.Sprintf("item=%s,jct=%d,uct=%d", updated.ItemID, updated.JCTQty, updated.UCTQty))
	s.invalidateReports(ctx)

	return domain.ReceivingResponse{Entry: *updated, Stock: *snapshot}, nil
}

func (s *Service) DeleteReceiving(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidEntry
	}

	if err := s.repo.DeleteReceiving(ctx, id); err != nil {
		return err
	}

	s.logAudit(ctx, "receiving_delete", "receiving", id, "")
	s.invalidateReports(ctx)
	return nil
}

func (s *Service) CreateIssuing(ctx context.Context, req domain.IssuingCreateRequest) (domain.IssuingResponse, error) {
	entry, err := s.validateIssuing(req)
	if err != nil {
		return domain.IssuingResponse{}, err
	}

	if entry.Lot == "" {
		entry.Lot = s.resolveLot(ctx, entry.ItemID)
	}

	created, err := s.repo.CreateIssuing(ctx, *entry)
	if err != nil {
		return domain.IssuingResponse{}, err
	}

	snapshot, err := s.repo.GetStock(ctx, created.ItemID)
	if err != nil {
		return domain.IssuingResponse{}, err
	}

	s.logAudit(ctx, "issuing_create", "issuing", created.ID, fmt.Sprintf("item=%s,loc=%s,qty=%d", created.ItemID, created.Location, created.Quantity))
	s.invalidateReports(ctx)

	return domain.IssuingResponse{Entry: *created, Stock: *snapshot}, nil
}

func (s *Service) GetIssuing(ctx context.Context, id string) (domain.IssuingEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.IssuingEntry{}, store.ErrInvalidEntry
	}
	entry, err := s.repo.GetIssuingByID(ctx, id)
	if err != nil {
		return domain.IssuingEntry{}, err
	}
	return *entry, nil
}

func (s *Service) ListIssuings(ctx context.Context, itemID string, limit int) (domain.IssuingListResponse, error) {
	entries, err := s.repo.ListIssuings(ctx, strings.TrimSpace(itemID), limit)
	if err != nil {
		return domain.IssuingListResponse{}, err
	}
	return domain.IssuingListResponse{Entries: entries}, nil
}

func (s *Service) EditIssuing(ctx context.Context, id string, req domain.IssuingCreateRequest) (domain.IssuingResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.IssuingResponse{}, store.ErrInvalidEntry
	}

	original, err := s.repo.GetIssuingByID(ctx, id)
	if err != nil {
		return domain.IssuingResponse{}, err
	}

	entry, err := s.validateIssuing(req)
	if err != nil {
		return domain.IssuingResponse{}, err
	}
	entry.ID = id

	// An issuing entry stays pinned to its item; edits adjust quantity,
	// location, or paperwork fields only.
	if entry.ItemID != original.ItemID {
		return domain.IssuingResponse{}, store.ErrInvalidEntry
	}

	if entry.Lot == "" {
		entry.Lot = s.resolveLot(ctx, entry.ItemID)
	}

	updated, err := s.repo.UpdateIssuing(ctx, *entry)
	if err != nil {
		return domain.IssuingResponse{}, err
	}

	snapshot, err := s.repo.GetStock(ctx, updated.ItemID)
	if err != nil {
		return domain.IssuingResponse{}, err
	}

	s.logAudit(ctx, "issuing_edit", "issuing", updated.ID, fmt.Sprintf("item=%s,loc=%s,qty=%d", updated.ItemID, updated.Location, updated.Quantity))
	s.invalidateReports(ctx)

	return domain.IssuingResponse{Entry: *updated, Stock: *snapshot}, nil
}

func (s *Service) DeleteIssuing(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidEntry
	}

	if err := s.repo.DeleteIssuing(ctx, id); err != nil {
		return err
	}

	s.logAudit(ctx, "issuing_delete", "issuing", id, "")
	s.invalidateReports(ctx)
	return nil
}

// CreateReturn logs the return only. Stock is never adjusted for returns;
// defective units go back to the supplier, not back into a stock pool.
func (s *Service) CreateReturn(ctx context.Context, req domain.ReturnCreateRequest) (domain.ReturnResponse, error) {
	entry, err := s.validateReturn(req)
	if err != nil {
		return domain.ReturnResponse{}, err
	}

	if entry.Code != "" {
		if _, err := s.repo.FindReturnByCode(ctx, entry.Code, entry.ItemID); err == nil {
			return domain.ReturnResponse{}, store.ErrDuplicateReturn
		} else if !errors.Is(err, store.ErrNotFound) {
			return domain.ReturnResponse{}, err
		}
	}

	if entry.Lot == "" {
		entry.Lot = s.resolveReturnLot(ctx, entry.Code, entry.ItemID)
	}

	created, err := s.repo.CreateReturn(ctx, *entry)
	if err != nil {
		return domain.ReturnResponse{}, err
	}

	s.logAudit(ctx, "return_create", "return", created.ID, fmt.Sprintf("item=%s,code=%s,qty=%d", created.ItemID, created.Code, created.Quantity))

	return domain.ReturnResponse{Entry: *created}, nil
}

func (s *Service) GetReturn(ctx context.Context, id string) (domain.ReturnEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ReturnEntry{}, store.ErrInvalidEntry
	}
	entry, err := s.repo.GetReturnByID(ctx, id)
	if err != nil {
		return domain.ReturnEntry{}, err
	}
	return *entry, nil
}

func (s *Service) ListReturns(ctx context.Context, itemID string, limit int) (domain.ReturnListResponse, error) {
	entries, err := s.repo.ListReturns(ctx, strings.TrimSpace(itemID), limit)
	if err != nil {
		return domain.ReturnListResponse{}, err
	}
	return domain.ReturnListResponse{Entries: entries}, nil
}

func (s *Service) EditReturn(ctx context.Context, id string, req domain.ReturnCreateRequest) (domain.ReturnResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.ReturnResponse{}, store.ErrInvalidEntry
	}

	entry, err := s.validateReturn(req)
	if err != nil {
		return domain.ReturnResponse{}, err
	}
	entry.ID = id

	updated, err := s.repo.UpdateReturn(ctx, *entry)
	if err != nil {
		return domain.ReturnResponse{}, err
	}

	s.logAudit(ctx, "return_edit", "return", updated.ID, fmt.Sprintf("item=%s,code=%s,qty=%d", updated.ItemID, updated.Code, updated.Quantity))

	return domain.ReturnResponse{Entry: *updated}, nil
}

func (s *Service) DeleteReturn(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidEntry
	}

	if err := s.repo.DeleteReturn(ctx, id); err != nil {
		return err
	}

	s.logAudit(ctx, "return_delete", "return", id, "")
	return nil
}

// ReturnAutofill resolves a tracking code back to its originating issue so a
// return form can be pre-populated. Pure lookup, never mutates anything.
func (s *Service) ReturnAutofill(ctx context.Context, code string, itemID string) (domain.ReturnAutofill, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return domain.ReturnAutofill{}, store.ErrInvalidEntry
	}

	issuing, err := s.repo.FindIssuingByCode(ctx, code, strings.TrimSpace(itemID))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ReturnAutofill{Found: false}, nil
		}
		return domain.ReturnAutofill{}, err
	}

	fill := domain.ReturnAutofill{
		Found:      true,
		ItemID:     issuing.ItemID,
		Lot:        issuing.Lot,
		Location:   issuing.Location,
		Division:   issuing.Division,
		Section:    issuing.Section,
		IssuedDate: issuing.IssuedDate.Format("2006-01-02"),
	}
	if fill.Lot == "" {
		fill.Lot = s.resolveLot(ctx, issuing.ItemID)
	}

	// Supplier comes from the receiving batch when the lot is traceable.
	if fill.Lot != "" {
		receivings, err := s.repo.ListReceivings(ctx, issuing.ItemID, 0)
		if err == nil {
			for _, rcv := range receivings {
				if rcv.Lot == fill.Lot && rcv.SupplierName != "" {
					fill.SupplierName = rcv.SupplierName
					break
				}
			}
		}
	}

	return fill, nil
}

func (s *Service) GetStockStatusReport(ctx context.Context, category string) (domain.StockStatusReport, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" && !validCategory(category) {
		return domain.StockStatusReport{}, store.ErrInvalidEntry
	}

	key := reportCacheKey(category)
	if cached, ok, err := s.reportCache.Get(ctx, key); err == nil && ok {
		return *cached, nil
	} else if err != nil {
		log.Printf("[service] WARN: stock report cache read failed key=%s: %v", key, err)
	}

	report, err := s.repo.GetStockStatusReport(ctx, category, time.Now().UTC())
	if err != nil {
		return domain.StockStatusReport{}, err
	}

	if err := s.reportCache.Set(ctx, key, &report, s.reportTTL); err != nil {
		log.Printf("[service] WARN: stock report cache write failed key=%s: %v", key, err)
	}

	return report, nil
}

func (s *Service) ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin role required")
	}
	if to.IsZero() {
		to = time.Now().UTC().Add(time.Minute)
	}
	return s.repo.ListAuditLogs(ctx, from, to, limit)
}

func (s *Service) validateReceiving(req domain.ReceivingCreateRequest) (*domain.ReceivingEntry, error) {
	req.ItemID = strings.TrimSpace(req.ItemID)
	req.Date = strings.TrimSpace(req.Date)
	if req.ItemID == "" || req.Date == "" {
		return nil, store.ErrInvalidEntry
	}
	if req.JCTQty < 0 || req.UCTQty < 0 || req.JCTQty+req.UCTQty < 1 {
		return nil, store.ErrInvalidEntry
	}
	if req.UnitPriceCents < 0 {
		return nil, store.ErrInvalidEntry
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, store.ErrInvalidEntry
	}

	return &domain.ReceivingEntry{
		ItemID:         req.ItemID,
		Lot:            strings.TrimSpace(req.Lot),
		JCTQty:         req.JCTQty,
		UCTQty:         req.UCTQty,
		SupplierName:   strings.TrimSpace(req.SupplierName),
		PRNumber:       strings.TrimSpace(req.PRNumber),
		TenderNumber:   strings.TrimSpace(req.TenderNumber),
		InvoiceNumber:  strings.TrimSpace(req.InvoiceNumber),
		UnitPriceCents: req.UnitPriceCents,
		ReceivedDate:   date,
		Remarks:        strings.TrimSpace(req.Remarks),
	}, nil
}

func (s *Service) validateIssuing(req domain.IssuingCreateRequest) (*domain.IssuingEntry, error) {
	req.ItemID = strings.TrimSpace(req.ItemID)
	req.Location = strings.ToUpper(strings.TrimSpace(req.Location))
	req.Division = strings.TrimSpace(req.Division)
	req.Section = strings.TrimSpace(req.Section)
	req.Date = strings.TrimSpace(req.Date)

	if req.ItemID == "" || req.Division == "" || req.Section == "" || req.Date == "" {
		return nil, store.ErrInvalidEntry
	}
	if req.Location != domain.LocationJCT && req.Location != domain.LocationUCT {
		return nil, store.ErrInvalidEntry
	}
	if req.Quantity < 1 {
		return nil, store.ErrInvalidEntry
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, store.ErrInvalidEntry
	}

	return &domain.IssuingEntry{
		ItemID:      req.ItemID,
		Code:        strings.TrimSpace(req.Code),
		Lot:         strings.TrimSpace(req.Lot),
		Location:    req.Location,
		Quantity:    req.Quantity,
		Division:    req.Division,
		Section:     req.Section,
		RequestedBy: strings.TrimSpace(req.RequestedBy),
		ReceivedBy:  strings.TrimSpace(req.ReceivedBy),
		IssuedDate:  date,
		Remarks:     strings.TrimSpace(req.Remarks),
	}, nil
}

func (s *Service) validateReturn(req domain.ReturnCreateRequest) (*domain.ReturnEntry, error) {
	req.ItemID = strings.TrimSpace(req.ItemID)
	req.ReturnedBy = strings.TrimSpace(req.ReturnedBy)
	req.Reason = strings.TrimSpace(req.Reason)
	req.Date = strings.TrimSpace(req.Date)
	req.Location = strings.ToUpper(strings.TrimSpace(req.Location))

	if req.ItemID == "" || req.ReturnedBy == "" || req.Reason == "" || req.Date == "" {
		return nil, store.ErrInvalidEntry
	}
	if req.Quantity < 1 {
		return nil, store.ErrInvalidEntry
	}
	if req.Location != "" && req.Location != domain.LocationJCT && req.Location != domain.LocationUCT {
		return nil, store.ErrInvalidEntry
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, store.ErrInvalidEntry
	}

	return &domain.ReturnEntry{
		ItemID:       req.ItemID,
		Code:         strings.TrimSpace(req.Code),
		Lot:          strings.TrimSpace(req.Lot),
		Location:     req.Location,
		SupplierName: strings.TrimSpace(req.SupplierName),
		ReturnedBy:   req.ReturnedBy,
		Quantity:     req.Quantity,
		Reason:       req.Reason,
		ReturnedDate: date,
		Remarks:      strings.TrimSpace(req.Remarks),
	}, nil
}

func (s *Service) resolveLot(ctx context.Context, itemID string) string {
	lot, err := s.repo.FindLotForItem(ctx, itemID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[service] WARN: lot lookup failed item=%s: %v", itemID, err)
		}
		return ""
	}
	return lot
}

// resolveReturnLot prefers the lot recorded on the originating issue, then
// falls back to any lot known for the item.
func (s *Service) resolveReturnLot(ctx context.Context, code string, itemID string) string {
	if code != "" {
		issuing, err := s.repo.FindIssuingByCode(ctx, code, itemID)
		if err == nil && issuing.Lot != "" {
			return issuing.Lot
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			log.Printf("[service] WARN: issuing lookup failed code=%s: %v", code, err)
		}
	}
	return s.resolveLot(ctx, itemID)
}

func (s *Service) logAudit(ctx context.Context, action string, entityType string, entityID string, detail string) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		actor = domain.Actor{Username: "system", Role: "system"}
	}

	if err := s.repo.CreateAuditLog(ctx, domain.AuditLog{
		ID:            xid.New("audit"),
		ActorUsername: actor.Username,
		ActorRole:     actor.Role,
		Action:        action,
		EntityType:    entityType,
		EntityID:      entityID,
		Detail:        detail,
		CreatedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("[audit] WARN: failed to write audit log action=%s entity=%s/%s: %v", action, entityType, entityID, err)
	}
}

func (s *Service) invalidateReports(ctx context.Context) {
	keys := []string{
		reportCacheKey(""),
		reportCacheKey(domain.CategoryToner),
		reportCacheKey(domain.CategoryPaper),
		reportCacheKey(domain.CategoryRibbon),
	}
	if err := s.reportCache.Invalidate(ctx, keys...); err != nil {
		log.Printf("[service] WARN: stock report cache invalidation failed: %v", err)
	}
}

func reportCacheKey(category string) string {
	if category == "" {
		category = "all"
	}
	return "stockreport:" + category
}

func validCategory(category string) bool {
	switch category {
	case domain.CategoryToner, domain.CategoryPaper, domain.CategoryRibbon:
		return true
	}
	return false
}
