package memory

import (
	"context"
	"log"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/domain"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/xid"
)

type Store struct {
	mu              sync.RWMutex
	itemsByID       map[string]domain.Item
	receivingsByID  map[string]domain.ReceivingEntry
	issuingsByID    map[string]domain.IssuingEntry
	returnsByID     map[string]domain.ReturnEntry
	auditLogs       []domain.AuditLog
	usersByUsername map[string]domain.UserAccount
}

// seedUsers builds the initial in-memory user accounts for dev/demo mode.
// Credentials are read from SEED_ADMIN_PASSWORD and SEED_CLERK_PASSWORD
// environment variables. If unset, hardcoded dev defaults are used with a
// warning printed to stdout. These credentials are never used in production
// (the backend uses PostgreSQL when DATABASE_URL is set).
func seedUsers() map[string]domain.UserAccount {
	adminPwd := envOr("SEED_ADMIN_PASSWORD", "admin123")
	clerkPwd := envOr("SEED_CLERK_PASSWORD", "clerk123")
	if os.Getenv("SEED_ADMIN_PASSWORD") == "" || os.Getenv("SEED_CLERK_PASSWORD") == "" {
		log.Println("[memory-store] WARNING: using default dev credentials. Set SEED_ADMIN_PASSWORD and SEED_CLERK_PASSWORD to override.")
	}

	now := time.Now().UTC()
	users := map[string]domain.UserAccount{}
	for _, u := range []struct {
		username string
		password string
		role     string
	}{
		{"admin", adminPwd, domain.RoleAdmin},
		{"clerk", clerkPwd, domain.RoleClerk},
	} {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("[memory-store] failed to hash seed password for %s: %v", u.username, err)
		}
		users[u.username] = domain.UserAccount{
			Username:  u.username,
			Password:  string(hash),
			Role:      u.role,
			Active:    true,
			CreatedAt: now,
		}
	}
	return users
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func New() *Store {
	return &Store{
		itemsByID:       make(map[string]domain.Item),
		receivingsByID:  make(map[string]domain.ReceivingEntry),
		issuingsByID:    make(map[string]domain.IssuingEntry),
		returnsByID:     make(map[string]domain.ReturnEntry),
		auditLogs:       make([]domain.AuditLog, 0, 128),
		usersByUsername: seedUsers(),
	}
}

func NewSeeded() *Store {
	s := New()

	now := time.Now().UTC()
	items := []domain.Item{
		{ID: "item-toner-hp26a", Name: "HP 26A Black Toner", Category: domain.CategoryToner, Compatibility: "LaserJet Pro M402/M426", Color: "black", ReorderLevel: 10, StockJCT: 40, StockUCT: 12},
		{ID: "item-toner-hp05a", Name: "HP 05A Black Toner", Category: domain.CategoryToner, Compatibility: "LaserJet P2035/P2055", Color: "black", ReorderLevel: 8, StockJCT: 25, StockUCT: 6},
		{ID: "item-toner-canon051", Name: "Canon 051 Toner", Category: domain.CategoryToner, Compatibility: "LBP162dw, MF264dw", Color: "black", ReorderLevel: 6, StockJCT: 14, StockUCT: 4},
		{ID: "item-paper-a4-70", Name: "A4 Copy Paper 70gsm", Category: domain.CategoryPaper, ReorderLevel: 50, StockJCT: 320, StockUCT: 180},
		{ID: "item-paper-a3-80", Name: "A3 Copy Paper 80gsm", Category: domain.CategoryPaper, ReorderLevel: 20, StockJCT: 60, StockUCT: 30},
		{ID: "item-paper-cont-15", Name: "Continuous Paper 15in", Category: domain.CategoryPaper, ReorderLevel: 15, StockJCT: 45, StockUCT: 10},
		{ID: "item-ribbon-lq310", Name: "Epson LQ-310 Ribbon", Category: domain.CategoryRibbon, Compatibility: "LQ-310/LX-310", Color: "black", ReorderLevel: 12, StockJCT: 30, StockUCT: 8},
		{ID: "item-ribbon-erc38", Name: "Epson ERC-38 Ribbon", Category: domain.CategoryRibbon, Compatibility: "TM-U220", Color: "black/red", ReorderLevel: 10, StockJCT: 18, StockUCT: 5},
	}
	for _, it := range items {
		it.CreatedAt = now
		s.itemsByID[it.ID] = it
	}

	return s
}

func (s *Store) CreateItem(_ context.Context, item domain.Item) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Name == "" || item.Category == "" {
		return nil, store.ErrInvalidEntry
	}
	if item.ReorderLevel < 0 || item.StockJCT < 0 || item.StockUCT < 0 {
		return nil, store.ErrInvalidEntry
	}
	if item.ID == "" {
		item.ID = xid.New("item")
	}
	if _, exists := s.itemsByID[item.ID]; exists {
		return nil, store.ErrInvalidEntry
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	s.itemsByID[item.ID] = item
	created := item
	return &created, nil
}

func (s *Store) GetItemByID(_ context.Context, id string) (*domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.itemsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyItem := item
	return &copyItem, nil
}

func (s *Store) ListItems(_ context.Context, category string) ([]domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]domain.Item, 0, len(s.itemsByID))
	for _, item := range s.itemsByID {
		if category != "" && item.Category != category {
			continue
		}
		items = append(items, item)
	}

	slices.SortFunc(items, func(a, b domain.Item) int {
		if a.Category == b.Category {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Category, b.Category)
	})

	return items, nil
}

func (s *Store) UpdateItem(_ context.Context, item domain.Item) (*domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Name == "" {
		return nil, store.ErrInvalidEntry
	}
	if item.ReorderLevel < 0 || item.StockJCT < 0 || item.StockUCT < 0 {
		return nil, store.ErrInvalidEntry
	}
	existing, exists := s.itemsByID[item.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	item.Category = existing.Category
	item.CreatedAt = existing.CreatedAt

	s.itemsByID[item.ID] = item
	updated := item
	return &updated, nil
}

func (s *Store) DeleteItem(_ context.Context, id string, cascade bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.itemsByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.itemsByID, id)
	if !cascade {
		return nil
	}

	for entryID, entry := range s.receivingsByID {
		if entry.ItemID == id {
			delete(s.receivingsByID, entryID)
		}
	}
	for entryID, entry := range s.issuingsByID {
		if entry.ItemID == id {
			delete(s.issuingsByID, entryID)
		}
	}
	for entryID, entry := range s.returnsByID {
		if entry.ItemID == id {
			delete(s.returnsByID, entryID)
		}
	}
	return nil
}

func (s *Store) GetStock(_ context.Context, itemID string) (*domain.StockSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.itemsByID[itemID]
	if !exists {
		return nil, store.ErrNotFound
	}
	return &domain.StockSnapshot{
		ItemID:   item.ID,
		StockJCT: item.StockJCT,
		StockUCT: item.StockUCT,
		Status:   item.StockStatus(),
	}, nil
}

func (s *Store) CreateReceiving(_ context.Context, entry domain.ReceivingEntry) (*domain.ReceivingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.JCTQty < 0 || entry.UCTQty < 0 || entry.JCTQty+entry.UCTQty < 1 {
		return nil, store.ErrInvalidEntry
	}
	item, exists := s.itemsByID[entry.ItemID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if entry.ID == "" {
		entry.ID = xid.New("rcv")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	item.StockJCT += entry.JCTQty
	item.StockUCT += entry.UCTQty
	s.itemsByID[item.ID] = item
	s.receivingsByID[entry.ID] = entry
	created := entry
	return &created, nil
}

func (s *Store) GetReceivingByID(_ context.Context, id string) (*domain.ReceivingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.receivingsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyEntry := entry
	return &copyEntry, nil
}

func (s *Store) ListReceivings(_ context.Context, itemID string, limit int) ([]domain.ReceivingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ReceivingEntry, 0, 64)
	for _, entry := range s.receivingsByID {
		if itemID != "" && entry.ItemID != itemID {
			continue
		}
		result = append(result, entry)
	}
	sortEntriesNewestFirst(result, func(e domain.ReceivingEntry) (time.Time, string) { return e.CreatedAt, e.ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// UpdateReceiving reverses the original entry's stock effect, then applies
// the new quantities. Both sides run under one lock so no caller can observe
// the intermediate state.
func (s *Store) UpdateReceiving(_ context.Context, entry domain.ReceivingEntry) (*domain.ReceivingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.JCTQty < 0 || entry.UCTQty < 0 || entry.JCTQty+entry.UCTQty < 1 {
		return nil, store.ErrInvalidEntry
	}
	original, exists := s.receivingsByID[entry.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	item, exists := s.itemsByID[original.ItemID]
	if !exists {
		return nil, store.ErrNotFound
	}

	restoredJCT := item.StockJCT - original.JCTQty + entry.JCTQty
	restoredUCT := item.StockUCT - original.UCTQty + entry.UCTQty
	if restoredJCT < 0 || restoredUCT < 0 {
		return nil, store.ErrInsufficientStock
	}

	entry.ItemID = original.ItemID
	entry.CreatedAt = original.CreatedAt
	item.StockJCT = restoredJCT
	item.StockUCT = restoredUCT
	s.itemsByID[item.ID] = item
	s.receivingsByID[entry.ID] = entry
	updated := entry
	return &updated, nil
}

func (s *Store) DeleteReceiving(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.receivingsByID[id]
	if !exists {
		return store.ErrNotFound
	}
	item, exists := s.itemsByID[entry.ItemID]
	if !exists {
		// Orphaned entry: the item is gone, nothing to reverse.
		delete(s.receivingsByID, id)
		return nil
	}
	if item.StockJCT-entry.JCTQty < 0 || item.StockUCT-entry.UCTQty < 0 {
		return store.ErrInsufficientStock
	}

	item.StockJCT -= entry.JCTQty
	item.StockUCT -= entry.UCTQty
	s.itemsByID[item.ID] = item
	delete(s.receivingsByID, id)
	return nil
}

func (s *Store) CreateIssuing(_ context.Context, entry domain.IssuingEntry) (*domain.IssuingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Quantity < 1 {
		return nil, store.ErrInvalidEntry
	}
	if entry.Location != domain.LocationJCT && entry.Location != domain.LocationUCT {
		return nil, store.ErrInvalidEntry
	}
	item, exists := s.itemsByID[entry.ItemID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if err := drawStock(&item, entry.Location, entry.Quantity); err != nil {
		return nil, err
	}
	if entry.ID == "" {
		entry.ID = xid.New("iss")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.itemsByID[item.ID] = item
	s.issuingsByID[entry.ID] = entry
	created := entry
	return &created, nil
}

func (s *Store) GetIssuingByID(_ context.Context, id string) (*domain.IssuingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.issuingsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyEntry := entry
	return &copyEntry, nil
}

func (s *Store) ListIssuings(_ context.Context, itemID string, limit int) ([]domain.IssuingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.IssuingEntry, 0, 64)
	for _, entry := range s.issuingsByID {
		if itemID != "" && entry.ItemID != itemID {
			continue
		}
		result = append(result, entry)
	}
	sortEntriesNewestFirst(result, func(e domain.IssuingEntry) (time.Time, string) { return e.CreatedAt, e.ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// UpdateIssuing restores the stock the original entry consumed before the
// replacement draw, so the insufficient-stock check runs against the
// restored baseline.
func (s *Store) UpdateIssuing(_ context.Context, entry domain.IssuingEntry) (*domain.IssuingEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Quantity < 1 {
		return nil, store.ErrInvalidEntry
	}
	if entry.Location != domain.LocationJCT && entry.Location != domain.LocationUCT {
		return nil, store.ErrInvalidEntry
	}
	original, exists := s.issuingsByID[entry.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	item, exists := s.itemsByID[original.ItemID]
	if !exists {
		return nil, store.ErrNotFound
	}

	restoreStock(&item, original.Location, original.Quantity)
	if err := drawStock(&item, entry.Location, entry.Quantity); err != nil {
		return nil, err
	}

	entry.ItemID = original.ItemID
	entry.CreatedAt = original.CreatedAt
	s.itemsByID[item.ID] = item
	s.issuingsByID[entry.ID] = entry
	updated := entry
	return &updated, nil
}

func (s *Store) DeleteIssuing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.issuingsByID[id]
	if !exists {
		return store.ErrNotFound
	}
	if item, ok := s.itemsByID[entry.ItemID]; ok {
		restoreStock(&item, entry.Location, entry.Quantity)
		s.itemsByID[item.ID] = item
	}
	delete(s.issuingsByID, id)
	return nil
}

func (s *Store) FindIssuingByCode(_ context.Context, code string, itemID string) (*domain.IssuingEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	candidates := make([]domain.IssuingEntry, 0, 4)
	for _, entry := range s.issuingsByID {
		if entry.Code != code {
			continue
		}
		if itemID != "" && entry.ItemID != itemID {
			continue
		}
		candidates = append(candidates, entry)
	}
	if len(candidates) == 0 {
		return nil, store.ErrNotFound
	}
	sortEntriesNewestFirst(candidates, func(e domain.IssuingEntry) (time.Time, string) { return e.CreatedAt, e.ID })
	found := candidates[0]
	return &found, nil
}

func (s *Store) CreateReturn(_ context.Context, entry domain.ReturnEntry) (*domain.ReturnEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Quantity < 1 || entry.Reason == "" || entry.ReturnedBy == "" {
		return nil, store.ErrInvalidEntry
	}
	if _, exists := s.itemsByID[entry.ItemID]; !exists {
		return nil, store.ErrNotFound
	}
	if entry.Code != "" {
		for _, existing := range s.returnsByID {
			if existing.Code == entry.Code && existing.ItemID == entry.ItemID {
				return nil, store.ErrDuplicateReturn
			}
		}
	}
	if entry.ID == "" {
		entry.ID = xid.New("ret")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	s.returnsByID[entry.ID] = entry
	created := entry
	return &created, nil
}

func (s *Store) GetReturnByID(_ context.Context, id string) (*domain.ReturnEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.returnsByID[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copyEntry := entry
	return &copyEntry, nil
}

func (s *Store) ListReturns(_ context.Context, itemID string, limit int) ([]domain.ReturnEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.ReturnEntry, 0, 64)
	for _, entry := range s.returnsByID {
		if itemID != "" && entry.ItemID != itemID {
			continue
		}
		result = append(result, entry)
	}
	sortEntriesNewestFirst(result, func(e domain.ReturnEntry) (time.Time, string) { return e.CreatedAt, e.ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) UpdateReturn(_ context.Context, entry domain.ReturnEntry) (*domain.ReturnEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.Quantity < 1 || entry.Reason == "" || entry.ReturnedBy == "" {
		return nil, store.ErrInvalidEntry
	}
	original, exists := s.returnsByID[entry.ID]
	if !exists {
		return nil, store.ErrNotFound
	}
	if entry.Code != "" {
		for _, existing := range s.returnsByID {
			if existing.ID == entry.ID {
				continue
			}
			if existing.Code == entry.Code && existing.ItemID == original.ItemID {
				return nil, store.ErrDuplicateReturn
			}
		}
	}

	entry.ItemID = original.ItemID
	entry.CreatedAt = original.CreatedAt
	s.returnsByID[entry.ID] = entry
	updated := entry
	return &updated, nil
}

func (s *Store) DeleteReturn(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.returnsByID[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.returnsByID, id)
	return nil
}

func (s *Store) FindReturnByCode(_ context.Context, code string, itemID string) (*domain.ReturnEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, entry := range s.returnsByID {
		if entry.Code == code && entry.ItemID == itemID {
			copyEntry := entry
			return &copyEntry, nil
		}
	}
	return nil, store.ErrNotFound
}

// FindLotForItem returns the oldest non-empty lot recorded against the item,
// preferring receiving entries over issuing entries.
func (s *Store) FindLotForItem(_ context.Context, itemID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	receivings := make([]domain.ReceivingEntry, 0, 8)
	for _, entry := range s.receivingsByID {
		if entry.ItemID == itemID && strings.TrimSpace(entry.Lot) != "" {
			receivings = append(receivings, entry)
		}
	}
	if len(receivings) > 0 {
		slices.SortFunc(receivings, func(a, b domain.ReceivingEntry) int {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return cmpString(a.ID, b.ID)
			}
			if a.CreatedAt.Before(b.CreatedAt) {
				return -1
			}
			return 1
		})
		return receivings[0].Lot, nil
	}

	issuings := make([]domain.IssuingEntry, 0, 8)
	for _, entry := range s.issuingsByID {
		if entry.ItemID == itemID && strings.TrimSpace(entry.Lot) != "" {
			issuings = append(issuings, entry)
		}
	}
	if len(issuings) > 0 {
		slices.SortFunc(issuings, func(a, b domain.IssuingEntry) int {
			if a.CreatedAt.Equal(b.CreatedAt) {
				return cmpString(a.ID, b.ID)
			}
			if a.CreatedAt.Before(b.CreatedAt) {
				return -1
			}
			return 1
		})
		return issuings[0].Lot, nil
	}

	return "", store.ErrNotFound
}

func (s *Store) GetStockStatusReport(_ context.Context, category string, at time.Time) (domain.StockStatusReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := domain.StockStatusReport{
		GeneratedAt: at.UTC().Format(time.RFC3339),
		Rows:        make([]domain.StockStatusRow, 0, len(s.itemsByID)),
	}
	for _, item := range s.itemsByID {
		if category != "" && item.Category != category {
			continue
		}
		report.Rows = append(report.Rows, domain.StockStatusRow{
			ItemID:       item.ID,
			Name:         item.Name,
			Category:     item.Category,
			StockJCT:     item.StockJCT,
			StockUCT:     item.StockUCT,
			TotalStock:   item.StockJCT + item.StockUCT,
			ReorderLevel: item.ReorderLevel,
			Status:       item.StockStatus(),
		})
	}
	slices.SortFunc(report.Rows, func(a, b domain.StockStatusRow) int {
		if a.Category == b.Category {
			return cmpString(a.Name, b.Name)
		}
		return cmpString(a.Category, b.Category)
	})
	return report, nil
}

func (s *Store) CreateAuditLog(_ context.Context, entry domain.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = xid.New("audit")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.auditLogs = append(s.auditLogs, entry)
	return nil
}

func (s *Store) ListAuditLogs(_ context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.AuditLog, 0, 64)
	for _, entry := range s.auditLogs {
		if entry.CreatedAt.Before(from) || !entry.CreatedAt.Before(to) {
			continue
		}
		result = append(result, entry)
	}
	sortEntriesNewestFirst(result, func(e domain.AuditLog) (time.Time, string) { return e.CreatedAt, e.ID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *Store) CreateUser(_ context.Context, user domain.UserAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username := strings.ToLower(strings.TrimSpace(user.Username))
	if username == "" || strings.TrimSpace(user.Password) == "" {
		return store.ErrInvalidEntry
	}
	if _, exists := s.usersByUsername[username]; exists {
		return store.ErrInvalidEntry
	}
	user.Username = username
	if user.Role == "" {
		user.Role = domain.RoleClerk
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Active = true
	s.usersByUsername[user.Username] = user
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]domain.UserAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.UserAccount, 0, len(s.usersByUsername))
	for _, user := range s.usersByUsername {
		users = append(users, user)
	}
	slices.SortFunc(users, func(a, b domain.UserAccount) int {
		return cmpString(a.Username, b.Username)
	})
	return users, nil
}

func (s *Store) UpdateUserPassword(_ context.Context, username string, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || strings.TrimSpace(password) == "" {
		return store.ErrInvalidEntry
	}
	user, exists := s.usersByUsername[username]
	if !exists {
		return store.ErrNotFound
	}
	user.Password = password
	s.usersByUsername[username] = user
	return nil
}

func drawStock(item *domain.Item, location string, qty int) error {
	switch location {
	case domain.LocationJCT:
		if item.StockJCT < qty {
			return store.ErrInsufficientStock
		}
		item.StockJCT -= qty
	case domain.LocationUCT:
		if item.StockUCT < qty {
			return store.ErrInsufficientStock
		}
		item.StockUCT -= qty
	default:
		return store.ErrInvalidEntry
	}
	return nil
}

func restoreStock(item *domain.Item, location string, qty int) {
	switch location {
	case domain.LocationJCT:
		item.StockJCT += qty
	case domain.LocationUCT:
		item.StockUCT += qty
	}
}

func sortEntriesNewestFirst[T any](entries []T, keyOf func(T) (time.Time, string)) {
	slices.SortFunc(entries, func(a, b T) int {
		at, aid := keyOf(a)
		bt, bid := keyOf(b)
		if at.Equal(bt) {
			return cmpString(bid, aid)
		}
		if at.After(bt) {
			return -1
		}
		return 1
	})
}

func cmpString(a string, b string) int {
	if a == b {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}
