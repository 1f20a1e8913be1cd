package domain

import "time"

type Item struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Compatibility string    `json:"compatibility,omitempty"`
	Color         string    `json:"color,omitempty"`
	ReorderLevel  int       `json:"reorder_level"`
	StockJCT      int       `json:"stock_jct"`
	StockUCT      int       `json:"stock_uct"`
	CreatedAt     time.Time `json:"created_at"`
}

// StockStatus derives the item's status from its counters and is never stored.
func (it Item) StockStatus() string {
	total := it.StockJCT + it.StockUCT
	switch {
	case total == 0:
		return StatusOutOfStock
	case total <= it.ReorderLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

type ItemCreateRequest struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	Compatibility   string `json:"compatibility"`
	Color           string `json:"color"`
	ReorderLevel    int    `json:"reorder_level"`
	InitialStockJCT int    `json:"initial_stock_jct"`
	InitialStockUCT int    `json:"initial_stock_uct"`
}

type ItemUpdateRequest struct {
	Name          *string `json:"name,omitempty"`
	Compatibility *string `json:"compatibility,omitempty"`
	Color         *string `json:"color,omitempty"`
	ReorderLevel  *int    `json:"reorder_level,omitempty"`
	StockJCT      *int    `json:"stock_jct,omitempty"`
	StockUCT      *int    `json:"stock_uct,omitempty"`
}

type ItemResponse struct {
	Item   Item   `json:"item"`
	Status string `json:"status"`
}

type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

type ReceivingEntry struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	Lot            string    `json:"lot,omitempty"`
	JCTQty         int       `json:"jct_qty"`
	UCTQty         int       `json:"uct_qty"`
	SupplierName   string    `json:"supplier_name,omitempty"`
	PRNumber       string    `json:"pr_number,omitempty"`
	TenderNumber   string    `json:"tender_number,omitempty"`
	InvoiceNumber  string    `json:"invoice_number,omitempty"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	ReceivedDate   time.Time `json:"received_date"`
	Remarks        string    `json:"remarks,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReceivingCreateRequest struct {
	ItemID         string `json:"item_id"`
	Lot            string `json:"lot"`
	JCTQty         int    `json:"jct_qty"`
	UCTQty         int    `json:"uct_qty"`
	SupplierName   string `json:"supplier_name"`
	PRNumber       string `json:"pr_number"`
	TenderNumber   string `json:"tender_number"`
	InvoiceNumber  string `json:"invoice_number"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Date           string `json:"date"`
	Remarks        string `json:"remarks"`
}

type ReceivingResponse struct {
	Entry ReceivingEntry `json:"entry"`
	Stock StockSnapshot  `json:"stock"`
}

type ReceivingListResponse struct {
	Entries []ReceivingEntry `json:"entries"`
}

type IssuingEntry struct {
	ID          string    `json:"id"`
	ItemID      string    `json:"item_id"`
	Code        string    `json:"code,omitempty"`
	Lot         string    `json:"lot,omitempty"`
	Location    string    `json:"location"`
	Quantity    int       `json:"quantity"`
	Division    string    `json:"division"`
	Section     string    `json:"section"`
	RequestedBy string    `json:"requested_by,omitempty"`
	ReceivedBy  string    `json:"received_by,omitempty"`
	IssuedDate  time.Time `json:"issued_date"`
	Remarks     string    `json:"remarks,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type IssuingCreateRequest struct {
	ItemID      string `json:"item_id"`
	Code        string `json:"code"`
	Lot         string `json:"lot"`
	Location    string `json:"location"`
	Quantity    int    `json:"quantity"`
	Division    string `json:"division"`
	Section     string `json:"section"`
	RequestedBy string `json:"requested_by"`
	ReceivedBy  string `json:"received_by"`
	Date        string `json:"date"`
	Remarks     string `json:"remarks"`
}

type IssuingResponse struct {
	Entry IssuingEntry  `json:"entry"`
	Stock StockSnapshot `json:"stock"`
}

type IssuingListResponse struct {
	Entries []IssuingEntry `json:"entries"`
}

type ReturnEntry struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	Code         string    `json:"code,omitempty"`
	Lot          string    `json:"lot,omitempty"`
	Location     string    `json:"location,omitempty"`
	SupplierName string    `json:"supplier_name,omitempty"`
	ReturnedBy   string    `json:"returned_by"`
	Quantity     int       `json:"quantity"`
	Reason       string    `json:"reason"`
	ReturnedDate time.Time `json:"returned_date"`
	Remarks      string    `json:"remarks,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type ReturnCreateRequest struct {
	ItemID       string `json:"item_id"`
	Code         string `json:"code"`
	Lot          string `json:"lot"`
	Location     string `json:"location"`
	SupplierName string `json:"supplier_name"`
	ReturnedBy   string `json:"returned_by"`
	Quantity     int    `json:"quantity"`
	Reason       string `json:"reason"`
	Date         string `json:"date"`
	Remarks      string `json:"remarks"`
}

type ReturnResponse struct {
	Entry ReturnEntry `json:"entry"`
}

type ReturnListResponse struct {
	Entries []ReturnEntry `json:"entries"`
}

// ReturnAutofill carries the fields resolved from an external code so a
// return form can be pre-populated from the originating issue.
type ReturnAutofill struct {
	Found        bool   `json:"found"`
	ItemID       string `json:"item_id,omitempty"`
	Lot          string `json:"lot,omitempty"`
	Location     string `json:"location,omitempty"`
	Division     string `json:"division,omitempty"`
	Section      string `json:"section,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
	IssuedDate   string `json:"issued_date,omitempty"`
}

type StockSnapshot struct {
	ItemID   string `json:"item_id"`
	StockJCT int    `json:"stock_jct"`
	StockUCT int    `json:"stock_uct"`
	Status   string `json:"status"`
}

type StockStatusRow struct {
	ItemID       string `json:"item_id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	StockJCT     int    `json:"stock_jct"`
	StockUCT     int    `json:"stock_uct"`
	TotalStock   int    `json:"total_stock"`
	ReorderLevel int    `json:"reorder_level"`
	Status       string `json:"status"`
}

type StockStatusReport struct {
	GeneratedAt string           `json:"generated_at"`
	Rows        []StockStatusRow `json:"rows"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type ClerkCreateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ClerkUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserAccount is an internal persistence model for auth credentials.
type UserAccount struct {
	Username  string
	Password  string
	Role      string
	Active    bool
	CreatedAt time.Time
}

type AuditLog struct {
	ID            string    `json:"id"`
	ActorUsername string    `json:"actor_username"`
	ActorRole     string    `json:"actor_role"`
	Action        string    `json:"action"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	Detail        string    `json:"detail"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	LocationJCT = "JCT"
	LocationUCT = "UCT"
)

const (
	CategoryToner  = "toner"
	CategoryPaper  = "paper"
	CategoryRibbon = "ribbon"
)

const (
	StatusOutOfStock = "OUT_OF_STOCK"
	StatusLowStock   = "LOW_STOCK"
	StatusInStock    = "IN_STOCK"
)

const (
	RoleClerk = "clerk"
	RoleAdmin = "admin"
)
