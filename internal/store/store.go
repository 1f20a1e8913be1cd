package store

import (
	"context"
	"errors"
	"time"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/domain"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateReturn   = errors.New("duplicate return")
	ErrInvalidEntry      = errors.New("invalid entry")
)

type Repository interface {
	CreateItem(ctx context.Context, item domain.Item) (*domain.Item, error)
	GetItemByID(ctx context.Context, id string) (*domain.Item, error)
	ListItems(ctx context.Context, category string) ([]domain.Item, error)
	UpdateItem(ctx context.Context, item domain.Item) (*domain.Item, error)
	DeleteItem(ctx context.Context, id string, cascade bool) error
	GetStock(ctx context.Context, itemID string) (*domain.StockSnapshot, error)

	CreateReceiving(ctx context.Context, entry domain.ReceivingEntry) (*domain.ReceivingEntry, error)
	GetReceivingByID(ctx context.Context, id string) (*domain.ReceivingEntry, error)
	ListReceivings(ctx context.Context, itemID string, limit int) ([]domain.ReceivingEntry, error)
	UpdateReceiving(ctx context.Context, entry domain.ReceivingEntry) (*domain.ReceivingEntry, error)
	DeleteReceiving(ctx context.Context, id string) error

	CreateIssuing(ctx context.Context, entry domain.IssuingEntry) (*domain.IssuingEntry, error)
	GetIssuingByID(ctx context.Context, id string) (*domain.IssuingEntry, error)
	ListIssuings(ctx context.Context, itemID string, limit int) ([]domain.IssuingEntry, error)
	UpdateIssuing(ctx context.Context, entry domain.IssuingEntry) (*domain.IssuingEntry, error)
	DeleteIssuing(ctx context.Context, id string) error
	FindIssuingByCode(ctx context.Context, code string, itemID string) (*domain.IssuingEntry, error)

	CreateReturn(ctx context.Context, entry domain.ReturnEntry) (*domain.ReturnEntry, error)
	GetReturnByID(ctx context.Context, id string) (*domain.ReturnEntry, error)
	ListReturns(ctx context.Context, itemID string, limit int) ([]domain.ReturnEntry, error)
	UpdateReturn(ctx context.Context, entry domain.ReturnEntry) (*domain.ReturnEntry, error)
	DeleteReturn(ctx context.Context, id string) error
	FindReturnByCode(ctx context.Context, code string, itemID string) (*domain.ReturnEntry, error)

	FindLotForItem(ctx context.Context, itemID string) (string, error)
	GetStockStatusReport(ctx context.Context, category string, at time.Time) (domain.StockStatusReport, error)

	CreateAuditLog(ctx context.Context, entry domain.AuditLog) error
	ListAuditLogs(ctx context.Context, from time.Time, to time.Time, limit int) ([]domain.AuditLog, error)

	CreateUser(ctx context.Context, user domain.UserAccount) error
	ListUsers(ctx context.Context) ([]domain.UserAccount, error)
	UpdateUserPassword(ctx context.Context, username string, password string) error
}
