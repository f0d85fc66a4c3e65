package reports

import (
	"context"
	"time"

	"github.com/tgcretail/pos-backend/internal/audit"
	"github.com/tgcretail/pos-backend/internal/catalog"
	"github.com/tgcretail/pos-backend/internal/ledger"
	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/enums"
	"github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

// DailySales summarizes one day of register activity. Money figures come
// from the audit trail so they reflect what actually moved, including
// refunds issued today against older receipts.
type DailySales struct {
	Date              string      `json:"date"`
	GrossSalesCents   int         `json:"gross_sales_cents"`
	RefundsCents      int         `json:"refunds_cents"`
	NetCents          int         `json:"net_cents"`
	ReceiptsCreated   int         `json:"receipts_created"`
	CompletedReceipts int         `json:"completed_receipts"`
	PendingReceipts   int         `json:"pending_receipts"`
	RefundEvents      int         `json:"refund_events"`
	CancelledReceipts int         `json:"cancelled_receipts"`
	ItemsSold         []ItemSales `json:"items_sold"`
}

// ItemSales aggregates one product's movement across the day's completed
// receipts. Refunded lines are excluded; the figures track what stayed sold.
type ItemSales struct {
	Name            string `json:"name"`
	Brand           string `json:"brand"`
	Type            string `json:"type"`
	Size            string `json:"size"`
	Color           string `json:"color"`
	Quantity        int    `json:"quantity"`
	TotalValueCents int    `json:"total_value_cents"`
}

// Service builds operational reports.
type Service interface {
	DailySales(ctx context.Context, date string) (*DailySales, error)
	LowStock(ctx context.Context) ([]models.StockItem, error)
}

type service struct {
	auditRepo  audit.Repository
	ledgerRepo ledger.Repository
	catalog    catalog.Service
	logg       *logger.Logger
	location   *time.Location
}

// NewService wires the reports service. Day boundaries use the provided
// location; nil means UTC.
func NewService(
	auditRepo audit.Repository,
	ledgerRepo ledger.Repository,
	catalogSvc catalog.Service,
	logg *logger.Logger,
	location *time.Location,
) Service {
	if location == nil {
		location = time.UTC
	}
	return &service{
		auditRepo:  auditRepo,
		ledgerRepo: ledgerRepo,
		catalog:    catalogSvc,
		logg:       logg,
		location:   location,
	}
}

// DailySales reports the day named by date in YYYY-MM-DD form. An empty
// date means today.
func (s *service) DailySales(ctx context.Context, date string) (*DailySales, error) {
	day, err := s.parseDay(date)
	if err != nil {
		return nil, err
	}
	from := day
	to := day.AddDate(0, 0, 1)

	entries, err := s.auditRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "reading audit entries for report")
	}
	receipts, err := s.ledgerRepo.ListBetween(ctx, from, to)
	if err != nil {
		return nil, errors.Wrap(errors.CodeInternal, err, "reading receipts for report")
	}

	report := &DailySales{Date: day.Format("2006-01-02")}
	for _, entry := range entries {
		switch entry.Action {
		case enums.AuditActionOrderPaid, enums.AuditActionPendingPaid:
			report.GrossSalesCents += entry.AmountCents
		case enums.AuditActionOrderRefunded, enums.AuditActionPartialRefund:
			report.RefundsCents += -entry.AmountCents
			report.RefundEvents++
		case enums.AuditActionPendingCancelled:
			report.CancelledReceipts++
		}
	}
	report.NetCents = report.GrossSalesCents - report.RefundsCents

	report.ReceiptsCreated = len(receipts)
	index := make(map[string]int)
	for _, receipt := range receipts {
		switch receipt.Status {
		case enums.ReceiptStatusCompleted:
			report.CompletedReceipts++
		case enums.ReceiptStatusPending:
			report.PendingReceipts++
		}
		if receipt.Status != enums.ReceiptStatusCompleted {
			continue
		}
		for _, line := range receipt.Lines {
			if line.Refunded {
				continue
			}
			key := line.Name + "|" + line.Brand + "|" + line.Type + "|" + line.Size + "|" + line.Color
			at, ok := index[key]
			if !ok {
				at = len(report.ItemsSold)
				index[key] = at
				report.ItemsSold = append(report.ItemsSold, ItemSales{
					Name:  line.Name,
					Brand: line.Brand,
					Type:  line.Type,
					Size:  line.Size,
					Color: line.Color,
				})
			}
			report.ItemsSold[at].Quantity += line.Qty
			report.ItemsSold[at].TotalValueCents += line.TotalCents()
		}
	}
	return report, nil
}

func (s *service) LowStock(ctx context.Context) ([]models.StockItem, error) {
	return s.catalog.LowStock(ctx)
}

func (s *service) parseDay(date string) (time.Time, error) {
	if date == "" {
		now := time.Now().In(s.location)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location), nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", date, s.location)
	if err != nil {
		return time.Time{}, errors.New(errors.CodeValidation, "date must be YYYY-MM-DD")
	}
	return parsed, nil
}
