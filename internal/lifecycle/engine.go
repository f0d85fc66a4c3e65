package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/internal/audit"
	"github.com/tgcretail/pos-backend/internal/cart"
	"github.com/tgcretail/pos-backend/internal/catalog"
	"github.com/tgcretail/pos-backend/internal/ledger"
	"github.com/tgcretail/pos-backend/pkg/db"
	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/enums"
	"github.com/tgcretail/pos-backend/pkg/errors"
	"github.com/tgcretail/pos-backend/pkg/logger"
	"github.com/tgcretail/pos-backend/pkg/metrics"
	"github.com/tgcretail/pos-backend/pkg/types"
)

// Metric action labels.
const (
	actionCheckout      = "checkout"
	actionPayPending    = "pay_pending"
	actionCancelPending = "cancel_pending"
	actionRefund        = "refund"
)

// Actor identifies the staff member driving a transition. Every audit entry
// carries the actor unchanged.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// CheckoutInput carries everything needed to turn a cart into a receipt.
type CheckoutInput struct {
	SessionID    string
	CustomerName string
	PaymentCents int
	PayNow       bool
	Actor        Actor
}

// LineWarning reports a cart line dropped at checkout because stock could
// not cover it.
type LineWarning struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Requested int       `json:"requested"`
	Reason    string    `json:"reason"`
}

// CheckoutResult is the committed receipt plus any dropped-line warnings.
type CheckoutResult struct {
	Receipt  *models.Receipt `json:"receipt"`
	Warnings []LineWarning   `json:"warnings,omitempty"`
}

// Engine drives every receipt state transition. Each transition runs in a
// single database transaction that moves stock, mutates the receipt, and
// appends exactly one audit entry; either all three commit or none do.
type Engine interface {
	Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error)
	PayPending(ctx context.Context, transactionID string, actor Actor, paymentCents int) (*models.Receipt, error)
	CancelPending(ctx context.Context, transactionID string, actor Actor) (*models.Receipt, error)
	RefundLines(ctx context.Context, transactionID string, actor Actor, lineIDs []uuid.UUID) (*models.Receipt, error)
}

type engine struct {
	tx      *db.Client
	carts   cart.Service
	catalog catalog.Repository
	ledger  ledger.Repository
	audit   audit.Repository
	metrics *metrics.LifecycleMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewEngine wires the lifecycle engine.
func NewEngine(
	tx *db.Client,
	carts cart.Service,
	catalogRepo catalog.Repository,
	ledgerRepo ledger.Repository,
	auditRepo audit.Repository,
	lifecycleMetrics *metrics.LifecycleMetrics,
	logg *logger.Logger,
) Engine {
	return &engine{
		tx:      tx,
		carts:   carts,
		catalog: catalogRepo,
		ledger:  ledgerRepo,
		audit:   auditRepo,
		metrics: lifecycleMetrics,
		logg:    logg,
		now:     time.Now,
	}
}

// Checkout converts the session cart into a receipt. Paid checkouts land in
// completed, to-pay checkouts in pending; both debit stock immediately so a
// pending order holds its goods. Lines the catalog can no longer cover are
// dropped from the receipt and reported as warnings.
func (e *engine) Checkout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	started := e.now()

	view, err := e.carts.Fetch(ctx, input.SessionID)
	if err != nil {
		e.metrics.IncFailure(actionCheckout)
		return nil, err
	}
	if view.IsEmpty() {
		e.metrics.IncFailure(actionCheckout)
		return nil, errors.New(errors.CodeValidation, "cart is empty")
	}
	if input.PaymentCents < 0 {
		e.metrics.IncFailure(actionCheckout)
		return nil, errors.New(errors.CodeValidation, "payment cannot be negative")
	}

	customerName := strings.TrimSpace(input.CustomerName)
	if customerName == "" {
		customerName = strings.TrimSpace(view.CustomerName)
	}
	if customerName == "" {
		e.metrics.IncFailure(actionCheckout)
		return nil, errors.New(errors.CodeValidation, "customer name is required")
	}

	var (
		receipt  *models.Receipt
		warnings []LineWarning
	)
	txErr := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := e.catalog.WithTx(tx)
		ledgerRepo := e.ledger.WithTx(tx)
		auditRepo := e.audit.WithTx(tx)

		warnings = warnings[:0]
		var lines []models.ReceiptLine
		for _, cartLine := range view.Lines {
			applied, err := catalogRepo.Debit(ctx, cartLine.ProductID, cartLine.Qty)
			if err != nil {
				return errors.Wrap(errors.CodeInternal, err, "debiting stock")
			}
			if !applied {
				warnings = append(warnings, LineWarning{
					ProductID: cartLine.ProductID,
					Name:      cartLine.Name,
					Requested: cartLine.Qty,
					Reason:    "insufficient stock",
				})
				continue
			}
			productID := cartLine.ProductID
			lines = append(lines, models.ReceiptLine{
				Position:       len(lines) + 1,
				ProductID:      &productID,
				Name:           cartLine.Name,
				Brand:          cartLine.Brand,
				Type:           cartLine.Type,
				Size:           cartLine.Size,
				Color:          cartLine.Color,
				UnitPriceCents: cartLine.UnitPriceCents,
				Qty:            cartLine.Qty,
			})
		}
		if len(lines) == 0 {
			return errors.New(errors.CodeOutOfStock, "no cart line could be fulfilled").
				WithDetails(warnings)
		}

		subtotal := 0
		for _, line := range lines {
			subtotal += line.TotalCents()
		}

		status := enums.ReceiptStatusPending
		action := enums.AuditActionOrderToPay
		payment := 0
		change := 0
		if input.PayNow {
			if input.PaymentCents < subtotal {
				return errors.New(errors.CodeInsufficientPayment, "payment is below the amount due").
					WithDetails(map[string]any{
						"subtotal_cents": subtotal,
						"payment_cents":  input.PaymentCents,
					})
			}
			status = enums.ReceiptStatusCompleted
			action = enums.AuditActionOrderPaid
			payment = input.PaymentCents
			change = input.PaymentCents - subtotal
		}

		number, err := ledgerRepo.NextTransactionNumber(ctx)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, err, "advancing transaction counter")
		}

		receipt = &models.Receipt{
			TransactionID: ledger.FormatTransactionID(e.now(), number),
			CustomerName:  customerName,
			Status:        status,
			SubtotalCents: subtotal,
			PaymentCents:  payment,
			ChangeCents:   change,
			StaffID:       input.Actor.ID,
			StaffName:     input.Actor.Name,
			Lines:         lines,
		}
		if err := ledgerRepo.Create(ctx, receipt); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "creating receipt")
		}

		entry := e.entryFor(receipt, action, input.Actor, snapshotLines(receipt.Lines), subtotal)
		if err := auditRepo.Append(ctx, entry); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "appending audit entry")
		}
		return nil
	})
	if txErr != nil {
		e.metrics.IncFailure(actionCheckout)
		return nil, txErr
	}

	if err := e.carts.Clear(ctx, input.SessionID); err != nil {
		// The receipt is committed; a stale cart is an inconvenience, not a
		// failure.
		e.logg.Warn(e.logg.WithField(ctx, "session_id", input.SessionID), "clearing cart after checkout failed")
	}

	e.metrics.IncTransition(actionCheckout)
	e.metrics.ObserveDuration(actionCheckout, e.now().Sub(started))

	ctx = e.logg.WithTransactionID(ctx, receipt.TransactionID)
	e.logg.Info(ctx, "checkout committed")
	return &CheckoutResult{Receipt: receipt, Warnings: warnings}, nil
}

func (e *engine) entryFor(
	receipt *models.Receipt,
	action enums.AuditAction,
	actor Actor,
	lines types.LineSnapshots,
	amountCents int,
) *models.AuditEntry {
	transactionID := receipt.TransactionID
	return &models.AuditEntry{
		TransactionID:   &transactionID,
		Action:          action,
		ResultingStatus: receipt.Status,
		StaffID:         actor.ID,
		StaffName:       actor.Name,
		CustomerName:    receipt.CustomerName,
		Lines:           lines,
		AmountCents:     amountCents,
	}
}

func snapshotLines(lines []models.ReceiptLine) types.LineSnapshots {
	snapshots := make(types.LineSnapshots, 0, len(lines))
	for _, line := range lines {
		snapshots = append(snapshots, types.LineSnapshot{
			ProductID:      line.ProductID,
			Name:           line.Name,
			Brand:          line.Brand,
			Type:           line.Type,
			Size:           line.Size,
			Color:          line.Color,
			UnitPriceCents: line.UnitPriceCents,
			Qty:            line.Qty,
		})
	}
	return snapshots
}
