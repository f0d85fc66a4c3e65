package lifecycle

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/enums"
	"github.com/tgcretail/pos-backend/pkg/errors"
)

// PayPending settles a pending receipt. The goods were already debited at
// checkout, so payment only records money and flips the status.
func (e *engine) PayPending(ctx context.Context, transactionID string, actor Actor, paymentCents int) (*models.Receipt, error) {
	started := e.now()

	var receipt *models.Receipt
	txErr := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ledgerRepo := e.ledger.WithTx(tx)
		auditRepo := e.audit.WithTx(tx)

		loaded, err := e.loadForTransition(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if loaded.Status.IsTerminal() {
			return errors.New(errors.CodeStateConflict, "receipt is closed").
				WithDetails(map[string]any{"status": loaded.Status})
		}
		if loaded.Status != enums.ReceiptStatusPending {
			return errors.New(errors.CodeStateConflict, "only pending receipts can be paid").
				WithDetails(map[string]any{"status": loaded.Status})
		}
		if hasRefundedLines(loaded) {
			return errors.New(errors.CodeStateConflict, "receipt with refunded lines cannot be paid")
		}
		if paymentCents < loaded.SubtotalCents {
			return errors.New(errors.CodeInsufficientPayment, "payment is below the amount due").
				WithDetails(map[string]any{
					"subtotal_cents": loaded.SubtotalCents,
					"payment_cents":  paymentCents,
				})
		}

		loaded.PaymentCents = paymentCents
		loaded.ChangeCents = paymentCents - loaded.SubtotalCents
		loaded.Status = enums.ReceiptStatusCompleted
		if err := ledgerRepo.Save(ctx, loaded); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "saving receipt")
		}

		entry := e.entryFor(loaded, enums.AuditActionPendingPaid, actor, snapshotLines(loaded.Lines), loaded.SubtotalCents)
		if err := auditRepo.Append(ctx, entry); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "appending audit entry")
		}
		receipt = loaded
		return nil
	})
	if txErr != nil {
		e.metrics.IncFailure(actionPayPending)
		return nil, txErr
	}

	e.metrics.IncTransition(actionPayPending)
	e.metrics.ObserveDuration(actionPayPending, e.now().Sub(started))
	e.logg.Info(e.logg.WithTransactionID(ctx, transactionID), "pending receipt paid")
	return receipt, nil
}

// CancelPending voids a pending receipt and returns its goods to stock. No
// money moved, so the audit amount is zero.
func (e *engine) CancelPending(ctx context.Context, transactionID string, actor Actor) (*models.Receipt, error) {
	started := e.now()

	var receipt *models.Receipt
	txErr := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := e.catalog.WithTx(tx)
		ledgerRepo := e.ledger.WithTx(tx)
		auditRepo := e.audit.WithTx(tx)

		loaded, err := e.loadForTransition(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if loaded.Status.IsTerminal() {
			return errors.New(errors.CodeStateConflict, "receipt is closed").
				WithDetails(map[string]any{"status": loaded.Status})
		}
		if loaded.Status != enums.ReceiptStatusPending {
			return errors.New(errors.CodeStateConflict, "only pending receipts can be cancelled").
				WithDetails(map[string]any{"status": loaded.Status})
		}
		if hasRefundedLines(loaded) {
			return errors.New(errors.CodeStateConflict, "receipt with refunded lines cannot be cancelled")
		}

		for _, line := range loaded.Lines {
			if line.ProductID == nil {
				continue
			}
			if _, err := catalogRepo.Credit(ctx, *line.ProductID, line.Qty); err != nil {
				return errors.Wrap(errors.CodeInternal, err, "crediting stock")
			}
		}

		loaded.Status = enums.ReceiptStatusCancelled
		if err := ledgerRepo.Save(ctx, loaded); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "saving receipt")
		}

		entry := e.entryFor(loaded, enums.AuditActionPendingCancelled, actor, snapshotLines(loaded.Lines), 0)
		if err := auditRepo.Append(ctx, entry); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "appending audit entry")
		}
		receipt = loaded
		return nil
	})
	if txErr != nil {
		e.metrics.IncFailure(actionCancelPending)
		return nil, txErr
	}

	e.metrics.IncTransition(actionCancelPending)
	e.metrics.ObserveDuration(actionCancelPending, e.now().Sub(started))
	e.logg.Info(e.logg.WithTransactionID(ctx, transactionID), "pending receipt cancelled")
	return receipt, nil
}

// RefundLines refunds the selected lines: stock returns to the catalog, the
// subtotal and payment shrink by the refunded amount, and the change stays
// as recorded at sale time. An empty selection means every unrefunded line.
// Lines already refunded are skipped, which makes a replayed request a no-op
// rather than a double credit. The receipt moves to refunded only when every
// line is refunded.
func (e *engine) RefundLines(ctx context.Context, transactionID string, actor Actor, lineIDs []uuid.UUID) (*models.Receipt, error) {
	started := e.now()

	selected := make(map[uuid.UUID]bool, len(lineIDs))
	for _, id := range lineIDs {
		selected[id] = true
	}

	var receipt *models.Receipt
	txErr := e.tx.WithTx(ctx, func(tx *gorm.DB) error {
		catalogRepo := e.catalog.WithTx(tx)
		ledgerRepo := e.ledger.WithTx(tx)
		auditRepo := e.audit.WithTx(tx)

		loaded, err := e.loadForTransition(ctx, tx, transactionID)
		if err != nil {
			return err
		}
		if loaded.Status.IsTerminal() {
			return errors.New(errors.CodeStateConflict, "receipt is closed").
				WithDetails(map[string]any{"status": loaded.Status})
		}
		if loaded.Status != enums.ReceiptStatusCompleted {
			return errors.New(errors.CodeStateConflict, "only completed receipts can be refunded").
				WithDetails(map[string]any{"status": loaded.Status})
		}
		if len(selected) == 0 {
			for _, line := range loaded.Lines {
				selected[line.ID] = true
			}
		}

		var (
			refunding      []models.ReceiptLine
			refundingIDs   []uuid.UUID
			refundedAmount int
		)
		for _, line := range loaded.Lines {
			if !selected[line.ID] || line.Refunded {
				continue
			}
			refunding = append(refunding, line)
			refundingIDs = append(refundingIDs, line.ID)
			refundedAmount += line.TotalCents()
		}
		if len(refunding) == 0 {
			return errors.New(errors.CodeNoRefundableItems, "no refundable items selected")
		}

		for _, line := range refunding {
			if line.ProductID == nil {
				continue
			}
			if _, err := catalogRepo.Credit(ctx, *line.ProductID, line.Qty); err != nil {
				return errors.Wrap(errors.CodeInternal, err, "crediting stock")
			}
		}
		if err := ledgerRepo.MarkLinesRefunded(ctx, loaded.ID, refundingIDs); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "marking lines refunded")
		}

		allRefunded := true
		for i := range loaded.Lines {
			if selected[loaded.Lines[i].ID] {
				loaded.Lines[i].Refunded = true
			}
			if !loaded.Lines[i].Refunded {
				allRefunded = false
			}
		}

		loaded.SubtotalCents = floorZero(loaded.SubtotalCents - refundedAmount)
		loaded.PaymentCents = floorZero(loaded.PaymentCents - refundedAmount)
		action := enums.AuditActionPartialRefund
		if allRefunded {
			loaded.Status = enums.ReceiptStatusRefunded
			action = enums.AuditActionOrderRefunded
		}
		if err := ledgerRepo.Save(ctx, loaded); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "saving receipt")
		}

		entry := e.entryFor(loaded, action, actor, snapshotLines(refunding), -refundedAmount)
		if err := auditRepo.Append(ctx, entry); err != nil {
			return errors.Wrap(errors.CodeInternal, err, "appending audit entry")
		}
		receipt = loaded
		return nil
	})
	if txErr != nil {
		e.metrics.IncFailure(actionRefund)
		return nil, txErr
	}

	e.metrics.IncTransition(actionRefund)
	e.metrics.ObserveDuration(actionRefund, e.now().Sub(started))
	e.logg.Info(e.logg.WithTransactionID(ctx, transactionID), "refund applied")
	return receipt, nil
}

func (e *engine) loadForTransition(ctx context.Context, tx *gorm.DB, transactionID string) (*models.Receipt, error) {
	receipt, err := e.ledger.WithTx(tx).FindByTransactionID(ctx, transactionID)
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, errors.New(errors.CodeNotFound, "receipt not found")
		}
		return nil, errors.Wrap(errors.CodeInternal, err, "fetching receipt")
	}
	return receipt, nil
}

func hasRefundedLines(receipt *models.Receipt) bool {
	for _, line := range receipt.Lines {
		if line.Refunded {
			return true
		}
	}
	return false
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
