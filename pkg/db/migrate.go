package db

import (
	"context"
	"fmt"

	"github.com/tgcretail/pos-backend/pkg/db/models"
	"github.com/tgcretail/pos-backend/pkg/logger"
)

// AutoMigrate creates or updates the schema for the embedded sqlite
// deployment. Postgres installs run versioned goose migrations instead
// (pkg/migrate).
func (c *Client) AutoMigrate(ctx context.Context, logg *logger.Logger) error {
	err := c.conn.WithContext(ctx).AutoMigrate(
		&models.StockItem{},
		&models.Receipt{},
		&models.ReceiptLine{},
		&models.AuditEntry{},
		&models.TransactionCounter{},
		&models.Staff{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrating schema: %w", err)
	}

	// The counter row must exist before the first checkout.
	seed := models.TransactionCounter{ID: 1, Value: 0}
	if err := c.conn.WithContext(ctx).
		Where(models.TransactionCounter{ID: 1}).
		FirstOrCreate(&seed).Error; err != nil {
		return fmt.Errorf("seeding transaction counter: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "schema migration complete")
	}
	return nil
}
