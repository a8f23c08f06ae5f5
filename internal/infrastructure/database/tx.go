package database

import (
	interfaces "activity-registration/internal/interfaces/infrastructure"
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

var _ interfaces.TransactionManager = (*GormTransactionManager)(nil)

// GormTransactionManager runs a callback inside a gorm transaction and makes
// the transaction handle available to repositories through the context.
// Row locks taken inside the callback (SELECT ... FOR UPDATE) are held until
// commit or rollback.
type GormTransactionManager struct {
	db *gorm.DB
}

func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

func (m *GormTransactionManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	// Nested calls join the transaction already in flight.
	if tx := txFromContext(ctx); tx != nil {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func txFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// DBFromContext returns the transaction bound to ctx, or falls back to the
// base handle. Repositories route every query through this so the same code
// works inside and outside a transaction.
func DBFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return fallback.WithContext(ctx)
}
