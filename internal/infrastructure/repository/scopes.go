package repository

import (
	"context"
	"strings"

	domainRepo "github.com/sangkips/invoicing-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ctxKey string

// txKey is the context key for the active transaction
const txKey ctxKey = "gorm_tx"

// conn returns the transaction carried by ctx, or db when there is none.
// Every repository goes through it so calls made inside
// Transactor.WithinTransaction share one transaction.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

// ForUpdate locks the selected rows until the transaction ends.
// SQLite has no row locks; its single-writer connection serialises instead.
func ForUpdate() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector.Name() == "sqlite" {
			return db
		}
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
}

// OrderBy applies a whitelisted sort column with a direction
func OrderBy(sortBy, sortOrder string, allowed map[string]string, fallback string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		column, ok := allowed[sortBy]
		if !ok {
			column = fallback
		}
		direction := "DESC"
		if strings.EqualFold(sortOrder, "asc") {
			direction = "ASC"
		}
		return db.Order(column + " " + direction)
	}
}

type transactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor backed by db
func NewTransactor(db *gorm.DB) domainRepo.Transactor {
	return &transactor{db: db}
}

func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok && tx != nil {
		// already inside a transaction; join it
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}
