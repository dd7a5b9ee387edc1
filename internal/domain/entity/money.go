package entity

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	// MoneyScale is the number of fractional digits a stored amount keeps
	MoneyScale = 4
	// MoneyIntegerDigits is the number of integer digits a stored amount keeps
	MoneyIntegerDigits = 14
)

var moneyLimit = decimal.New(1, MoneyIntegerDigits)

// Money is an exact decimal amount persisted as numeric(18,4).
// SQLite keeps it as TEXT; its NUMERIC affinity would convert the value to a float.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps d for storage
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// GormDBDataType picks the column type for the connected dialect
func (Money) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return "numeric(18,4)"
}

// FitsMoney reports whether d is storable as Money without rounding
func FitsMoney(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(MoneyScale)) && d.Abs().LessThan(moneyLimit)
}
