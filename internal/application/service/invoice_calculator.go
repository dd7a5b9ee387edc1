package service

import (
	"fmt"

	"github.com/sangkips/invoicing-api/internal/domain/entity"
	"github.com/sangkips/invoicing-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// CalculateLineTotal returns price × quantity using exact decimal arithmetic
func CalculateLineTotal(price decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if !price.IsPositive() {
		return decimal.Zero, apperror.NewInvalidInputError(
			fmt.Sprintf("Line item price must be positive, got %s", price.String()))
	}
	if !entity.FitsMoney(price) {
		return decimal.Zero, apperror.NewInvalidInputError(
			fmt.Sprintf("Line item price %s must have at most %d decimal places and %d integer digits",
				price.String(), entity.MoneyScale, entity.MoneyIntegerDigits))
	}
	if quantity <= 0 {
		return decimal.Zero, apperror.NewInvalidInputError(
			fmt.Sprintf("Line item quantity must be positive, got %d", quantity))
	}
	total := price.Mul(decimal.NewFromInt(int64(quantity)))
	if !entity.FitsMoney(total) {
		return decimal.Zero, apperror.NewInvalidInputError(
			fmt.Sprintf("Line item total %s exceeds %d integer digits", total.String(), entity.MoneyIntegerDigits))
	}
	return total, nil
}

// AggregateAmount sums the total amount of every line item
func AggregateAmount(items []entity.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalAmount.Decimal)
	}
	return total
}

// checkInvoiceAmount rejects an aggregated amount too large to store
func checkInvoiceAmount(amount decimal.Decimal) error {
	if !entity.FitsMoney(amount) {
		return apperror.NewInvalidInputError(
			fmt.Sprintf("Invoice amount %s exceeds %d integer digits", amount.String(), entity.MoneyIntegerDigits))
	}
	return nil
}

// LineItemInput is a caller-supplied line item; its total is always derived
type LineItemInput struct {
	Description string
	Price       decimal.Decimal
	Quantity    int
}

// buildLineItems validates inputs and derives their totals. Positions continue
// from startPosition in input order.
func buildLineItems(inputs []LineItemInput, startPosition int) ([]entity.LineItem, error) {
	if len(inputs) == 0 {
		return nil, apperror.NewInvalidInputError("At least one line item is required")
	}

	items := make([]entity.LineItem, 0, len(inputs))
	for i, in := range inputs {
		if in.Description == "" {
			return nil, apperror.NewInvalidInputError(
				fmt.Sprintf("Line item %d: description is required", i+1))
		}
		total, err := CalculateLineTotal(in.Price, in.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.LineItem{
			Position:    startPosition + i,
			Description: in.Description,
			Price:       entity.NewMoney(in.Price),
			Quantity:    in.Quantity,
			TotalAmount: entity.NewMoney(total),
		})
	}
	return items, nil
}
