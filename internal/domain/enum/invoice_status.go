package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// InvoiceStatus represents the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending       InvoiceStatus = "PENDING"
	InvoiceStatusPartiallyPaid InvoiceStatus = "PARTIALLY_PAID"
	InvoiceStatusPaid          InvoiceStatus = "PAID"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

// IsValid reports whether s is one of the known statuses
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartiallyPaid, InvoiceStatusPaid:
		return true
	}
	return false
}

// IsSettled reports whether no further payments or line items are accepted
func (s InvoiceStatus) IsSettled() bool {
	return s == InvoiceStatusPaid
}

// ParseInvoiceStatus parses a status case-insensitively
func ParseInvoiceStatus(str string) (InvoiceStatus, error) {
	s := InvoiceStatus(strings.ToUpper(strings.TrimSpace(str)))
	if !s.IsValid() {
		return "", fmt.Errorf("unknown invoice status %q", str)
	}
	return s, nil
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseInvoiceStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusPending
		return nil
	}
	switch v := value.(type) {
	case string:
		*s = InvoiceStatus(v)
	case []byte:
		*s = InvoiceStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into InvoiceStatus", value)
	}
	return nil
}
