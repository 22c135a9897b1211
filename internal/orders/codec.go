package orders

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/safar/go-sql-notes/internal/apperr"
)

// Line is an order line resolved against the catalog. Name and price are a
// snapshot taken when the order was placed.
type Line struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Price     Money  `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal Money  `json:"total"`
}

// Record is the structured payload stored in a note's content.
type Record struct {
	Items       []Line     `json:"order_items"`
	TotalAmount Money      `json:"total_amount"`
	Status      Status     `json:"status"`
	OrderDate   time.Time  `json:"order_date"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

var (
	errNoLines       = errors.New("order must contain at least one line")
	errTotalMismatch = errors.New("total does not match the sum of line totals")
)

// Encode serializes a new PENDING order placed at the given time.
func Encode(lines []Line, total Money, at time.Time) (string, error) {
	if len(lines) == 0 {
		return "", errNoLines
	}
	if !SumLines(lines).Equal(total) {
		return "", fmt.Errorf("encode order: %w", errTotalMismatch)
	}

	data, err := json.Marshal(Record{
		Items:       lines,
		TotalAmount: total,
		Status:      StatusPending,
		OrderDate:   at.UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}
	return string(data), nil
}

// Decode returns nil for anything that is not a complete order record:
// unparseable text, a missing or empty order_items array, or a missing
// total_amount. Keys must match exactly; ORDER_ITEMS is not order_items.
// A zero total is still a total, but an explicit null counts as missing.
func Decode(raw string) *Record {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil
	}

	itemsRaw, ok := fields["order_items"]
	if !ok {
		return nil
	}
	totalRaw, ok := fields["total_amount"]
	if !ok || isNull(totalRaw) {
		return nil
	}

	var record Record
	if err := json.Unmarshal(itemsRaw, &record.Items); err != nil || len(record.Items) == 0 {
		return nil
	}
	if err := json.Unmarshal(totalRaw, &record.TotalAmount); err != nil {
		return nil
	}
	if !decodeOptional(fields, "status", &record.Status) ||
		!decodeOptional(fields, "order_date", &record.OrderDate) ||
		!decodeOptional(fields, "updated_at", &record.UpdatedAt) {
		return nil
	}
	return &record
}

// decodeOptional reports false only when key is present and malformed.
func decodeOptional(fields map[string]json.RawMessage, key string, dst any) bool {
	value, ok := fields[key]
	if !ok {
		return true
	}
	return json.Unmarshal(value, dst) == nil
}

func isNull(value json.RawMessage) bool {
	return string(bytes.TrimSpace(value)) == "null"
}

// IsOrder reports whether raw content holds an order rather than free text.
func IsOrder(raw string) bool {
	return Decode(raw) != nil
}

// UpdateStatus rewrites status and updated_at of a stored order. Every other
// field, including keys this package does not know about, is carried over
// as stored.
func UpdateStatus(raw string, status Status, at time.Time) (string, error) {
	if !IsOrder(raw) {
		return "", apperr.ErrNotAnOrder
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return "", apperr.ErrNotAnOrder
	}

	statusJSON, err := json.Marshal(status)
	if err != nil {
		return "", fmt.Errorf("marshal status: %w", err)
	}
	updatedJSON, err := json.Marshal(at.UTC())
	if err != nil {
		return "", fmt.Errorf("marshal updated_at: %w", err)
	}
	fields["status"] = statusJSON
	fields["updated_at"] = updatedJSON

	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode order: %w", err)
	}
	return string(data), nil
}
