package orders

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safar/go-sql-notes/internal/apperr"
)

var placedAt = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func sampleLines() []Line {
	return []Line{
		{ProductID: 101, Name: "Latte", Price: NewMoney(decimal.RequireFromString("15.00")), Quantity: 2, LineTotal: LineTotal(decimal.RequireFromString("15.00"), 2)},
		{ProductID: 102, Name: "Cookie", Price: NewMoney(decimal.RequireFromString("3.00")), Quantity: 1, LineTotal: LineTotal(decimal.RequireFromString("3.00"), 1)},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	lines := sampleLines()
	total := SumLines(lines)

	raw, err := Encode(lines, total, placedAt)
	require.NoError(t, err)

	record := Decode(raw)
	require.NotNil(t, record)
	assert.Equal(t, StatusPending, record.Status)
	assert.True(t, record.OrderDate.Equal(placedAt))
	assert.Nil(t, record.UpdatedAt)
	assert.Equal(t, "33.00", record.TotalAmount.StringFixed(2))
	require.Len(t, record.Items, 2)
	for i, line := range lines {
		got := record.Items[i]
		assert.Equal(t, line.ProductID, got.ProductID)
		assert.Equal(t, line.Name, got.Name)
		assert.Equal(t, line.Quantity, got.Quantity)
		assert.True(t, line.Price.Equal(got.Price))
		assert.True(t, line.LineTotal.Equal(got.LineTotal))
	}

	again, err := Encode(record.Items, record.TotalAmount, placedAt)
	require.NoError(t, err)
	assert.JSONEq(t, raw, again)
}

func TestEncodeWireFormat(t *testing.T) {
	raw, err := Encode(sampleLines()[:1], NewMoney(decimal.RequireFromString("30")), placedAt)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"order_items": [{"productId": 101, "name": "Latte", "price": 15.00, "quantity": 2, "total": 30.00}],
		"total_amount": 30.00,
		"status": "PENDING",
		"order_date": "2024-05-01T12:30:00Z"
	}`, raw)
	assert.Contains(t, raw, `"total_amount":30.00`)
}

func TestEncodeRejectsBrokenInvariants(t *testing.T) {
	_, err := Encode(nil, NewMoney(decimal.Zero), placedAt)
	assert.ErrorIs(t, err, errNoLines)

	_, err = Encode(sampleLines(), NewMoney(decimal.RequireFromString("99.99")), placedAt)
	assert.ErrorIs(t, err, errTotalMismatch)
}

func TestIsOrder(t *testing.T) {
	encoded, err := Encode(sampleLines(), SumLines(sampleLines()), placedAt)
	require.NoError(t, err)

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"encoded order", encoded, true},
		{"zero total counts as present", `{"order_items":[{"productId":1}],"total_amount":0}`, true},
		{"quoted total", `{"order_items":[{"productId":1}],"total_amount":"12.50"}`, true},
		{"unknown status tolerated", `{"order_items":[{"productId":1}],"total_amount":1,"status":"SHIPPED"}`, true},
		{"plain text", "buy milk tomorrow", false},
		{"empty content", "", false},
		{"json null", "null", false},
		{"json array", `[{"order_items":[]}]`, false},
		{"json string", `"order_items"`, false},
		{"missing total_amount", `{"order_items":[{"productId":1}]}`, false},
		{"null total_amount", `{"order_items":[{"productId":1}],"total_amount":null}`, false},
		{"missing order_items", `{"total_amount":10}`, false},
		{"empty order_items", `{"order_items":[],"total_amount":10}`, false},
		{"order_items not an array", `{"order_items":{"productId":1},"total_amount":10}`, false},
		{"upper case keys", `{"ORDER_ITEMS":[{"productId":1}],"TOTAL_AMOUNT":5}`, false},
		{"mixed case keys", `{"Order_Items":[{"productId":1}],"Total_Amount":5}`, false},
		{"mixed case total only", `{"order_items":[{"productId":1}],"Total_Amount":5}`, false},
		{"malformed order_date", `{"order_items":[{"productId":1}],"total_amount":5,"order_date":"yesterday"}`, false},
		{"truncated json", `{"order_items":[{"productId":1}],"total_amount":`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOrder(tt.content))
		})
	}
}

func TestUpdateStatusPreservesRecord(t *testing.T) {
	lines := sampleLines()
	raw, err := Encode(lines, SumLines(lines), placedAt)
	require.NoError(t, err)

	updatedAt := placedAt.Add(2 * time.Hour)
	updated, err := UpdateStatus(raw, StatusReady, updatedAt)
	require.NoError(t, err)

	record := Decode(updated)
	require.NotNil(t, record)
	assert.Equal(t, StatusReady, record.Status)
	require.NotNil(t, record.UpdatedAt)
	assert.True(t, record.UpdatedAt.Equal(updatedAt))
	assert.True(t, record.OrderDate.Equal(placedAt))

	var before, after map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &before))
	require.NoError(t, json.Unmarshal([]byte(updated), &after))
	assert.JSONEq(t, string(before["order_items"]), string(after["order_items"]))
	assert.Equal(t, string(before["total_amount"]), string(after["total_amount"]))
}

func TestUpdateStatusKeepsUnknownFields(t *testing.T) {
	raw := `{"order_items":[{"productId":1,"name":"Tea","price":2.50,"quantity":1,"total":2.50}],"total_amount":2.50,"status":"PENDING","note":"leave at door"}`

	updated, err := UpdateStatus(raw, StatusCancelled, placedAt)
	require.NoError(t, err)
	assert.Contains(t, updated, `"note":"leave at door"`)
	assert.Contains(t, updated, `"status":"CANCELLED"`)
	assert.Contains(t, updated, `"total_amount":2.50`)
}

func TestUpdateStatusRejectsPlainNote(t *testing.T) {
	_, err := UpdateStatus("remember the milk", StatusReady, placedAt)
	assert.ErrorIs(t, err, apperr.ErrNotAnOrder)
}

func TestUpdateStatusRejectsUpperCaseKeys(t *testing.T) {
	_, err := UpdateStatus(`{"ORDER_ITEMS":[{"productId":1}],"TOTAL_AMOUNT":5}`, StatusReady, placedAt)
	assert.ErrorIs(t, err, apperr.ErrNotAnOrder)
}

func TestLineTotalRoundsHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "0.02", LineTotal(decimal.RequireFromString("0.005"), 3).StringFixed(2))
	assert.Equal(t, "0.01", LineTotal(decimal.RequireFromString("0.005"), 1).StringFixed(2))
	assert.Equal(t, "10.00", LineTotal(decimal.RequireFromString("3.333"), 3).StringFixed(2))
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "IN_PROGRESS", "READY", "DELIVERED", "CANCELLED"} {
		status, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, Status(s), status)
	}

	for _, s := range []string{"SHIPPED", "pending", "", " READY"} {
		_, err := ParseStatus(s)
		var verr *apperr.ValidationError
		assert.ErrorAs(t, err, &verr, s)
	}
}
