package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderReady      OrderStatus = "READY"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderRejected   OrderStatus = "REJECTED"
)

var orderStatuses = []OrderStatus{
	OrderPending,
	OrderInProgress,
	OrderReady,
	OrderCompleted,
	OrderRejected,
}

// OrderStatuses lists every valid status.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(orderStatuses))
	copy(out, orderStatuses)
	return out
}

// ParseOrderStatus accepts only exact enum members; any status may follow any other.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range orderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	statuses := OrderStatuses()
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	return "", InvalidRequest(fmt.Sprintf("invalid status, expected one of %s", strings.Join(names, ", ")))
}

// OrderLine is the snapshot stored in the order's items blob.
type OrderLine struct {
	ID       int64  `json:"id"`
	CardName string `json:"card_name"`
	Quantity int    `json:"quantity"`
}

type Order struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	ContactInfo  string          `json:"contact_info"`
	Items        []OrderLine     `json:"items"`
	Total        decimal.Decimal `json:"total"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// totals are stored as numeric(12,2)
const totalScale = 2

var maxTotal = decimal.New(1, 10)

// PlaceOrderCommand is a validated request to buy Items.
type PlaceOrderCommand struct {
	CustomerName   string
	ContactInfo    string
	Items          []OrderLine
	Total          *decimal.Decimal
	IdempotencyKey string
}

func (c PlaceOrderCommand) Validate() error {
	if strings.TrimSpace(c.CustomerName) == "" {
		return InvalidRequest("customer_name is required")
	}
	if len(c.Items) == 0 {
		return InvalidRequest("items must be a non-empty list")
	}
	for i, it := range c.Items {
		if it.ID <= 0 {
			return InvalidRequest(fmt.Sprintf("items[%d].id must be a positive integer", i))
		}
		if it.Quantity <= 0 {
			return InvalidRequest(fmt.Sprintf("items[%d].quantity must be greater than zero", i))
		}
	}
	if c.Total == nil {
		return InvalidRequest("total is required")
	}
	if c.Total.IsNegative() {
		return InvalidRequest("total cannot be negative")
	}
	if !c.Total.Equal(c.Total.Round(totalScale)) {
		return InvalidRequest("total cannot have more than 2 decimal places")
	}
	if c.Total.GreaterThanOrEqual(maxTotal) {
		return InvalidRequest("total is too large")
	}
	return nil
}

// LockOrder returns the indexes of lines sorted by inventory id so every
// transaction takes row locks in the same global order. Lines with the same id
// keep their relative order.
func LockOrder(lines []OrderLine) []int {
	idx := make([]int, len(lines))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return lines[idx[a]].ID < lines[idx[b]].ID
	})
	return idx
}
