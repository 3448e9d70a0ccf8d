package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column names of the sales extract schema. The order matches the header row
// of every source file.
const (
	ColumnOrderID         = "Order ID"
	ColumnProduct         = "Product"
	ColumnQuantityOrdered = "Quantity Ordered"
	ColumnPriceEach       = "Price Each"
	ColumnOrderDate       = "Order Date"
	ColumnPurchaseAddress = "Purchase Address"

	// Derived columns added by augmentation
	ColumnMonth  = "Month"
	ColumnDate   = "Date"
	ColumnHour   = "Hour"
	ColumnMinute = "Minute"
	ColumnSales  = "Sales"
	ColumnCity   = "City"
	ColumnState  = "State"

	// ColumnCount is the number of rows in a group; it is not a stored column.
	ColumnCount = "Count"
)

// OrderDateLayout is the fixed layout of the Order Date column (MM/DD/YY HH:MM).
const OrderDateLayout = "01/02/06 15:04"

// CheckpointDateLayout is how parsed order dates are written to the cleaned checkpoint.
const CheckpointDateLayout = "2006-01-02 15:04:05"

// DateLayout is the layout of the derived Date column.
const DateLayout = "2006-01-02"

// Header is the exact header row every source file must carry.
var Header = []string{
	ColumnOrderID,
	ColumnProduct,
	ColumnQuantityOrdered,
	ColumnPriceEach,
	ColumnOrderDate,
	ColumnPurchaseAddress,
}

// Source identifies where a raw row came from.
type Source struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

// RawOrderLine is one row exactly as read from a source file. A field is
// missing when it is empty after trimming whitespace.
type RawOrderLine struct {
	OrderID         string
	Product         string
	QuantityOrdered string
	PriceEach       string
	OrderDate       string
	PurchaseAddress string

	Source Source
}

// NewRawOrderLine builds a raw line from a six-field CSV record.
func NewRawOrderLine(record []string, src Source) RawOrderLine {
	return RawOrderLine{
		OrderID:         record[0],
		Product:         record[1],
		QuantityOrdered: record[2],
		PriceEach:       record[3],
		OrderDate:       record[4],
		PurchaseAddress: record[5],
		Source:          src,
	}
}

// Fields returns the values in header order.
func (r RawOrderLine) Fields() []string {
	return []string{r.OrderID, r.Product, r.QuantityOrdered, r.PriceEach, r.OrderDate, r.PurchaseAddress}
}

// Field returns the value of the named column.
func (r RawOrderLine) Field(column string) (string, bool) {
	switch column {
	case ColumnOrderID:
		return r.OrderID, true
	case ColumnProduct:
		return r.Product, true
	case ColumnQuantityOrdered:
		return r.QuantityOrdered, true
	case ColumnPriceEach:
		return r.PriceEach, true
	case ColumnOrderDate:
		return r.OrderDate, true
	case ColumnPurchaseAddress:
		return r.PurchaseAddress, true
	}
	return "", false
}

// RawTable is the merged, uncleaned dataset.
type RawTable struct {
	Rows  []RawOrderLine
	Files []string
}

// Len returns the number of rows.
func (t RawTable) Len() int { return len(t.Rows) }

// OrderLine is a cleaned, typed order line.
type OrderLine struct {
	OrderID         string          `json:"order_id" validate:"required"`
	Product         string          `json:"product" validate:"required"`
	QuantityOrdered int64           `json:"quantity_ordered" validate:"gte=0"`
	PriceEach       decimal.Decimal `json:"price_each" validate:"gte=0"`
	OrderDate       time.Time       `json:"order_date" validate:"required"`
	PurchaseAddress string          `json:"purchase_address" validate:"required"`

	Source Source `json:"-" validate:"-"`
}

// Sales is quantity times unit price. It is computed on every call.
func (o OrderLine) Sales() decimal.Decimal {
	return decimal.NewFromInt(o.QuantityOrdered).Mul(o.PriceEach)
}

// CleanTable is the output of cleaning.
type CleanTable struct {
	Rows []OrderLine
}

// Len returns the number of rows.
func (t CleanTable) Len() int { return len(t.Rows) }

// AugmentedOrderLine carries the derived calendar and geographic columns.
type AugmentedOrderLine struct {
	OrderLine

	Month  int    `json:"month"`
	Date   string `json:"date"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	City   string `json:"city,omitempty"`
	State  string `json:"state,omitempty"`
}

// AugmentedTable is the in-memory dataset used for reporting.
type AugmentedTable struct {
	Rows []AugmentedOrderLine
}

// Len returns the number of rows.
func (t AugmentedTable) Len() int { return len(t.Rows) }
