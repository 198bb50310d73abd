package models

import "fmt"

/*
LOAD → one order row as read from the CSV file or the orders table.
*/

// Category is one of the eight product families an order's value is split across.
type Category int

const (
	Food Category = iota
	Fresh
	Drinks
	Home
	Beauty
	Health
	Baby
	Pets
)

// NumCategories is the number of category share columns on an order.
const NumCategories = 8

// Categories lists every category in report order.
var Categories = [NumCategories]Category{Food, Fresh, Drinks, Home, Beauty, Health, Baby, Pets}

var categoryNames = [NumCategories]string{"Food", "Fresh", "Drinks", "Home", "Beauty", "Health", "Baby", "Pets"}

func (c Category) String() string {
	if c < 0 || int(c) >= NumCategories {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// Column returns the CSV header of the category share, e.g. "Food%".
func (c Category) Column() string {
	return c.String() + "%"
}

// Order is a single purchase. Category shares are percentages (0–100) of the order value.
type Order struct {
	ID         string // "order" column, optional
	Customer   string
	TotalItems float64 // "total_items" column, optional
	Discount   float64 // discount%
	Weekday    int     // 1=Monday … 7=Sunday
	Hour       int     // 0–23
	Categories [NumCategories]float64
}

// Share returns the order's percentage for category c.
func (o Order) Share(c Category) float64 {
	return o.Categories[c]
}

// ShareSum is the sum of the eight category percentages (≈100 on clean data).
func (o Order) ShareSum() float64 {
	var s float64
	for _, v := range o.Categories {
		s += v
	}
	return s
}

// Value reads a numeric column of the order.
func (o Order) Value(col Column) float64 {
	switch {
	case col == ColDiscount:
		return o.Discount
	case col == ColWeekday:
		return float64(o.Weekday)
	case col == ColHour:
		return float64(o.Hour)
	case col == ColTotalItems:
		return o.TotalItems
	case col.IsCategory():
		return o.Categories[col.Category()]
	}
	return 0
}

// Column identifies a numeric order column for predicates and aggregates.
type Column int

const (
	ColDiscount Column = iota
	ColWeekday
	ColHour
	ColTotalItems
	// category columns follow, one per Category, starting at colCategoryBase
	colCategoryBase
)

// CategoryColumn returns the Column holding category c's share.
func CategoryColumn(c Category) Column {
	return colCategoryBase + Column(c)
}

// CategoryColumns returns the eight category share columns in report order.
func CategoryColumns() []Column {
	cols := make([]Column, 0, NumCategories)
	for _, c := range Categories {
		cols = append(cols, CategoryColumn(c))
	}
	return cols
}

// IsCategory reports whether col is a category share column.
func (col Column) IsCategory() bool {
	return col >= colCategoryBase && col < colCategoryBase+NumCategories
}

// Category returns the category of a share column. Only valid when IsCategory is true.
func (col Column) Category() Category {
	return Category(col - colCategoryBase)
}

func (col Column) String() string {
	switch {
	case col == ColDiscount:
		return HeaderDiscount
	case col == ColWeekday:
		return HeaderWeekday
	case col == ColHour:
		return HeaderHour
	case col == ColTotalItems:
		return HeaderTotalItems
	case col.IsCategory():
		return col.Category().Column()
	}
	return fmt.Sprintf("Column(%d)", int(col))
}

// ParseColumn maps a header name back to its Column.
func ParseColumn(name string) (Column, error) {
	switch name {
	case HeaderDiscount:
		return ColDiscount, nil
	case HeaderWeekday:
		return ColWeekday, nil
	case HeaderHour:
		return ColHour, nil
	case HeaderTotalItems:
		return ColTotalItems, nil
	}
	for _, c := range Categories {
		if c.Column() == name {
			return CategoryColumn(c), nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", name)
}

/*
SCHEMA → header names. Casing is significant.
*/

const (
	HeaderOrder      = "order"
	HeaderCustomer   = "customer"
	HeaderTotalItems = "total_items"
	HeaderDiscount   = "discount%"
	HeaderWeekday    = "weekday"
	HeaderHour       = "hour"
)

// RequiredColumns is the header set every order source must provide.
var RequiredColumns = []string{
	HeaderCustomer, HeaderDiscount, HeaderWeekday, HeaderHour,
	"Food%", "Fresh%", "Drinks%", "Home%", "Beauty%", "Health%", "Baby%", "Pets%",
}

// MissingColumns returns the required columns absent from header, in RequiredColumns order.
func MissingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, c := range RequiredColumns {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

/*
TABLE → immutable in-memory order table, built once per run.
*/

// Table holds every loaded order. It is never mutated after construction.
type Table struct {
	source string
	orders []Order
}

// NewTable copies orders into a new immutable table.
func NewTable(source string, orders []Order) *Table {
	cp := make([]Order, len(orders))
	copy(cp, orders)
	return &Table{source: source, orders: cp}
}

// Source is the file path or table name the orders came from.
func (t *Table) Source() string { return t.source }

// Len is the number of orders.
func (t *Table) Len() int { return len(t.orders) }

// At returns order i.
func (t *Table) At(i int) Order { return t.orders[i] }

// Orders returns a copy of all orders.
func (t *Table) Orders() []Order {
	cp := make([]Order, len(t.orders))
	copy(cp, t.orders)
	return cp
}
