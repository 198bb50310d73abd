// Package loader reads the Ulabox order CSV into an immutable models.Table.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"

	"ulabox-report/pkg/logging"
	"ulabox-report/pkg/models"
)

// Option configures a load.
type Option func(*options)

type options struct {
	delimiter rune
	progress  bool
}

// WithDelimiter sets the field separator (default ',').
func WithDelimiter(r rune) Option {
	return func(o *options) { o.delimiter = r }
}

// WithProgress shows a byte progress bar on stderr while reading a file.
func WithProgress(enabled bool) Option {
	return func(o *options) { o.progress = enabled }
}

func applyOptions(opts []Option) *options {
	o := &options{delimiter: ','}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LoadFile opens path and loads every order. Any failure is a *models.DataLoadError.
func LoadFile(path string, opts ...Option) (*models.Table, error) {
	o := applyOptions(opts)

	f, err := os.Open(path)
	if err != nil {
		return nil, &models.DataLoadError{Source: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if o.progress {
		if st, err := f.Stat(); err == nil {
			bar := progressbar.DefaultBytes(st.Size(), "loading orders")
			defer bar.Close()
			r = io.TeeReader(f, bar)
		}
	}

	t, err := load(r, path, o)
	if err != nil {
		return nil, err
	}
	logging.Info().Str("source", path).Int("orders", t.Len()).Msg("Orders loaded")
	return t, nil
}

// Load reads orders from r; name labels the source in errors.
func Load(r io.Reader, name string, opts ...Option) (*models.Table, error) {
	return load(r, name, applyOptions(opts))
}

func load(r io.Reader, name string, o *options) (*models.Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = o.delimiter
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = fmt.Errorf("%w: no header row", models.ErrSchemaMismatch)
		}
		return nil, &models.DataLoadError{Source: name, Line: 1, Err: err}
	}
	parser, err := NewRowParser(name, header)
	if err != nil {
		return nil, err
	}

	var orders []models.Order
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				line = pe.Line
			}
			return nil, &models.DataLoadError{Source: name, Line: line, Err: err}
		}
		line, _ := reader.FieldPos(0)

		o, err := parser.Parse(row)
		if err != nil {
			return nil, &models.DataLoadError{Source: name, Line: line, Err: err}
		}
		orders = append(orders, o)
	}

	logging.Debug().Str("source", name).Int("rows", len(orders)).Msg("Parsed order rows")
	return models.NewTable(name, orders), nil
}

// RowParser turns string fields into orders using the positions found in a header.
// Optional columns are -1 when absent.
type RowParser struct {
	order, customer, totalItems, discount, weekday, hour int
	categories                                          [models.NumCategories]int
	width                                               int
}

// NewRowParser validates header against models.RequiredColumns and indexes it.
// A missing column yields a *models.DataLoadError wrapping models.ErrSchemaMismatch.
func NewRowParser(name string, header []string) (*RowParser, error) {
	pos := make(map[string]int, len(header))
	clean := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		clean[i] = h
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	if missing := models.MissingColumns(clean); len(missing) > 0 {
		return nil, models.NewSchemaError(name, missing)
	}

	lookup := func(col string) int {
		if i, ok := pos[col]; ok {
			return i
		}
		return -1
	}
	idx := &RowParser{
		order:      lookup(models.HeaderOrder),
		customer:   lookup(models.HeaderCustomer),
		totalItems: lookup(models.HeaderTotalItems),
		discount:   lookup(models.HeaderDiscount),
		weekday:    lookup(models.HeaderWeekday),
		hour:       lookup(models.HeaderHour),
		width:      len(header),
	}
	for _, c := range models.Categories {
		idx.categories[c] = lookup(c.Column())
	}
	return idx, nil
}

// Parse converts one row. The row must have at least as many fields as the header.
func (idx *RowParser) Parse(row []string) (models.Order, error) {
	var (
		o   models.Order
		err error
	)
	if len(row) < idx.width {
		return o, fmt.Errorf("expected %d fields, got %d", idx.width, len(row))
	}
	field := func(i int) string { return strings.TrimSpace(row[i]) }

	o.Customer = field(idx.customer)
	if o.Customer == "" {
		return o, fmt.Errorf("empty %s", models.HeaderCustomer)
	}
	if idx.order >= 0 {
		o.ID = field(idx.order)
	}
	if idx.totalItems >= 0 {
		if o.TotalItems, err = parseFloat(models.HeaderTotalItems, field(idx.totalItems)); err != nil {
			return o, err
		}
	}
	if o.Discount, err = parseFloat(models.HeaderDiscount, field(idx.discount)); err != nil {
		return o, err
	}
	if o.Weekday, err = parseInt(models.HeaderWeekday, field(idx.weekday)); err != nil {
		return o, err
	}
	if o.Hour, err = parseInt(models.HeaderHour, field(idx.hour)); err != nil {
		return o, err
	}
	for _, c := range models.Categories {
		if o.Categories[c], err = parseFloat(c.Column(), field(idx.categories[c])); err != nil {
			return o, err
		}
	}
	return o, nil
}

func parseFloat(col, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: invalid number %q", col, s)
	}
	return v, nil
}

func parseInt(col, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %s: invalid integer %q", col, s)
	}
	return v, nil
}
