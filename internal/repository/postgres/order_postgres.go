package postgres

import (
	"context"
	"database/sql"
	"strings"

	"stoneapi/internal/model"
	"stoneapi/internal/repository"
)

// OrderPostgres is a PostgreSQL implementation of repository.OrderRepository.
// It uses database/sql with parameterized queries and contains no business
// logic.
type OrderPostgres struct {
	db *sql.DB
}

// NewOrderPostgres creates a new OrderPostgres repository.
func NewOrderPostgres(db *sql.DB) *OrderPostgres {
	return &OrderPostgres{db: db}
}

var _ repository.OrderRepository = (*OrderPostgres)(nil)

const orderColumns = `id, order_number, customer_name, stone_type, pdf_content, extracted_text, upload_date`

// Create inserts a new order row and returns the stored record.
func (r *OrderPostgres) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	const q = `
		INSERT INTO orders (id, order_number, customer_name, stone_type, pdf_content, extracted_text, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + orderColumns
	row := r.db.QueryRowContext(ctx, q,
		order.ID,
		order.OrderNumber,
		order.CustomerName,
		order.StoneType,
		order.PDFContent,
		order.ExtractedText,
		order.UploadDate,
	)
	var out model.Order
	if err := scanOrder(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single order by its ID, including pdf_content.
func (r *OrderPostgres) FindByID(ctx context.Context, id string) (*model.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	row := r.db.QueryRowContext(ctx, q, id)
	var o model.Order
	if err := scanOrder(row, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Per-selector search queries. The selector is mapped to a fixed statement
// rather than interpolated into SQL.
const (
	qSearchOrderNumber = `
		SELECT ` + orderColumns + ` FROM orders
		WHERE order_number ILIKE $1
		ORDER BY upload_date DESC, id DESC
		LIMIT $2`
	qSearchCustomerName = `
		SELECT ` + orderColumns + ` FROM orders
		WHERE customer_name ILIKE $1
		ORDER BY upload_date DESC, id DESC
		LIMIT $2`
	qSearchStoneType = `
		SELECT ` + orderColumns + ` FROM orders
		WHERE stone_type ILIKE $1
		ORDER BY upload_date DESC, id DESC
		LIMIT $2`
	qSearchAll = `
		SELECT ` + orderColumns + ` FROM orders
		WHERE order_number ILIKE $1 OR customer_name ILIKE $1 OR stone_type ILIKE $1
		ORDER BY upload_date DESC, id DESC
		LIMIT $2`
)

// Search runs a case-insensitive substring match over the selected field,
// or over all three fields for model.SearchAll. Any other selector builds
// an empty predicate: no query is issued and no rows are returned.
func (r *OrderPostgres) Search(ctx context.Context, filter repository.SearchFilter) ([]model.Order, error) {
	var q string
	switch filter.Field {
	case model.SearchOrderNumber:
		q = qSearchOrderNumber
	case model.SearchCustomerName:
		q = qSearchCustomerName
	case model.SearchStoneType:
		q = qSearchStoneType
	case model.SearchAll:
		q = qSearchAll
	default:
		return []model.Order{}, nil
	}

	rows, err := r.db.QueryContext(ctx, q, likePattern(filter.Term), filter.Limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// List returns up to limit orders, newest first.
func (r *OrderPostgres) List(ctx context.Context, limit int) ([]model.Order, error) {
	const q = `
		SELECT ` + orderColumns + ` FROM orders
		ORDER BY upload_date DESC, id DESC
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	return collectOrders(rows)
}

// Delete removes an order by ID and reports whether a row existed.
func (r *OrderPostgres) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM orders WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// likePattern wraps term in wildcards and escapes LIKE metacharacters so
// the term always matches as a literal substring.
func likePattern(term string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
	return "%" + escaped + "%"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner, o *model.Order) error {
	return row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerName,
		&o.StoneType,
		&o.PDFContent,
		&o.ExtractedText,
		&o.UploadDate,
	)
}

func collectOrders(rows *sql.Rows) ([]model.Order, error) {
	defer rows.Close()

	orders := make([]model.Order, 0)
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
