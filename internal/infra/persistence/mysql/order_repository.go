package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	domorder "example.com/loja/internal/domain/order"
	domprice "example.com/loja/internal/domain/pricing"
	domproduct "example.com/loja/internal/domain/product"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) CreateFromItems(ctx context.Context, o *domorder.Order) (_ *domorder.Order, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	subtotal := decimal.Zero
	orderItems := make([]domorder.OrderItem, 0, len(o.Items))

	for _, item := range o.Items {
		var (
			title string
			price decimal.Decimal
			stock int64
		)

		row := tx.QueryRowContext(ctx, `
            SELECT title, price, stock
            FROM products
            WHERE id = ?
            FOR UPDATE
        `, item.ProductID)
		if err = row.Scan(&title, &price, &stock); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, domorder.Rejected(domproduct.Unavailable(item.ProductID, domproduct.ErrProductNotFound))
			}
			return nil, err
		}

		if stock < item.Quantity {
			return nil, domorder.Rejected(domproduct.Unavailable(item.ProductID, domproduct.ErrOutOfStock))
		}

		subtotal = subtotal.Add(domprice.LineTotal(price, item.Quantity))
		orderItems = append(orderItems, domorder.OrderItem{
			ProductID: item.ProductID,
			Name:      title,
			Price:     price,
			Quantity:  item.Quantity,
		})
	}

	totals := domprice.Compute(subtotal)
	c := o.Customer

	_, err = tx.ExecContext(ctx, `
        INSERT INTO orders (id, customer_name, customer_email, customer_phone, address, city, state, zip, notes,
                            subtotal, shipping, total, status, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, o.ID, c.Name, c.Email, c.Phone, c.Address, c.City, c.State, c.Zip, c.Notes,
		totals.Subtotal, totals.Shipping, totals.Total, o.Status, o.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, item := range orderItems {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
            VALUES (?, ?, ?, ?, ?)
        `, o.ID, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `
            UPDATE products SET stock = stock - ?
            WHERE id = ?
        `, item.Quantity, item.ProductID)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	created := *o
	created.Items = orderItems
	created.Totals = totals
	return &created, nil
}

const orderColumns = `id, customer_name, customer_email, customer_phone, address, city, state, zip, notes,
               subtotal, shipping, total, status, created_at`

func scanOrder(row rowScanner) (*domorder.Order, error) {
	var o domorder.Order
	c := &o.Customer
	if err := row.Scan(&o.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.Zip, &c.Notes,
		&o.Totals.Subtotal, &o.Totals.Shipping, &o.Totals.Total, &o.Status, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+orderColumns+`
        FROM orders
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.listOrderItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT `+orderColumns+`
        FROM orders WHERE id = ?
    `, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	items, err := r.listOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) listOrderItems(ctx context.Context, orderID string) ([]domorder.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT product_id, product_name, unit_price, quantity
        FROM order_items WHERE order_id = ?
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.OrderItem
	for rows.Next() {
		var item domorder.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
