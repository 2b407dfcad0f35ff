package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domorder "example.com/loja/internal/domain/order"
	domprice "example.com/loja/internal/domain/pricing"
	domproduct "example.com/loja/internal/domain/product"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

func (r *OrderRepository) CreateFromItems(ctx context.Context, o *domorder.Order) (_ *domorder.Order, retErr error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	subtotal := decimal.Zero
	orderItems := make([]domorder.OrderItem, 0, len(o.Items))

	for _, item := range o.Items {
		var (
			title string
			price string
			stock int64
		)
		err = tx.QueryRow(ctx, `
            SELECT title, price::text, stock
            FROM products
            WHERE id = $1
            FOR UPDATE
        `, item.ProductID).Scan(&title, &price, &stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domorder.Rejected(domproduct.Unavailable(item.ProductID, domproduct.ErrProductNotFound))
			}
			return nil, err
		}
		if stock < item.Quantity {
			return nil, domorder.Rejected(domproduct.Unavailable(item.ProductID, domproduct.ErrOutOfStock))
		}

		unit, err := parseDecimal(price)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(domprice.LineTotal(unit, item.Quantity))
		orderItems = append(orderItems, domorder.OrderItem{
			ProductID: item.ProductID,
			Name:      title,
			Price:     unit,
			Quantity:  item.Quantity,
		})
	}

	totals := domprice.Compute(subtotal)
	c := o.Customer

	_, err = tx.Exec(ctx, `
        INSERT INTO orders (id, customer_name, customer_email, customer_phone, address, city, state, zip, notes,
                            subtotal, shipping, total, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11::numeric, $12::numeric, $13, $14)
    `, o.ID, c.Name, c.Email, c.Phone, c.Address, c.City, c.State, c.Zip, c.Notes,
		totals.Subtotal.String(), totals.Shipping.String(), totals.Total.String(), string(o.Status), o.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, item := range orderItems {
		_, err = tx.Exec(ctx, `
            INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
            VALUES ($1, $2, $3, $4::numeric, $5)
        `, o.ID, item.ProductID, item.Name, item.Price.String(), item.Quantity)
		if err != nil {
			return nil, err
		}
		_, err = tx.Exec(ctx, `UPDATE products SET stock = stock - $1 WHERE id = $2`, item.Quantity, item.ProductID)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, err
	}

	created := *o
	created.Items = orderItems
	created.Totals = totals
	return &created, nil
}

const orderColumns = `id, customer_name, customer_email, customer_phone, address, city, state, zip, notes,
               subtotal::text, shipping::text, total::text, status, created_at`

func scanOrder(row rowScanner) (*domorder.Order, error) {
	var (
		o                         domorder.Order
		status                    string
		subtotal, shipping, total string
	)
	c := &o.Customer
	if err := row.Scan(&o.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.State, &c.Zip, &c.Notes,
		&subtotal, &shipping, &total, &status, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Status = domorder.Status(status)

	var err error
	if o.Totals.Subtotal, err = parseDecimal(subtotal); err != nil {
		return nil, err
	}
	if o.Totals.Shipping, err = parseDecimal(shipping); err != nil {
		return nil, err
	}
	if o.Totals.Total, err = parseDecimal(total); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
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
		if o.Items, err = r.listOrderItems(ctx, o.ID); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	if o.Items, err = r.listOrderItems(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) listOrderItems(ctx context.Context, orderID string) ([]domorder.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT product_id, product_name, unit_price::text, quantity
        FROM order_items WHERE order_id = $1
        ORDER BY id
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.OrderItem
	for rows.Next() {
		var (
			item  domorder.OrderItem
			price string
		)
		if err := rows.Scan(&item.ProductID, &item.Name, &price, &item.Quantity); err != nil {
			return nil, err
		}
		if item.Price, err = parseDecimal(price); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
