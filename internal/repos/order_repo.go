package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"samtech/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type orderRow struct {
	ID               string          `db:"id"`
	UserID           string          `db:"user_id"`
	TotalAmount      decimal.Decimal `db:"total_amount"`
	Status           string          `db:"status"`
	DeliveryLocation string          `db:"delivery_location"`
	PhoneNumber      string          `db:"phone_number"`
	CreatedAt        int64           `db:"created_at"`
	UpdatedAt        int64           `db:"updated_at"`
}

type orderItemRow struct {
	OrderID        string                 `db:"order_id"`
	Position       int                    `db:"position"`
	ProductID      string                 `db:"product_id"`
	Qty            int                    `db:"qty"`
	Title          string                 `db:"title"`
	Description    string                 `db:"description"`
	Images         jsonList[domain.Image] `db:"images_json"`
	Price          decimal.Decimal        `db:"price"`
	PurchasedPrice decimal.Decimal        `db:"purchased_price"`
}

const orderCols = `o.id, o.user_id, o.total_amount, o.status, o.delivery_location, o.phone_number, o.created_at, o.updated_at`

// PlaceFromCart inserts the order and deletes the source cart in one transaction.
// A cart that vanished meanwhile (expiry sweep) does not fail the order.
func (r *OrderRepo) PlaceFromCart(ctx context.Context, o *domain.Order, cartID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO orders(id, user_id, total_amount, status, delivery_location, phone_number, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, o.ID, o.UserID, o.TotalAmount, string(o.Status), o.DeliveryLocation, o.PhoneNumber,
		millis(o.CreatedAt), millis(o.UpdatedAt)); err != nil {
		return err
	}
	for i, it := range o.Items {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO order_items(order_id, position, product_id, qty, title, description, images_json, price, purchased_price)
			VALUES(:order_id, :position, :product_id, :qty, :title, :description, :images_json, :price, :purchased_price)
		`, orderItemRow{
			OrderID:        o.ID,
			Position:       i,
			ProductID:      it.ProductID,
			Qty:            it.Quantity,
			Title:          it.Title,
			Description:    it.Description,
			Images:         jsonList[domain.Image](it.Images),
			Price:          it.Price,
			PurchasedPrice: it.PurchasedPrice,
		}); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = ? AND user_id = ?`, cartID, o.UserID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var row orderRow
	err := r.db.GetContext(ctx, &row, `SELECT `+orderCols+` FROM orders o WHERE o.id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Order{}, err
	}
	out, err := r.withItems(ctx, []orderRow{row})
	if err != nil {
		return domain.Order{}, err
	}
	return out[0], nil
}

// ListByUser returns a user's orders newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT `+orderCols+` FROM orders o WHERE o.user_id = ? ORDER BY o.created_at DESC
	`, userID); err != nil {
		return nil, err
	}
	return r.withItems(ctx, rows)
}

// List is the admin listing. Search matches order id, delivery location, item
// title/description and the customer's email.
func (r *OrderRepo) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	var where []string
	var args []any
	if f.Status != "" {
		where = append(where, `o.status = ?`)
		args = append(args, string(f.Status))
	}
	if q := strings.TrimSpace(f.Search); q != "" {
		like := likeArg(q)
		where = append(where, `(
			o.id LIKE ? ESCAPE '\' OR o.delivery_location LIKE ? ESCAPE '\'
			OR EXISTS (SELECT 1 FROM order_items i WHERE i.order_id = o.id
			           AND (i.title LIKE ? ESCAPE '\' OR i.description LIKE ? ESCAPE '\'))
			OR EXISTS (SELECT 1 FROM customers c WHERE c.id = o.user_id AND c.email LIKE ? ESCAPE '\')
		)`)
		args = append(args, like, like, like, like, like)
	}
	q := `SELECT ` + orderCols + ` FROM orders o`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, ` AND `)
	}
	q += ` ORDER BY o.created_at DESC`

	var rows []orderRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return r.withItems(ctx, rows)
}

func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), millis(time.Now()), id)
	if err != nil {
		return domain.Order{}, err
	}
	if err := affected(res); err != nil {
		return domain.Order{}, err
	}
	return r.Get(ctx, id)
}

func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := affected(res); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *OrderRepo) withItems(ctx context.Context, rows []orderRow) ([]domain.Order, error) {
	out := make([]domain.Order, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	q, args, err := sqlx.In(`
		SELECT order_id, position, product_id, qty, title, description, images_json, price, purchased_price
		FROM order_items WHERE order_id IN (?) ORDER BY order_id, position
	`, ids)
	if err != nil {
		return nil, err
	}
	var items []orderItemRow
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(q), args...); err != nil {
		return nil, err
	}
	byOrder := make(map[string][]domain.OrderItem, len(rows))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], domain.OrderItem{
			ProductID:      it.ProductID,
			Quantity:       it.Qty,
			Title:          it.Title,
			Description:    it.Description,
			Images:         []domain.Image(it.Images),
			Price:          it.Price,
			PurchasedPrice: it.PurchasedPrice,
		})
	}
	for _, row := range rows {
		items := byOrder[row.ID]
		if items == nil {
			items = []domain.OrderItem{}
		}
		out = append(out, domain.Order{
			ID:               row.ID,
			UserID:           row.UserID,
			Items:            items,
			TotalAmount:      row.TotalAmount,
			Status:           domain.OrderStatus(row.Status),
			DeliveryLocation: row.DeliveryLocation,
			PhoneNumber:      row.PhoneNumber,
			CreatedAt:        fromMillis(row.CreatedAt),
			UpdatedAt:        fromMillis(row.UpdatedAt),
		})
	}
	return out, nil
}
