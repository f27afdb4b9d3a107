package repos

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"samtech/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	ExpiresAt int64  `db:"expires_at"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

type cartItemRow struct {
	CartID      string                 `db:"cart_id"`
	ProductID   string                 `db:"product_id"`
	Position    int                    `db:"position"`
	Qty         int                    `db:"qty"`
	Title       string                 `db:"title"`
	Description string                 `db:"description"`
	Images      jsonList[domain.Image] `db:"images_json"`
	Price       decimal.Decimal        `db:"price"`
}

func (r *CartRepo) GetByUser(ctx context.Context, userID string) (domain.Cart, error) {
	var row cartRow
	err := r.db.GetContext(ctx, &row, `SELECT id, user_id, expires_at, created_at, updated_at FROM carts WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Cart{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Cart{}, err
	}
	var items []cartItemRow
	if err := r.db.SelectContext(ctx, &items, `
		SELECT cart_id, product_id, position, qty, title, description, images_json, price
		FROM cart_items WHERE cart_id = ? ORDER BY position
	`, row.ID); err != nil {
		return domain.Cart{}, err
	}
	cart := domain.Cart{
		ID:        row.ID,
		UserID:    row.UserID,
		Items:     make([]domain.CartItem, 0, len(items)),
		ExpiresAt: fromMillis(row.ExpiresAt),
		CreatedAt: fromMillis(row.CreatedAt),
		UpdatedAt: fromMillis(row.UpdatedAt),
	}
	for _, it := range items {
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID:   it.ProductID,
			Quantity:    it.Qty,
			Title:       it.Title,
			Description: it.Description,
			Images:      []domain.Image(it.Images),
			Price:       it.Price,
		})
	}
	return cart, nil
}

// Save writes the whole cart document: header upsert plus a full rewrite of its lines.
func (r *CartRepo) Save(ctx context.Context, c *domain.Cart) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO carts(id, user_id, expires_at, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET expires_at = excluded.expires_at, updated_at = excluded.updated_at
	`, c.ID, c.UserID, millis(c.ExpiresAt), millis(c.CreatedAt), millis(c.UpdatedAt)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, c.ID); err != nil {
		return err
	}
	for i, it := range c.Items {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO cart_items(cart_id, product_id, position, qty, title, description, images_json, price)
			VALUES(:cart_id, :product_id, :position, :qty, :title, :description, :images_json, :price)
		`, cartItemRow{
			CartID:      c.ID,
			ProductID:   it.ProductID,
			Position:    i,
			Qty:         it.Quantity,
			Title:       it.Title,
			Description: it.Description,
			Images:      jsonList[domain.Image](it.Images),
			Price:       it.Price,
		}); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *CartRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := affected(res); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveProduct pulls a product from every cart and reports how many lines went.
func (r *CartRepo) RemoveProduct(ctx context.Context, productID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE product_id = ?`, productID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteExpired removes carts whose expiry is strictly before now.
func (r *CartRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	cutoff := millis(now)
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cart_items WHERE cart_id IN (SELECT id FROM carts WHERE expires_at < ?)
	`, cutoff); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE expires_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}
