package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"samtech/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID          string                 `db:"id"`
	Title       string                 `db:"title"`
	Description string                 `db:"description"`
	Price       decimal.Decimal        `db:"price"`
	Discount    string                 `db:"discount"`
	Images      jsonList[domain.Image] `db:"images_json"`
	CreatedAt   int64                  `db:"created_at"`
	UpdatedAt   int64                  `db:"updated_at"`
}

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Discount:    r.Discount,
		Images:      []domain.Image(r.Images),
		CreatedAt:   fromMillis(r.CreatedAt),
		UpdatedAt:   fromMillis(r.UpdatedAt),
	}
}

func productToRow(p *domain.Product) productRow {
	return productRow{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		Discount:    p.Discount,
		Images:      jsonList[domain.Image](p.Images),
		CreatedAt:   millis(p.CreatedAt),
		UpdatedAt:   millis(p.UpdatedAt),
	}
}

const productCols = `id, title, description, price, discount, images_json, created_at, updated_at`

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+productCols+` FROM products ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	var row productRow
	err := r.db.GetContext(ctx, &row, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO products(`+productCols+`)
		VALUES(:id, :title, :description, :price, :discount, :images_json, :created_at, :updated_at)
	`, productToRow(p))
	return err
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE products
		SET title = :title, description = :description, price = :price, discount = :discount,
		    images_json = :images_json, updated_at = :updated_at
		WHERE id = :id
	`, productToRow(p))
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// affected turns a zero-row write into ErrNotFound.
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
