package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"samtech/internal/domain"
)

type BlogRepo struct{ db *sqlx.DB }

func NewBlogRepo(db *sqlx.DB) *BlogRepo { return &BlogRepo{db: db} }

type blogRow struct {
	ID        string `db:"id"`
	Title     string `db:"title"`
	Content   string `db:"content"`
	Author    string `db:"author"`
	Date      int64  `db:"date"`
	CreatedAt int64  `db:"created_at"`
	UpdatedAt int64  `db:"updated_at"`
}

func (r blogRow) toDomain() domain.Blog {
	return domain.Blog{
		ID: r.ID, Title: r.Title, Content: r.Content, Author: r.Author,
		Date: fromMillis(r.Date), CreatedAt: fromMillis(r.CreatedAt), UpdatedAt: fromMillis(r.UpdatedAt),
	}
}

func blogToRow(b *domain.Blog) blogRow {
	return blogRow{
		ID: b.ID, Title: b.Title, Content: b.Content, Author: b.Author,
		Date: millis(b.Date), CreatedAt: millis(b.CreatedAt), UpdatedAt: millis(b.UpdatedAt),
	}
}

const blogCols = `id, title, content, author, date, created_at, updated_at`

func (r *BlogRepo) List(ctx context.Context) ([]domain.Blog, error) {
	var rows []blogRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+blogCols+` FROM blogs ORDER BY date DESC`); err != nil {
		return nil, err
	}
	out := make([]domain.Blog, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *BlogRepo) Get(ctx context.Context, id string) (domain.Blog, error) {
	var row blogRow
	err := r.db.GetContext(ctx, &row, `SELECT `+blogCols+` FROM blogs WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Blog{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Blog{}, err
	}
	return row.toDomain(), nil
}

func (r *BlogRepo) Create(ctx context.Context, b *domain.Blog) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO blogs(`+blogCols+`)
		VALUES(:id, :title, :content, :author, :date, :created_at, :updated_at)
	`, blogToRow(b))
	return err
}

func (r *BlogRepo) Update(ctx context.Context, b *domain.Blog) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE blogs SET title = :title, content = :content, author = :author, date = :date, updated_at = :updated_at
		WHERE id = :id
	`, blogToRow(b))
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}
