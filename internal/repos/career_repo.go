package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"samtech/internal/domain"
)

type CareerRepo struct{ db *sqlx.DB }

func NewCareerRepo(db *sqlx.DB) *CareerRepo { return &CareerRepo{db: db} }

type careerRow struct {
	ID           string `db:"id"`
	Title        string `db:"title"`
	Description  string `db:"description"`
	Requirements string `db:"requirements"`
	Location     string `db:"location"`
	Type         string `db:"type"`
	Deadline     int64  `db:"deadline"`
	PDFURL       string `db:"pdf_url"`
	PDFPublicID  string `db:"pdf_public_id"`
	CreatedAt    int64  `db:"created_at"`
	UpdatedAt    int64  `db:"updated_at"`
}

func (r careerRow) toDomain() domain.Career {
	c := domain.Career{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Requirements: r.Requirements,
		Location:     r.Location,
		Type:         r.Type,
		Deadline:     fromMillis(r.Deadline),
		CreatedAt:    fromMillis(r.CreatedAt),
		UpdatedAt:    fromMillis(r.UpdatedAt),
	}
	if r.PDFPublicID != "" {
		c.PDF = &domain.Image{URL: r.PDFURL, PublicID: r.PDFPublicID}
	}
	return c
}

func careerToRow(c *domain.Career) careerRow {
	row := careerRow{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		Requirements: c.Requirements,
		Location:     c.Location,
		Type:         c.Type,
		Deadline:     millis(c.Deadline),
		CreatedAt:    millis(c.CreatedAt),
		UpdatedAt:    millis(c.UpdatedAt),
	}
	if c.PDF != nil {
		row.PDFURL, row.PDFPublicID = c.PDF.URL, c.PDF.PublicID
	}
	return row
}

const careerCols = `id, title, description, requirements, location, type, deadline, pdf_url, pdf_public_id, created_at, updated_at`

func (r *CareerRepo) List(ctx context.Context) ([]domain.Career, error) {
	var rows []careerRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+careerCols+` FROM careers ORDER BY created_at DESC`); err != nil {
		return nil, err
	}
	out := make([]domain.Career, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CareerRepo) Get(ctx context.Context, id string) (domain.Career, error) {
	var row careerRow
	err := r.db.GetContext(ctx, &row, `SELECT `+careerCols+` FROM careers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Career{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Career{}, err
	}
	return row.toDomain(), nil
}

func (r *CareerRepo) Create(ctx context.Context, c *domain.Career) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO careers(`+careerCols+`)
		VALUES(:id, :title, :description, :requirements, :location, :type, :deadline, :pdf_url, :pdf_public_id, :created_at, :updated_at)
	`, careerToRow(c))
	return err
}

func (r *CareerRepo) Update(ctx context.Context, c *domain.Career) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE careers
		SET title = :title, description = :description, requirements = :requirements, location = :location,
		    type = :type, deadline = :deadline, pdf_url = :pdf_url, pdf_public_id = :pdf_public_id,
		    updated_at = :updated_at
		WHERE id = :id
	`, careerToRow(c))
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *CareerRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM careers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}
