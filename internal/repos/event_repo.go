package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"samtech/internal/domain"
)

type EventRepo struct{ db *sqlx.DB }

func NewEventRepo(db *sqlx.DB) *EventRepo { return &EventRepo{db: db} }

type eventRow struct {
	ID          string                 `db:"id"`
	Title       string                 `db:"title"`
	Description string                 `db:"description"`
	Date        int64                  `db:"date"`
	Images      jsonList[domain.Image] `db:"images_json"`
	VideoURLs   jsonList[string]       `db:"video_urls_json"`
	CreatedAt   int64                  `db:"created_at"`
	UpdatedAt   int64                  `db:"updated_at"`
}

func (r eventRow) toDomain() domain.Event {
	return domain.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Date:        fromMillis(r.Date),
		Images:      []domain.Image(r.Images),
		VideoURLs:   []string(r.VideoURLs),
		CreatedAt:   fromMillis(r.CreatedAt),
		UpdatedAt:   fromMillis(r.UpdatedAt),
	}
}

func eventToRow(e *domain.Event) eventRow {
	return eventRow{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        millis(e.Date),
		Images:      jsonList[domain.Image](e.Images),
		VideoURLs:   jsonList[string](e.VideoURLs),
		CreatedAt:   millis(e.CreatedAt),
		UpdatedAt:   millis(e.UpdatedAt),
	}
}

const eventCols = `id, title, description, date, images_json, video_urls_json, created_at, updated_at`

func (r *EventRepo) List(ctx context.Context) ([]domain.Event, error) {
	var rows []eventRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT `+eventCols+` FROM events ORDER BY date DESC`); err != nil {
		return nil, err
	}
	out := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *EventRepo) Get(ctx context.Context, id string) (domain.Event, error) {
	var row eventRow
	err := r.db.GetContext(ctx, &row, `SELECT `+eventCols+` FROM events WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Event{}, err
	}
	return row.toDomain(), nil
}

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO events(`+eventCols+`)
		VALUES(:id, :title, :description, :date, :images_json, :video_urls_json, :created_at, :updated_at)
	`, eventToRow(e))
	return err
}

func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE events
		SET title = :title, description = :description, date = :date, images_json = :images_json,
		    video_urls_json = :video_urls_json, updated_at = :updated_at
		WHERE id = :id
	`, eventToRow(e))
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}
