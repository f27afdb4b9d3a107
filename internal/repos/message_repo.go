package repos

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"samtech/internal/domain"
)

type MessageRepo struct{ db *sqlx.DB }

func NewMessageRepo(db *sqlx.DB) *MessageRepo { return &MessageRepo{db: db} }

type messageRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Phone     string `db:"phone"`
	Subject   string `db:"subject"`
	Message   string `db:"message"`
	IsRead    bool   `db:"is_read"`
	CreatedAt int64  `db:"created_at"`
}

func (r messageRow) toDomain() domain.Message {
	return domain.Message{
		ID: r.ID, Name: r.Name, Email: r.Email, Phone: r.Phone, Subject: r.Subject,
		Message: r.Message, IsRead: r.IsRead, CreatedAt: fromMillis(r.CreatedAt),
	}
}

const messageCols = `id, name, email, phone, subject, message, is_read, created_at`

// List returns messages newest first, optionally filtered by a substring of
// name, email or subject.
func (r *MessageRepo) List(ctx context.Context, search string) ([]domain.Message, error) {
	q := `SELECT ` + messageCols + ` FROM messages`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		like := likeArg(s)
		q += ` WHERE name LIKE ? ESCAPE '\' OR email LIKE ? ESCAPE '\' OR subject LIKE ? ESCAPE '\'`
		args = append(args, like, like, like)
	}
	q += ` ORDER BY created_at DESC`

	var rows []messageRow
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MessageRepo) Get(ctx context.Context, id string) (domain.Message, error) {
	var row messageRow
	err := r.db.GetContext(ctx, &row, `SELECT `+messageCols+` FROM messages WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Message{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Message{}, err
	}
	return row.toDomain(), nil
}

func (r *MessageRepo) Create(ctx context.Context, m *domain.Message) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO messages(`+messageCols+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.IsRead, millis(m.CreatedAt))
	return err
}

func (r *MessageRepo) MarkRead(ctx context.Context, id string) (domain.Message, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE messages SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return domain.Message{}, err
	}
	if err := affected(res); err != nil {
		return domain.Message{}, err
	}
	return r.Get(ctx, id)
}

func (r *MessageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM messages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}
