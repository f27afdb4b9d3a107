package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"samtech/internal/domain"
)

// CustomerRepo stores storefront accounts.
type CustomerRepo struct{ db *sqlx.DB }

func NewCustomerRepo(db *sqlx.DB) *CustomerRepo { return &CustomerRepo{db: db} }

type customerRow struct {
	ID          string `db:"id"`
	Username    string `db:"username"`
	Email       string `db:"email"`
	DateOfBirth string `db:"date_of_birth"`
	Gender      string `db:"gender"`
	PhoneNumber string `db:"phone_number"`
	Hash        string `db:"password_hash"`
	CreatedAt   int64  `db:"created_at"`
}

func (r customerRow) toDomain() domain.Customer {
	return domain.Customer{
		ID: r.ID, Username: r.Username, Email: r.Email, DateOfBirth: r.DateOfBirth,
		Gender: r.Gender, PhoneNumber: r.PhoneNumber, Hash: r.Hash, CreatedAt: fromMillis(r.CreatedAt),
	}
}

const customerCols = `id, username, email, date_of_birth, gender, phone_number, password_hash, created_at`

func (r *CustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO customers(`+customerCols+`) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Username, c.Email, c.DateOfBirth, c.Gender, c.PhoneNumber, c.Hash, millis(c.CreatedAt))
	if isUnique(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *CustomerRepo) Get(ctx context.Context, id string) (domain.Customer, error) {
	return r.one(ctx, `SELECT `+customerCols+` FROM customers WHERE id = ?`, id)
}

func (r *CustomerRepo) ByEmail(ctx context.Context, email string) (domain.Customer, error) {
	return r.one(ctx, `SELECT `+customerCols+` FROM customers WHERE LOWER(email) = LOWER(?)`, email)
}

func (r *CustomerRepo) one(ctx context.Context, q string, arg string) (domain.Customer, error) {
	var row customerRow
	err := r.db.GetContext(ctx, &row, q, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Customer{}, err
	}
	return row.toDomain(), nil
}

// Update writes profile fields; the password hash is changed only via SetPassword.
func (r *CustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE customers SET username = ?, email = ?, date_of_birth = ?, gender = ?, phone_number = ?
		WHERE id = ?
	`, c.Username, c.Email, c.DateOfBirth, c.Gender, c.PhoneNumber, c.ID)
	if isUnique(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}
	return affected(res)
}

func (r *CustomerRepo) SetPassword(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE customers SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// AdminRepo stores staff accounts.
type AdminRepo struct{ db *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

type adminRow struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Hash      string `db:"password_hash"`
	CreatedAt int64  `db:"created_at"`
}

func (r adminRow) toDomain() domain.Admin {
	return domain.Admin{ID: r.ID, Username: r.Username, Hash: r.Hash, CreatedAt: fromMillis(r.CreatedAt)}
}

func (r *AdminRepo) Create(ctx context.Context, a *domain.Admin) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO admins(id, username, password_hash, created_at) VALUES(?, ?, ?, ?)`,
		a.ID, a.Username, a.Hash, millis(a.CreatedAt))
	if isUnique(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *AdminRepo) Get(ctx context.Context, id string) (domain.Admin, error) {
	return r.one(ctx, `SELECT id, username, password_hash, created_at FROM admins WHERE id = ?`, id)
}

func (r *AdminRepo) ByUsername(ctx context.Context, username string) (domain.Admin, error) {
	return r.one(ctx, `SELECT id, username, password_hash, created_at FROM admins WHERE username = ?`, username)
}

func (r *AdminRepo) one(ctx context.Context, q, arg string) (domain.Admin, error) {
	var row adminRow
	err := r.db.GetContext(ctx, &row, q, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Admin{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Admin{}, err
	}
	return row.toDomain(), nil
}

func (r *AdminRepo) SetPassword(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE admins SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return err
	}
	return affected(res)
}
