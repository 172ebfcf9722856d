package repositories

import (
	"database/sql"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/models"
	"storefront/internal/pagination"
)

const userColumns = "id, username, email, is_active, created_at, updated_at"

// UserRepository wraps DB access for the users table. The password hash is
// never part of a returned User; login paths fetch it explicitly.
type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanUser(row interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID loads one user without the password hash. Returns sql.ErrNoRows on miss.
func (r UserRepository) GetByID(id int64) (models.User, error) {
	row := r.db().QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByUsername loads one user together with the stored password hash.
func (r UserRepository) GetByUsername(username string) (models.User, string, error) {
	var (
		u    models.User
		hash string
	)
	err := r.db().QueryRow(`
        SELECT id, username, email, is_active, created_at, updated_at, password_hash
        FROM users
        WHERE username = ?
    `, username).Scan(&u.ID, &u.Username, &u.Email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &hash)
	return u, hash, err
}

func (r UserRepository) GetPasswordHash(id int64) (string, error) {
	var hash string
	err := r.db().QueryRow(`SELECT password_hash FROM users WHERE id = ?`, id).Scan(&hash)
	return hash, err
}

// ExistsUsername reports whether another user already holds this username.
// excludeID skips the user being updated; pass 0 for creation checks.
func (r UserRepository) ExistsUsername(username string, excludeID int64) (bool, error) {
	var count int
	err := r.db().QueryRow(`
        SELECT COUNT(*) FROM users WHERE username = ? AND id <> ?
    `, username, excludeID).Scan(&count)
	return count > 0, err
}

func (r UserRepository) Create(username, email, passwordHash string) (int64, error) {
	now := time.Now()
	res, err := r.db().Exec(`
        INSERT INTO users (username, email, password_hash, is_active, created_at, updated_at)
        VALUES (?, ?, ?, 1, ?, ?)
    `, username, email, passwordHash, now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r UserRepository) Update(id int64, username, email string, isActive bool) error {
	_, err := r.db().Exec(`
        UPDATE users SET username = ?, email = ?, is_active = ?, updated_at = ? WHERE id = ?
    `, username, email, isActive, time.Now(), id)
	return err
}

func (r UserRepository) UpdatePassword(id int64, passwordHash string) error {
	_, err := r.db().Exec(`
        UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?
    `, passwordHash, time.Now(), id)
	return err
}

// SetActive flips the active flag and returns the updated record.
func (r UserRepository) SetActive(id int64, active bool) (models.User, error) {
	if _, err := r.db().Exec(`
        UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?
    `, active, time.Now(), id); err != nil {
		return models.User{}, err
	}
	return r.GetByID(id)
}

// Paginate lists users newest-first, searchable by username or email substring.
func (r UserRepository) Paginate(p pagination.Params) (pagination.Page[models.User], error) {
	q := pagination.Query{
		Table:   "users",
		Columns: []string{"id", "username", "email", "is_active", "created_at", "updated_at"},
		Filter: pagination.Filter{
			TextColumns: []string{"username", "email"},
		},
	}
	return pagination.Execute(r.db(), q, p, func(rows *sql.Rows) (models.User, error) {
		return scanUser(rows)
	})
}
