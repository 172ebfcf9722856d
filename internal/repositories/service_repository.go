package repositories

import (
	"database/sql"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/models"
	"storefront/internal/pagination"
)

const serviceColumns = "id, title, description, price, image, user_id, created_at, updated_at"

type ServiceRepository struct {
	DB *sql.DB
}

func (r ServiceRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanService(row interface{ Scan(...any) error }) (models.Service, error) {
	var (
		s      models.Service
		userID sql.NullInt64
	)
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Price, &s.Image, &userID, &s.CreatedAt, &s.UpdatedAt)
	s.UserID = int64OrZero(userID)
	return s, err
}

func (r ServiceRepository) List() ([]models.Service, error) {
	rows, err := r.db().Query(`SELECT ` + serviceColumns + ` FROM services ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// Paginate searches title/description as substrings and price by exact value.
func (r ServiceRepository) Paginate(p pagination.Params) (pagination.Page[models.Service], error) {
	q := pagination.Query{
		Table:   "services",
		Columns: []string{"id", "title", "description", "price", "image", "user_id", "created_at", "updated_at"},
		Filter: pagination.Filter{
			TextColumns:    []string{"title", "description"},
			NumericColumns: []string{"price"},
		},
	}
	return pagination.Execute(r.db(), q, p, func(rows *sql.Rows) (models.Service, error) {
		return scanService(rows)
	})
}

func (r ServiceRepository) GetByID(id int64) (models.Service, error) {
	row := r.db().QueryRow(`SELECT `+serviceColumns+` FROM services WHERE id = ?`, id)
	return scanService(row)
}

func (r ServiceRepository) Create(s models.Service) (int64, error) {
	now := time.Now()
	res, err := r.db().Exec(`
        INSERT INTO services (title, description, price, image, user_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, s.Title, s.Description, s.Price, s.Image, nullIfZero(s.UserID), now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ServiceRepository) Update(s models.Service) error {
	_, err := r.db().Exec(`
        UPDATE services
        SET title = ?, description = ?, price = ?, image = ?, user_id = ?, updated_at = ?
        WHERE id = ?
    `, s.Title, s.Description, s.Price, s.Image, nullIfZero(s.UserID), time.Now(), s.ID)
	return err
}

func (r ServiceRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
