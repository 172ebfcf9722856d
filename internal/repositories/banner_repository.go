package repositories

import (
	"database/sql"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/models"
	"storefront/internal/pagination"
)

const bannerColumns = "id, title, description, price, background, image, user_id, created_at, updated_at"

type BannerRepository struct {
	DB *sql.DB
}

func (r BannerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanBanner(row interface{ Scan(...any) error }) (models.Banner, error) {
	var (
		b      models.Banner
		userID sql.NullInt64
	)
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Price, &b.Background, &b.Image, &userID, &b.CreatedAt, &b.UpdatedAt)
	b.UserID = int64OrZero(userID)
	return b, err
}

func (r BannerRepository) List() ([]models.Banner, error) {
	rows, err := r.db().Query(`SELECT ` + bannerColumns + ` FROM banners ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	banners := []models.Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

// Paginate searches title/description as substrings and price by exact value.
func (r BannerRepository) Paginate(p pagination.Params) (pagination.Page[models.Banner], error) {
	q := pagination.Query{
		Table:   "banners",
		Columns: []string{"id", "title", "description", "price", "background", "image", "user_id", "created_at", "updated_at"},
		Filter: pagination.Filter{
			TextColumns:    []string{"title", "description"},
			NumericColumns: []string{"price"},
		},
	}
	return pagination.Execute(r.db(), q, p, func(rows *sql.Rows) (models.Banner, error) {
		return scanBanner(rows)
	})
}

func (r BannerRepository) GetByID(id int64) (models.Banner, error) {
	row := r.db().QueryRow(`SELECT `+bannerColumns+` FROM banners WHERE id = ?`, id)
	return scanBanner(row)
}

func (r BannerRepository) Create(b models.Banner) (int64, error) {
	now := time.Now()
	res, err := r.db().Exec(`
        INSERT INTO banners (title, description, price, background, image, user_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, b.Title, b.Description, b.Price, b.Background, b.Image, nullIfZero(b.UserID), now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BannerRepository) Update(b models.Banner) error {
	_, err := r.db().Exec(`
        UPDATE banners
        SET title = ?, description = ?, price = ?, background = ?, image = ?, user_id = ?, updated_at = ?
        WHERE id = ?
    `, b.Title, b.Description, b.Price, b.Background, b.Image, nullIfZero(b.UserID), time.Now(), b.ID)
	return err
}
