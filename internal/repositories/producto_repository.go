package repositories

import (
	"database/sql"
	"time"

	"storefront/internal/config"
	"storefront/internal/domain/models"
	"storefront/internal/pagination"
)

const productoColumns = "id, description, price, stock, image, user_id, created_at, updated_at"

type ProductoRepository struct {
	DB *sql.DB
}

func (r ProductoRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return config.DB
}

func scanProducto(row interface{ Scan(...any) error }) (models.Producto, error) {
	var (
		p      models.Producto
		userID sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Description, &p.Price, &p.Stock, &p.Image, &userID, &p.CreatedAt, &p.UpdatedAt)
	p.UserID = int64OrZero(userID)
	return p, err
}

func (r ProductoRepository) List() ([]models.Producto, error) {
	rows, err := r.db().Query(`SELECT ` + productoColumns + ` FROM productos ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	productos := []models.Producto{}
	for rows.Next() {
		p, err := scanProducto(rows)
		if err != nil {
			return nil, err
		}
		productos = append(productos, p)
	}
	return productos, rows.Err()
}

// Paginate searches description as substring and price/stock by exact value.
func (r ProductoRepository) Paginate(p pagination.Params) (pagination.Page[models.Producto], error) {
	q := pagination.Query{
		Table:   "productos",
		Columns: []string{"id", "description", "price", "stock", "image", "user_id", "created_at", "updated_at"},
		Filter: pagination.Filter{
			TextColumns:    []string{"description"},
			NumericColumns: []string{"price", "stock"},
		},
	}
	return pagination.Execute(r.db(), q, p, func(rows *sql.Rows) (models.Producto, error) {
		return scanProducto(rows)
	})
}

func (r ProductoRepository) GetByID(id int64) (models.Producto, error) {
	row := r.db().QueryRow(`SELECT `+productoColumns+` FROM productos WHERE id = ?`, id)
	return scanProducto(row)
}

func (r ProductoRepository) Create(p models.Producto) (int64, error) {
	now := time.Now()
	res, err := r.db().Exec(`
        INSERT INTO productos (description, price, stock, image, user_id, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `, p.Description, p.Price, p.Stock, p.Image, nullIfZero(p.UserID), now, now)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r ProductoRepository) Update(p models.Producto) error {
	_, err := r.db().Exec(`
        UPDATE productos
        SET description = ?, price = ?, stock = ?, image = ?, user_id = ?, updated_at = ?
        WHERE id = ?
    `, p.Description, p.Price, p.Stock, p.Image, nullIfZero(p.UserID), time.Now(), p.ID)
	return err
}

// Delete removes the row. Returns sql.ErrNoRows when nothing matched so the
// handler can answer 404 instead of pretending the delete happened.
func (r ProductoRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM productos WHERE id = ?`, id)
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
