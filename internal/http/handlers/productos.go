package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/domain/models"
	"storefront/internal/http/middleware"
	"storefront/internal/repositories"

	"github.com/gin-gonic/gin"
)

var productoRepo = repositories.ProductoRepository{}

// GET /api/producto/
func GetProductos(c *gin.Context) {
	productos, err := productoRepo.List()
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, productos)
}

// GET /api/producto/paginate
func GetProductosPaginate(c *gin.Context) {
	page, err := productoRepo.Paginate(pageParams(c))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/producto/:id
func GetProductoByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	producto, err := productoRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "producto"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          producto.ID,
		"description": producto.Description,
		"price":       producto.Price,
		"image":       producto.Image,
	})
}

// POST /api/producto/
func CreateProducto(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "image", Msg: "image is required"})
		return
	}
	defer file.Close()

	upload, err := uploadImage(c, file, "productos")
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "image upload failed", Err: err})
		return
	}

	producto := models.Producto{
		Description: strings.TrimSpace(c.PostForm("description")),
		Price:       parseFloatField(c.PostForm("price"), 0),
		Stock:       parseIntField(c.PostForm("stock"), 0),
		Image:       upload.URL,
		UserID:      principal.ID,
	}

	if _, err := productoRepo.Create(producto); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusCreated, "Producto created successfully")
}

// PUT /api/producto/:id
func UpdateProducto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	producto, err := productoRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "producto"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	if file, _, ferr := c.Request.FormFile("image"); ferr == nil {
		defer file.Close()
		upload, uerr := uploadImage(c, file, "productos")
		if uerr != nil {
			RespondDomainError(c, domain.InternalError{Msg: "image upload failed", Err: uerr})
			return
		}
		oldImage := producto.Image
		producto.Image = upload.URL
		destroyImage(c, oldImage)
	}

	if v, present := c.GetPostForm("description"); present {
		producto.Description = strings.TrimSpace(v)
	}
	if v, present := c.GetPostForm("price"); present {
		producto.Price = parseFloatField(v, producto.Price)
	}
	if v, present := c.GetPostForm("stock"); present {
		producto.Stock = parseIntField(v, producto.Stock)
	}
	if producto.UserID == 0 {
		principal, _ := middleware.GetPrincipal(c)
		producto.UserID = principal.ID
	}

	if err := productoRepo.Update(producto); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusOK, "Producto updated successfully")
}

// DELETE /api/producto/:id
func DeleteProducto(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	producto, err := productoRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "producto"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	if err := productoRepo.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "producto"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	destroyImage(c, producto.Image)

	c.String(http.StatusOK, "Producto deleted successfully")
}
