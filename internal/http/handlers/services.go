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

var serviceRepo = repositories.ServiceRepository{}

// GET /api/service/
func GetServices(c *gin.Context) {
	services, err := serviceRepo.List()
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, services)
}

// GET /api/service/paginate
func GetServicesPaginate(c *gin.Context) {
	page, err := serviceRepo.Paginate(pageParams(c))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/service/:id
func GetServiceByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	service, err := serviceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "service"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          service.ID,
		"title":       service.Title,
		"description": service.Description,
		"price":       service.Price,
		"image":       service.Image,
	})
}

// POST /api/service/
func CreateService(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "image", Msg: "image is required"})
		return
	}
	defer file.Close()

	upload, err := uploadImage(c, file, "services")
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "image upload failed", Err: err})
		return
	}

	service := models.Service{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Price:       parseFloatField(c.PostForm("price"), 0),
		Image:       upload.URL,
		UserID:      principal.ID,
	}

	if _, err := serviceRepo.Create(service); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusCreated, "Service created successfully")
}

// PUT /api/service/:id
func UpdateService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	service, err := serviceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "service"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	if file, _, ferr := c.Request.FormFile("image"); ferr == nil {
		defer file.Close()
		upload, uerr := uploadImage(c, file, "services")
		if uerr != nil {
			RespondDomainError(c, domain.InternalError{Msg: "image upload failed", Err: uerr})
			return
		}
		oldImage := service.Image
		service.Image = upload.URL
		destroyImage(c, oldImage)
	}

	if v, present := c.GetPostForm("title"); present {
		service.Title = strings.TrimSpace(v)
	}
	if v, present := c.GetPostForm("description"); present {
		service.Description = strings.TrimSpace(v)
	}
	if v, present := c.GetPostForm("price"); present {
		service.Price = parseFloatField(v, service.Price)
	}
	if service.UserID == 0 {
		principal, _ := middleware.GetPrincipal(c)
		service.UserID = principal.ID
	}

	if err := serviceRepo.Update(service); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusOK, "Service updated successfully")
}

// DELETE /api/service/:id
func DeleteService(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	service, err := serviceRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "service"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	if err := serviceRepo.Delete(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "service"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	destroyImage(c, service.Image)

	c.String(http.StatusOK, "Service deleted successfully")
}
