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

var bannerRepo = repositories.BannerRepository{}

// GET /api/banner/
func GetBanners(c *gin.Context) {
	banners, err := bannerRepo.List()
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, banners)
}

// GET /api/banner/paginate
func GetBannersPaginate(c *gin.Context) {
	page, err := bannerRepo.Paginate(pageParams(c))
	if err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /api/banner/:id
func GetBannerByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	banner, err := bannerRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "banner"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":          banner.ID,
		"title":       banner.Title,
		"description": banner.Description,
		"price":       banner.Price,
		"background":  banner.Background,
		"image":       banner.Image,
	})
}

// POST /api/banner/
func CreateBanner(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "image", Msg: "image is required"})
		return
	}
	defer file.Close()

	upload, err := uploadImage(c, file, "banners")
	if err != nil {
		RespondDomainError(c, domain.InternalError{Msg: "image upload failed", Err: err})
		return
	}

	banner := models.Banner{
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		Price:       parseFloatField(c.PostForm("price"), 0),
		Background:  strings.TrimSpace(c.PostForm("background")),
		Image:       upload.URL,
		UserID:      principal.ID,
	}
	if banner.Background == "" {
		banner.Background = models.DefaultBannerBackground
	}

	if _, err := bannerRepo.Create(banner); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusCreated, "Banner created successfully")
}

// PUT /api/banner/:id
func UpdateBanner(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	banner, err := bannerRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			RespondDomainError(c, domain.NotFoundError{Resource: "banner"})
		} else {
			RespondDomainError(c, domain.InternalError{Err: err})
		}
		return
	}

	if file, _, ferr := c.Request.FormFile("image"); ferr == nil {
		defer file.Close()
		upload, uerr := uploadImage(c, file, "banners")
		if uerr != nil {
			RespondDomainError(c, domain.InternalError{Msg: "image upload failed", Err: uerr})
			return
		}
		oldImage := banner.Image
		banner.Image = upload.URL
		destroyImage(c, oldImage)
	}

	if v, present := c.GetPostForm("title"); present {
		banner.Title = strings.TrimSpace(v)
	}
	if v, present := c.GetPostForm("description"); present {
		banner.Description = strings.TrimSpace(v)
	}
	if v, present := c.GetPostForm("price"); present {
		banner.Price = parseFloatField(v, banner.Price)
	}
	if v, present := c.GetPostForm("background"); present && strings.TrimSpace(v) != "" {
		banner.Background = strings.TrimSpace(v)
	}
	if banner.UserID == 0 {
		principal, _ := middleware.GetPrincipal(c)
		banner.UserID = principal.ID
	}

	if err := bannerRepo.Update(banner); err != nil {
		RespondDomainError(c, domain.InternalError{Err: err})
		return
	}

	c.String(http.StatusOK, "Banner updated successfully")
}
