package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"storefront/internal/http/middleware"
	"storefront/internal/media"
	"storefront/internal/pagination"
	"storefront/internal/utils"

	"github.com/gin-gonic/gin"
)

// Media is the image host used by the banner/producto/service gateways.
// Wired to Cloudinary in main; tests install a fake.
var Media media.Store

func pageParams(c *gin.Context) pagination.Params {
	return pagination.ParseParams(c.Query("page"), c.Query("limit"), c.Query("search"))
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// parseFloatField parses a numeric form value with an explicit fallback
// instead of coercing arbitrary input.
func parseFloatField(raw string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseIntField(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return n
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "empty body")
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "invalid payload")
		return false
	}
	return true
}

// uploadImage pushes an image file from the request to the media host.
func uploadImage(c *gin.Context, file io.Reader, folder string) (media.UploadResult, error) {
	if Media == nil {
		return media.UploadResult{}, errors.New("media store not configured")
	}
	return Media.Upload(c.Request.Context(), file, folder)
}

// destroyImage releases a replaced or orphaned image from the media host.
// Failures are logged, never surfaced: the record update already succeeded.
func destroyImage(c *gin.Context, imageURL string) {
	if Media == nil || imageURL == "" {
		return
	}
	publicID := media.PublicIDFromURL(imageURL)
	if publicID == "" {
		return
	}
	if err := Media.Destroy(c.Request.Context(), publicID); err != nil {
		utils.LogEvent(middleware.GetRequestID(c), "media", "destroy_failed", "public_id="+publicID+" err="+err.Error())
	}
}
