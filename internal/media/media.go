package media

import (
	"context"
	"io"
	"strings"
)

// UploadResult is what the media host hands back for a stored image.
type UploadResult struct {
	URL      string
	PublicID string
}

// Store abstracts the external image host. Upload returns a durable URL;
// Destroy releases a previously stored image by its public id.
type Store interface {
	Upload(ctx context.Context, r io.Reader, folder string) (UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// PublicIDFromURL derives the destroy id from a stored secure URL:
// the last two path segments (folder/name) with the file extension stripped.
// Needed for records persisted before public ids were tracked alongside URLs.
func PublicIDFromURL(url string) string {
	parts := strings.Split(url, "/")
	if len(parts) < 2 {
		return ""
	}
	id := strings.Join(parts[len(parts)-2:], "/")
	if dot := strings.LastIndex(id, "."); dot > strings.LastIndex(id, "/") {
		id = id[:dot]
	}
	return id
}
