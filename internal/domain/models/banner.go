package models

import "time"

// DefaultBannerBackground is applied when the form omits the background color.
const DefaultBannerBackground = "#F7F6F2"

type Banner struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Background  string    `json:"background"`
	Image       string    `json:"image"`
	UserID      int64     `json:"user_id,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
