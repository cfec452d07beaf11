package models

import "time"

const MaxProjectImages = 4

type Project struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Link        string       `json:"link,omitempty"`
	Images      []*MediaFile `json:"images"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// ImageSlots returns how many more images the project can take.
func (p Project) ImageSlots() int {
	n := MaxProjectImages - len(p.Images)
	if n < 0 {
		return 0
	}
	return n
}
