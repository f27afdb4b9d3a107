package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Image is a stored asset as seen by entities: a public URL plus the
// reference the asset store needs to delete it later.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

type Product struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Discount    string          `json:"discount,omitempty"`
	Images      []Image         `json:"images"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// RemoveImage drops the image with the given public id and reports whether it was present.
func (p *Product) RemoveImage(publicID string) bool {
	var ok bool
	p.Images, ok = removeImage(p.Images, publicID)
	return ok
}

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Images      []Image   `json:"images"`
	VideoURLs   []string  `json:"youtubeUrls"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (e *Event) RemoveImage(publicID string) bool {
	var ok bool
	e.Images, ok = removeImage(e.Images, publicID)
	return ok
}

func removeImage(in []Image, publicID string) ([]Image, bool) {
	out := make([]Image, 0, len(in))
	found := false
	for _, img := range in {
		if img.PublicID == publicID {
			found = true
			continue
		}
		out = append(out, img)
	}
	return out, found
}

type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var CareerTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Remote"}

type Career struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Requirements string    `json:"requirements"`
	Location     string    `json:"location"`
	Type         string    `json:"type"`
	Deadline     time.Time `json:"deadline"`
	PDF          *Image    `json:"pdf,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Message struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}
