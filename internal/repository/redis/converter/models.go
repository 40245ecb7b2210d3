package converter

import "time"

// ProductRedisModel — карточка товара в кэше.
type ProductRedisModel struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	ImagePath   *string   `json:"image_path,omitempty"`
	Featured    bool      `json:"featured"`
	Active      bool      `json:"active"`
	IsDigital   bool      `json:"is_digital"`
	CreatedAt   time.Time `json:"created_at"`
}
