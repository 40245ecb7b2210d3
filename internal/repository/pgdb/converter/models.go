package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
type ProductModel struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Slug        string    `db:"slug"`
	Description string    `db:"description"`
	Price       int64     `db:"price"`
	ImagePath   *string   `db:"image_path"`
	Featured    bool      `db:"featured"`
	Active      bool      `db:"active"`
	IsDigital   bool      `db:"is_digital"`
	CreatedAt   time.Time `db:"created_at"`
}

// ProductFileModel представляет запись таблицы product_files в PostgreSQL.
type ProductFileModel struct {
	ID           int64     `db:"id"`
	ProductID    int64     `db:"product_id"`
	Name         *string   `db:"name"`
	FilePath     string    `db:"file_path"`
	Storage      string    `db:"storage"`
	Free         bool      `db:"free"`
	UserRequired bool      `db:"user_required"`
	CreatedAt    time.Time `db:"created_at"`
}

// ContactMessageModel представляет запись таблицы contact_messages в PostgreSQL.
type ContactMessageModel struct {
	ID        int64     `db:"id"`
	FullName  string    `db:"fullname"`
	Email     string    `db:"email"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID                  int64      `db:"id"`
	EventID             string     `db:"event_id"`
	EventType           string     `db:"event_type"`
	AggregateID         int64      `db:"aggregate_id"`
	Payload             []byte     `db:"payload"`
	Status              string     `db:"status"`
	CreatedAt           time.Time  `db:"created_at"`
	ProcessingStartedAt *time.Time `db:"processing_started_at"`
	ProcessedAt         *time.Time `db:"processed_at"`
}
