package domain

import "time"

// ContactMessage — сообщение из формы обратной связи
type ContactMessage struct {
	ID        int64
	FullName  string
	Email     string
	Content   string
	CreatedAt time.Time
}

func NewContactMessage(fullName, email, content string) *ContactMessage {
	return &ContactMessage{
		FullName: fullName,
		Email:    email,
		Content:  content,
	}
}
