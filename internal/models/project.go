package models

import "time"

// Project представляет проект, опционально привязанный к клиенту.
// ClientID может быть nil — проект без клиента.
type Project struct {
	ID         int       `json:"id"`
	UserUID    string    `json:"-"`
	ClientID   *int      `json:"client_id,omitempty"`
	Name       string    `json:"name"`
	IsArchived bool      `json:"is_archived"`
	CreatedAt  time.Time `json:"created_at"`
	// Присоединенные поля клиента, заполняются при выборке списком
	ClientName *string `json:"client_name,omitempty"`
}

// DummyProject используется для приёма данных проекта из JSON-запроса.
type DummyProject struct {
	Name       string `json:"name" validate:"required,min=1,max=120"`
	ClientID   *int   `json:"client_id" validate:"omitempty,gt=0"`
	IsArchived bool   `json:"is_archived"`
}
