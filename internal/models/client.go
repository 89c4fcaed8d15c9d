package models

import "time"

// Client представляет клиента фрилансера или агентства,
// на которого относятся расходы по подпискам и сделкам.
type Client struct {
	ID           int       `json:"id"`
	UserUID      string    `json:"-"`
	Name         string    `json:"name"`
	Color        string    `json:"color"` // Цвет метки в формате #RRGGBB
	ContactEmail string    `json:"contact_email,omitempty"`
	IsArchived   bool      `json:"is_archived"`
	CreatedAt    time.Time `json:"created_at"`
}

// DummyClient используется для приёма данных клиента из JSON-запроса
// до их валидации и преобразования в Client.
type DummyClient struct {
	Name         string `json:"name" validate:"required,min=1,max=120"`
	Color        string `json:"color" validate:"required,hexcolor"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	IsArchived   bool   `json:"is_archived"`
}
