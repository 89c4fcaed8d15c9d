package models

import "time"

// ActivityLog представляет запись журнала действий пользователя.
// Записи создаются сервисным слоем при каждой мутации и доступны
// только на чтение.
type ActivityLog struct {
	ID         int64     `json:"id"`
	UserUID    string    `json:"-"`
	Action     string    `json:"action"`      // created, updated, deleted, resold
	EntityType string    `json:"entity_type"` // subscription, lifetime_deal, client, ...
	EntityID   int       `json:"entity_id"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
