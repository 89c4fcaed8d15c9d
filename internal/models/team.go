package models

import "time"

// TeamMember представляет участника команды, приглашенного владельцем
// аккаунта. Приглашенный участник получает статус invited до первого входа.
type TeamMember struct {
	ID         int       `json:"id"`
	OwnerUID   string    `json:"-"`
	Email      string    `json:"email"`
	MemberRole string    `json:"member_role"` // owner или member
	Status     string    `json:"status"`      // invited или active
	InvitedAt  time.Time `json:"invited_at"`
}

// DummyTeamMember используется для приёма данных приглашения из JSON-запроса.
type DummyTeamMember struct {
	Email      string `json:"email" validate:"required,email"`
	MemberRole string `json:"member_role" validate:"required,oneof=owner member"`
}
