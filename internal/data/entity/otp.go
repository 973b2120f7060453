package entity

import (
	"time"

	"github.com/google/uuid"
)

type OTP struct {
	BaseSimple
	UserID    uuid.UUID `db:"user_id"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
	Used      bool      `db:"used"`
}

func (o *OTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
