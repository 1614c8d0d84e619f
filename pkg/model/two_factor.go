package model

import "time"

// TwoFactorCode is the one live verification code of a user, stored at
// 2fa/{user id}. Issuing a new code overwrites the previous one.
type TwoFactorCode struct {
	UserID    string    `json:"-" bson:"_id"`
	Code      string    `json:"code" bson:"code" validate:"required,len=6,numeric"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at" validate:"required"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Expired reports whether the code is past its expiry at now. Expiry is only
// checked when a code is presented.
func (c *TwoFactorCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
