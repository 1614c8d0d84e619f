package model

import "time"

type UserProfile struct {
	UserID    string    `json:"id" bson:"_id"`
	Email     string    `json:"email" bson:"email"`
	Name      string    `json:"name" bson:"name"`
	LastLogin time.Time `json:"last_login" bson:"last_login"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
