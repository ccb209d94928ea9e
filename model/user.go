package model

import "time"

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Password         string    `json:"-"` // argon2id hash, never serialized
	FirstName        string    `json:"firstName"`
	LastName         string    `json:"lastName"`
	TwoFactorSecret  string    `json:"-"`
	TwoFactorEnabled bool      `json:"twoFactorEnabled"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
