package domain

import "time"

type ID string

type User struct {
	ID           ID
	Username     string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}
