package domain

import "time"

type ID string

type Post struct {
	ID        ID
	Title     string
	Content   string
	AuthorID  string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
