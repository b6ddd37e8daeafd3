package main

import "time"

type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Author is the post owner. Username is only filled on read paths, where the
// store joins it from users.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username,omitempty"`
}

type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Cover       *string   `json:"cover"`
	Author      Author    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PostInput struct {
	Title       string
	Summary     string
	Description string
	Cover       *string
}

// PostUpdate carries only what the client sent; nil fields keep their
// stored value.
type PostUpdate struct {
	Title       *string
	Summary     *string
	Description *string
	Cover       *string
}
