package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

const postColumns = `
	p.id, p.title, p.summary, p.description, p.cover, p.author, u.username, p.created_at, p.updated_at
	FROM posts p
	LEFT JOIN users u ON u.id = p.author`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*Post, error) {
	var (
		post     Post
		cover    sql.NullString
		username sql.NullString
	)
	err := row.Scan(&post.ID, &post.Title, &post.Summary, &post.Description, &cover,
		&post.Author.ID, &username, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if cover.Valid {
		post.Cover = &cover.String
	}
	post.Author.Username = username.String
	return &post, nil
}

func (s *Store) CreatePost(ctx context.Context, in PostInput, authorID string) (*Post, error) {
	now := s.now()
	post := &Post{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Summary:     in.Summary,
		Description: in.Description,
		Cover:       in.Cover,
		Author:      Author{ID: authorID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO posts (id, title, summary, description, cover, author, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		post.ID, post.Title, post.Summary, post.Description, post.Cover, authorID, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting post: %w", err)
	}

	return post, nil
}

// ListPosts returns every post, newest first, with the author's username.
func (s *Store) ListPosts(ctx context.Context) ([]Post, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT"+postColumns+" ORDER BY p.created_at DESC, p.id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying posts: %w", err)
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning post: %w", err)
		}
		posts = append(posts, *post)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating posts: %w", err)
	}

	return posts, nil
}

// GetPost returns nil, nil when no post has the id.
func (s *Store) GetPost(ctx context.Context, id string) (*Post, error) {
	row := s.db.QueryRowContext(ctx, s.q("SELECT"+postColumns+" WHERE p.id = ?"), id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning post %q: %w", id, err)
	}

	return post, nil
}

// UpdatePost applies upd on behalf of authorID. Only the post's author may
// edit it, and the author column is always rewritten from authorID.
func (s *Store) UpdatePost(ctx context.Context, id string, upd PostUpdate, authorID string) (*Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.Author.ID != authorID {
		return nil, ErrForbidden
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Summary != nil {
		post.Summary = *upd.Summary
	}
	if upd.Description != nil {
		post.Description = *upd.Description
	}
	if upd.Cover != nil {
		post.Cover = upd.Cover
	}
	post.Author.ID = authorID
	post.UpdatedAt = s.now()

	_, err = s.db.ExecContext(ctx, s.q(`
		UPDATE posts
		SET title = ?, summary = ?, description = ?, cover = ?, author = ?, updated_at = ?
		WHERE id = ?`),
		post.Title, post.Summary, post.Description, post.Cover, post.Author.ID, post.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("updating post %q: %w", id, err)
	}

	return post, nil
}

// DeletePost removes the post if it exists. Deleting a missing id is not an
// error, and there is no ownership check.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.q("DELETE FROM posts WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("deleting post %q: %w", id, err)
	}
	return nil
}
