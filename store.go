package main

import (
	"database/sql"
	"time"
)

// Store is the data access layer for users and posts.
type Store struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

func NewStore(db *sql.DB, d dialect) *Store {
	return &Store{
		db:      db,
		dialect: d,
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *Store) q(query string) string {
	return rebind(s.dialect, query)
}
