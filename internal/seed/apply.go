// ABOUTME: Writes generated demo data into a SQLite database.
// ABOUTME: Creates the users and posts tables and inserts everything in one transaction.

package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Schema is the demo database layout
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL DEFAULT 'reader',
		active BOOLEAN NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER REFERENCES users(id),
		title TEXT NOT NULL,
		body CLOB,
		status TEXT NOT NULL DEFAULT 'draft',
		published_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Summary counts inserted records per table
type Summary struct {
	Users int
	Posts int
}

func (s Summary) Total() int {
	return s.Users + s.Posts
}

// Apply creates the demo tables and inserts data. Posts whose author is not
// among the users are stored without one.
func Apply(ctx context.Context, db *sql.DB, data *GeneratedData) (Summary, error) {
	var sum Summary

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return sum, err
	}
	defer tx.Rollback()

	for _, q := range Schema {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return sum, fmt.Errorf("failed to create schema: %w", err)
		}
	}

	authors := make(map[string]int64, len(data.Users))
	for _, u := range data.Users {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (name, email, role, active) VALUES (?, ?, ?, ?)`,
			u.Name, u.Email, u.Role, u.Active)
		if err != nil {
			return sum, fmt.Errorf("failed to insert user %s: %w", u.Email, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return sum, err
		}
		authors[u.Email] = id
		sum.Users++
	}

	now := time.Now().UTC()
	for i, p := range data.Posts {
		var author sql.NullInt64
		if id, ok := authors[p.AuthorEmail]; ok {
			author = sql.NullInt64{Int64: id, Valid: true}
		}
		var published sql.NullTime
		if p.Status == "published" {
			published = sql.NullTime{Time: now.Add(-time.Duration(i+1) * 24 * time.Hour), Valid: true}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO posts (user_id, title, body, status, published_at) VALUES (?, ?, ?, ?, ?)`,
			author, p.Title, p.Body, p.Status, published); err != nil {
			return sum, fmt.Errorf("failed to insert post %q: %w", p.Title, err)
		}
		sum.Posts++
	}

	if err := tx.Commit(); err != nil {
		return Summary{}, err
	}
	return sum, nil
}
