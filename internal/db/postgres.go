package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// Postgres stores the message log in a messages table. The connection
// pool serializes physical network use; logical ordering between
// independent appends is whatever commit order yields, with created_at
// as the only ordering contract.
type Postgres struct {
	db *sql.DB
}

var _ Store = (*Postgres)(nil)

func NewPostgres(connStr string) (*Postgres, error) {
	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	createTableQuery := `
	CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		sender_name TEXT NOT NULL,
		message_text TEXT NOT NULL DEFAULT '',
		is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
		message_type TEXT NOT NULL DEFAULT 'text',
		file_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	`
	if _, err := conn.Exec(createTableQuery); err != nil {
		return nil, fmt.Errorf("failed to ensure messages table exists: %w", err)
	}
	return &Postgres{db: conn}, nil
}

func (p *Postgres) Append(ctx context.Context, msg *Message) error {
	// created_at is assigned here, at append time, not by the database
	// at commit time.
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	var fileURL sql.NullString
	if msg.FileURL != nil {
		fileURL = sql.NullString{String: *msg.FileURL, Valid: true}
	}

	query := `INSERT INTO messages (sender_name, message_text, is_anonymous, message_type, file_url, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id;`
	row := p.db.QueryRowContext(ctx, query,
		msg.SenderName, msg.MessageText, msg.IsAnonymous, msg.MessageType, fileURL, msg.CreatedAt)
	if err := row.Scan(&msg.ID); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

func (p *Postgres) ListAll(ctx context.Context) ([]Message, error) {
	query := `SELECT id, sender_name, message_text, is_anonymous, message_type, file_url, created_at
	          FROM messages
	          ORDER BY created_at ASC, id ASC;`
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var results []Message
	for rows.Next() {
		var msg Message
		var fileURL sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SenderName, &msg.MessageText,
			&msg.IsAnonymous, &msg.MessageType, &fileURL, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message row: %w", err)
		}
		if fileURL.Valid {
			url := fileURL.String
			msg.FileURL = &url
		}
		results = append(results, msg)
	}
	return results, rows.Err()
}

func (p *Postgres) Close() error {
	return p.db.Close()
}
