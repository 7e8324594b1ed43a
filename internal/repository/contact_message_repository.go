package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ecomarket/internal/domain"
)

var ErrMessageNotFound = errors.New("contact message not found")

type ContactMessageRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
	List(ctx context.Context) ([]*domain.ContactMessage, error)
	MarkRead(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	CountUnread(ctx context.Context) (int, error)
}

type contactMessageRepository struct {
	db *sql.DB
}

func NewContactMessageRepository(db *sql.DB) ContactMessageRepository {
	return &contactMessageRepository{db: db}
}

func (r *contactMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at
	`

	err := r.db.QueryRowContext(ctx, query, msg.Name, msg.Email, msg.Subject, msg.Message).
		Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact message: %w", err)
	}
	return nil
}

// List returns every message, newest first.
func (r *contactMessageRepository) List(ctx context.Context) ([]*domain.ContactMessage, error) {
	query := `
		SELECT id, name, email, subject, message, is_read, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := []*domain.ContactMessage{}
	for rows.Next() {
		msg := &domain.ContactMessage{}
		if err := rows.Scan(
			&msg.ID,
			&msg.Name,
			&msg.Email,
			&msg.Subject,
			&msg.Message,
			&msg.IsRead,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact messages: %w", err)
	}

	return messages, nil
}

func (r *contactMessageRepository) MarkRead(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark contact message read: %w", err)
	}
	return requireAffected(result, ErrMessageNotFound)
}

func (r *contactMessageRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	return requireAffected(result, ErrMessageNotFound)
}

func (r *contactMessageRepository) CountUnread(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contact_messages WHERE NOT is_read`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return n, nil
}
