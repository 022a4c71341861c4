package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("notification not found")

// Notification is one message addressed to a dashboard user.
type Notification struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

// querier is the part of *pgxpool.Pool the repository uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db querier
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, n *Notification) error {
	if n.UserID == "" {
		return fmt.Errorf("user_id required")
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if len(n.Payload) == 0 {
		n.Payload = json.RawMessage(`{}`)
	}

	const q = `
insert into notifications (id, user_id, type, payload)
values ($1::uuid, $2, $3, $4::jsonb)
returning read, created_at;
`
	return r.db.QueryRow(ctx, q, n.ID, n.UserID, n.Type, string(n.Payload)).
		Scan(&n.Read, &n.CreatedAt)
}

func (r *Repo) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]Notification, error) {
	const q = `
select id::text, user_id, type, payload::text, read, created_at
from notifications
where user_id = $1 and ($2 = false or read = false)
order by created_at desc
limit $3;
`
	rows, err := r.db.Query(ctx, q, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Notification, 0, 16)
	for rows.Next() {
		var n Notification
		var payload string
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &payload, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Payload = json.RawMessage(payload)
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) MarkRead(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}

	const q = `
update notifications
set read = true
where id = $1::uuid and user_id = $2;
`
	ct, err := r.db.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
