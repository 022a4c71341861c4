package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scanFunc func(dest ...any) error

func (f scanFunc) Scan(dest ...any) error { return f(dest...) }

// fakeRows serves rows of values in scan order.
type fakeRows struct {
	pgx.Rows
	data [][]any
	pos  int
}

func (r *fakeRows) Next() bool {
	r.pos++
	return r.pos <= len(r.data)
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *bool:
			*p = row[i].(bool)
		case *time.Time:
			*p = row[i].(time.Time)
		}
	}
	return nil
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return nil }

type fakeDB struct {
	execTag  string
	execArgs []any
	rowArgs  []any
	rows     *fakeRows
	qArgs    []any
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execArgs = args
	return pgconn.NewCommandTag(f.execTag), nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.qArgs = args
	return f.rows, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.rowArgs = args
	return scanFunc(func(dest ...any) error {
		*dest[0].(*bool) = false
		*dest[1].(*time.Time) = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		return nil
	})
}

func TestRepo_Create(t *testing.T) {
	db := &fakeDB{}
	repo := &Repo{db: db}

	n := &Notification{UserID: "ana", Type: TypePhaseStatusChanged}
	require.NoError(t, repo.Create(context.Background(), n))

	assert.NotEmpty(t, n.ID)
	assert.Equal(t, []any{n.ID, "ana", TypePhaseStatusChanged, "{}"}, db.rowArgs)
	assert.False(t, n.CreatedAt.IsZero())

	assert.Error(t, repo.Create(context.Background(), &Notification{}))
}

func TestRepo_ListForUser(t *testing.T) {
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	db := &fakeDB{rows: &fakeRows{data: [][]any{
		{"11111111-1111-1111-1111-111111111111", "ana", TypePhaseStatusChanged, `{"status":"Concluido"}`, false, created},
	}}}
	repo := &Repo{db: db}

	items, err := repo.ListForUser(context.Background(), "ana", true, 20)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []any{"ana", true, 20}, db.qArgs)
	assert.JSONEq(t, `{"status":"Concluido"}`, string(items[0].Payload))
	assert.True(t, created.Equal(items[0].CreatedAt))
}

func TestRepo_MarkRead(t *testing.T) {
	id := "11111111-1111-1111-1111-111111111111"

	db := &fakeDB{execTag: "UPDATE 1"}
	require.NoError(t, (&Repo{db: db}).MarkRead(context.Background(), "ana", id))
	assert.Equal(t, []any{id, "ana"}, db.execArgs)

	db = &fakeDB{execTag: "UPDATE 0"}
	assert.ErrorIs(t, (&Repo{db: db}).MarkRead(context.Background(), "ana", id), ErrNotFound)

	db = &fakeDB{}
	assert.ErrorIs(t, (&Repo{db: db}).MarkRead(context.Background(), "ana", "not-a-uuid"), ErrNotFound)
	assert.Nil(t, db.execArgs)
}
