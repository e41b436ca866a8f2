package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/pathakanu/myMeds/internal/database"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestSQL(t *testing.T) *SQL {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite memory")
	require.NoError(t, database.Migrate(db), "auto migrate")
	return NewSQL(db)
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "test:"), mr
}

func TestStores(t *testing.T) {
	backends := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"sql":    func(t *testing.T) Store { return newTestSQL(t) },
		"redis": func(t *testing.T) Store {
			r, _ := newTestRedis(t)
			return r
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			_, err := s.Get(ctx, "reminders")
			assert.True(t, errors.Is(err, ErrNotFound), "missing key should be ErrNotFound, got %v", err)

			require.NoError(t, s.SetMany(ctx, map[string]string{"reminders": "[]"}))
			got, err := s.Get(ctx, "reminders")
			require.NoError(t, err)
			assert.Equal(t, "[]", got)

			require.NoError(t, s.SetMany(ctx, map[string]string{"reminders": `[{"id":1}]`}))
			got, err = s.Get(ctx, "reminders")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":1}]`, got, "set must overwrite")

			require.NoError(t, s.SetMany(ctx, map[string]string{
				"reminders": `[{"id":2}]`,
				"adherence": `[]`,
			}))
			got, err = s.Get(ctx, "reminders")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":2}]`, got)
			got, err = s.Get(ctx, "adherence")
			require.NoError(t, err)
			assert.Equal(t, `[]`, got)
		})
	}
}

func TestRedisUsesPrefix(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, r.SetMany(context.Background(), map[string]string{"adherence": "[]"}))

	value, err := mr.Get("test:adherence")
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
	assert.False(t, mr.Exists("adherence"))
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := OpenRedis(context.Background(), "redis://"+mr.Addr()+"/0", "p:")
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.SetMany(context.Background(), map[string]string{"k": "v"}))
	assert.True(t, mr.Exists("p:k"))

	_, err = OpenRedis(context.Background(), "not a url", "p:")
	assert.Error(t, err)
}
