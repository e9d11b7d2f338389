package iodb_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/gnames/botdb/internal/iodb"
	"github.com/gnames/botdb/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		msg, driver, dialect string
		ok                   bool
	}{
		{msg: "sqlite backend", driver: "sqlite", dialect: "sqlite", ok: true},
		{msg: "postgres backend", driver: "postgres", dialect: "postgres", ok: true},
		{msg: "unknown backend", driver: "mysql", ok: false},
	}

	for _, v := range tests {
		op, err := iodb.New(v.driver)
		if !v.ok {
			assert.Error(t, err, v.msg)
			continue
		}
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.dialect, op.Dialect(), v.msg)
	}
}

func TestSqliteConnect(t *testing.T) {
	ctx := context.Background()
	op, err := iodb.New("sqlite")
	require.NoError(t, err)

	cfg := config.New()
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.sqlite")
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()

	require.NotNil(t, op.DB())

	exists, err := op.TableExists(ctx, "families")
	require.NoError(t, err)
	assert.False(t, exists, "fresh database has no tables")

	_, err = op.DB().ExecContext(ctx,
		"CREATE TABLE families (id TEXT PRIMARY KEY)")
	require.NoError(t, err)

	exists, err = op.TableExists(ctx, "families")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestSqliteLock(t *testing.T) {
	ctx := context.Background()
	op, err := iodb.New("sqlite")
	require.NoError(t, err)

	cfg := config.New()
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.sqlite")
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()

	require.NoError(t, op.Lock(ctx))
	require.NoError(t, op.Unlock(ctx))
	require.NoError(t, op.Lock(ctx))
	require.NoError(t, op.Unlock(ctx))
}

func TestSqliteRebind(t *testing.T) {
	op, err := iodb.New("sqlite")
	require.NoError(t, err)
	q := "SELECT 1 FROM t WHERE a = ? AND b = ?"
	assert.Equal(t, q, op.Rebind(q), "sqlite keeps ? placeholders")
}

func TestPgxRebind(t *testing.T) {
	op, err := iodb.New("postgres")
	require.NoError(t, err)

	tests := []struct {
		msg, in, want string
	}{
		{
			msg:  "two placeholders",
			in:   "SELECT 1 FROM t WHERE a = ? AND b = ?",
			want: "SELECT 1 FROM t WHERE a = $1 AND b = $2",
		},
		{
			msg:  "no placeholders",
			in:   "SELECT count(*) FROM t",
			want: "SELECT count(*) FROM t",
		},
	}

	for _, v := range tests {
		assert.Equal(t, v.want, op.Rebind(v.in), v.msg)
	}
}

func TestNotConnected(t *testing.T) {
	ctx := context.Background()
	op, err := iodb.New("sqlite")
	require.NoError(t, err)

	assert.Nil(t, op.DB())
	_, err = op.TableExists(ctx, "families")
	assert.Error(t, err)
	assert.Error(t, op.Lock(ctx))
}
