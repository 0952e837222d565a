package db

import (
	"errors"
	"testing"

	"github.com/smallbiznis/taskora/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		err       error
		duplicate bool
	}{
		{gorm.ErrDuplicatedKey, true},
		{errors.New(`ERROR: duplicate key value violates unique constraint "uq_webhooks" (SQLSTATE 23505)`), true},
		{errors.New("Error 1062 (23000): Duplicate entry 'a@b.c' for key 'users.email'"), true},
		{errors.New("UNIQUE constraint failed: users.email"), true},
		{gorm.ErrRecordNotFound, false},
		{errors.New("connection refused"), false},
		{nil, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.duplicate, IsDuplicateKeyErr(tc.err), "%v", tc.err)
	}
}

func TestDialectSelection(t *testing.T) {
	for _, dbType := range []string{"postgres", "mysql", "sqlite"} {
		dialector, err := Dialect(config.Config{DBType: dbType, DBName: "taskora"})
		require.NoError(t, err, dbType)
		assert.Equal(t, dbType, dialector.Name())
	}

	_, err := Dialect(config.Config{DBType: "oracle"})
	assert.EqualError(t, err, `unsupported database type "oracle"`)
}

func TestSQLitePathFollowsDatabaseName(t *testing.T) {
	assert.Equal(t, "taskora.db", sqlitePath(config.Config{}))
	assert.Equal(t, "demo.db", sqlitePath(config.Config{DBName: "demo"}))
	assert.Equal(t, "data/demo.db", sqlitePath(config.Config{DBName: "data/demo.db"}))
}
