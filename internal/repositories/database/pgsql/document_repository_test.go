package pgsql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsLockNotAvailable(t *testing.T) {
	lockErr := &pgconn.PgError{Code: "55P03"}

	assert.True(t, isLockNotAvailable(lockErr))
	assert.True(t, isLockNotAvailable(fmt.Errorf("exec failed: %w", lockErr)))
	assert.False(t, isLockNotAvailable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isLockNotAvailable(errors.New("connection reset")))
	assert.False(t, isLockNotAvailable(nil))
}
