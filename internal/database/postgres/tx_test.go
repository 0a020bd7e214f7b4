package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	serialization := fmt.Errorf("lock stock row: %w", &pgconn.PgError{Code: sqlStateSerializationFailure})
	deadlock := &pgconn.PgError{Code: sqlStateDeadlockDetected}
	unique := &pgconn.PgError{Code: "23505"}

	assert.True(t, isRetryable(serialization))
	assert.True(t, isRetryable(deadlock))
	assert.False(t, isRetryable(unique))
	assert.False(t, isRetryable(errors.New("boom")))
	assert.False(t, isRetryable(nil))
}

func TestInTx_PlainContext(t *testing.T) {
	assert.False(t, InTx(context.Background()))
}

func TestConfigDSN(t *testing.T) {
	cfg := &Config{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=stock sslmode=disable", cfg.DSN())
}
