package warehouse

import (
	"context"
	"testing"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDialect_RebindsQuestionPlaceholders(t *testing.T) {
	query, err := PostgresDialect{}.Rebind("SELECT * FROM t WHERE a = ? AND b IN (?, ?)")

	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b IN ($2, $3)", query)
}

func TestPostgresDialect_SessionStatements(t *testing.T) {
	statements := PostgresDialect{}.SessionStatements(SessionOptions{
		Timezone:         "Australia/Sydney",
		StatementTimeout: 90 * time.Second,
		QueryTag:         "media-pacing-api",
	})

	assert.Equal(t, []string{
		"SET TIME ZONE 'Australia/Sydney'",
		"SET statement_timeout = 90000",
		"SET application_name = 'media-pacing-api'",
	}, statements)

	assert.Empty(t, PostgresDialect{}.SessionStatements(SessionOptions{}))
}

func TestPostgresDialect_CancelRequiresBackendID(t *testing.T) {
	err := PostgresDialect{}.CancelStatement(context.Background(), nil, "", "stmt")

	assert.Error(t, err)
}

func TestClickHouseDialect(t *testing.T) {
	dialect := ClickHouseDialect{}

	query, err := dialect.Rebind("SELECT ? AS x")
	require.NoError(t, err)
	assert.Equal(t, "SELECT ? AS x", query)
	assert.Nil(t, dialect.SessionStatements(SessionOptions{Timezone: "UTC"}))
	assert.NoError(t, dialect.CancelStatement(context.Background(), nil, "", ""))

	settings := ClickHouseSettings(SessionOptions{Timezone: "UTC", StatementTimeout: time.Minute, QueryTag: "tag"})
	assert.Equal(t, clickhouse.Settings{
		"max_execution_time": 60,
		"session_timezone":   "UTC",
		"log_comment":        "tag",
	}, settings)
}

func TestDialectFor(t *testing.T) {
	for name, expected := range map[string]string{
		"":           DialectPostgres,
		"postgres":   DialectPostgres,
		"redshift":   DialectPostgres,
		"clickhouse": DialectClickHouse,
	} {
		dialect, err := DialectFor(name)
		require.NoError(t, err)
		assert.Equal(t, expected, dialect.Name())
	}

	_, err := DialectFor("oracle")
	assert.Error(t, err)
}
