package providers

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"checkin-importer/internal/structures"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockedDatabaseProvider(t *testing.T, dsn string) (*DatabaseProvider, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	conf := &structures.Config{Database: structures.DatabaseConfig{DSN: dsn, MaxOpenConns: 2}}
	p := NewDatabaseProvider(conf, &cacheTestLogger{}).(*DatabaseProvider)
	p.open = func(driver, _ string) (*sql.DB, error) {
		assert.Equal(t, "postgres", driver)
		return db, nil
	}
	return p, mock
}

func TestDatabaseProvider_NotConfigured(t *testing.T) {
	p := NewDatabaseProvider(&structures.Config{}, &cacheTestLogger{})
	_, err := p.DB(context.Background())
	assert.ErrorIs(t, err, ErrDatabaseNotConfigured)
	assert.NoError(t, p.Close())
}

func TestDatabaseProvider_OpensOnce(t *testing.T) {
	p, mock := mockedDatabaseProvider(t, "postgres://importer@localhost/checkins")
	mock.ExpectPing()
	mock.ExpectClose()

	first, err := p.DB(context.Background())
	require.NoError(t, err)
	second, err := p.DB(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, second)

	require.NoError(t, p.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseProvider_PingFailure(t *testing.T) {
	p, mock := mockedDatabaseProvider(t, "postgres://importer@localhost/checkins")
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	_, err := p.DB(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
