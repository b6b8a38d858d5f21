package services

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseHealthPings(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	hs := NewHealthService(gecho.NewDefaultLogger(), db, PingerFunc(func(context.Context) error { return nil }))
	status, err := hs.GetDatabaseHealthStatus(context.Background())

	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabaseHealthReportsFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	hs := NewHealthService(gecho.NewDefaultLogger(), db, nil)
	status, err := hs.GetDatabaseHealthStatus(context.Background())

	assert.Error(t, err)
	assert.False(t, status.Connected)
}

func TestCacheHealthUsesPinger(t *testing.T) {
	hs := NewHealthService(gecho.NewDefaultLogger(), nil, PingerFunc(func(context.Context) error {
		return errors.New("redis: connection pool timeout")
	}))

	status, err := hs.GetCacheHealthStatus(context.Background())

	assert.Error(t, err)
	assert.False(t, status.Connected)
}

func TestServerHealth(t *testing.T) {
	hs := NewHealthService(gecho.NewDefaultLogger(), nil, nil)
	status := hs.GetServerHealthStatus()

	assert.True(t, status.ServiceAlive)
	assert.Positive(t, status.Goroutines)
	assert.Positive(t, status.Memory.SysMB)
}
