package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactform/internal/config"
	"contactform/internal/domain"
	"contactform/internal/logging"
)

func TestOpenSQLiteMigrates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.db")
	db, err := Open(config.DatabaseConfig{URL: "sqlite:///" + path}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.True(t, db.Migrator().HasTable(&domain.Contact{}))
	assert.True(t, db.Migrator().HasTable("contacts"))
	require.NoError(t, HealthCheck(context.Background(), db))
}

func TestContactTimestampsAndImmutability(t *testing.T) {
	db, err := Open(config.DatabaseConfig{URL: "sqlite:///:memory:"}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	c := domain.Contact{Name: "Ada", Email: "ada@example.com", Inquiry: "Pricing", Message: "Hi"}
	require.NoError(t, db.Create(&c).Error)
	assert.NotZero(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, c.CreatedAt, c.UpdatedAt)

	err = db.Model(&c).Update("message", "changed").Error
	assert.ErrorIs(t, err, domain.ErrContactImmutable)

	err = db.Delete(&c).Error
	assert.ErrorIs(t, err, domain.ErrContactImmutable)

	var stored domain.Contact
	require.NoError(t, db.First(&stored, c.ID).Error)
	assert.Equal(t, "Hi", stored.Message)
	assert.WithinDuration(t, c.CreatedAt, stored.CreatedAt, time.Second)
}

func TestHealthCheckAfterClose(t *testing.T) {
	db, err := Open(config.DatabaseConfig{URL: "sqlite:///:memory:"}, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, Close(db))

	assert.Error(t, HealthCheck(context.Background(), db))
}
