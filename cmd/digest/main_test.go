package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactform/internal/config"
	"contactform/internal/database"
	"contactform/internal/domain"
	"contactform/internal/logging"
	"contactform/internal/services"
)

type nopMailer struct{}

func (nopMailer) SendHTMLEmail(context.Context, string, string, string) error { return nil }

func newContactService(t *testing.T) (*services.ContactService, func() error) {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{URL: "sqlite:///:memory:"}, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	svc := services.NewContactService(db, nopMailer{}, &config.EmailConfig{OwnerEmail: "owner@example.com"}, logging.Discard())
	dropTable := func() error { return db.Migrator().DropTable(&domain.Contact{}) }
	return svc, dropTable
}

func TestRunWithNoContacts(t *testing.T) {
	svc, _ := newContactService(t)
	assert.NoError(t, run(context.Background(), svc))
}

func TestRunReportsDigestFailure(t *testing.T) {
	svc, dropTable := newContactService(t)
	require.NoError(t, dropTable())

	assert.Error(t, run(context.Background(), svc))
}
