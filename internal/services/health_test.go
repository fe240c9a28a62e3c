package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contactform/internal/database"
)

func TestHealthCheck(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHealthService(db, "Contact Form API")

	assert.Equal(t, &HealthResult{Status: "healthy", Service: "Contact Form API", Database: "up"}, svc.Check(context.Background()))

	require.NoError(t, database.Close(db))
	res := svc.Check(context.Background())
	assert.Equal(t, "unhealthy", res.Status)
	assert.Equal(t, "down", res.Database)
}
