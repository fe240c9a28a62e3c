package services

import (
	"context"

	"gorm.io/gorm"

	"contactform/internal/database"
)

// HealthResult is the body of the health endpoint.
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
}

// HealthService implements the health service
type HealthService struct {
	db      *gorm.DB
	service string
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB, service string) *HealthService {
	return &HealthService{db: db, service: service}
}

// Check reports whether the database answers a ping.
func (s *HealthService) Check(ctx context.Context) *HealthResult {
	res := &HealthResult{Status: "healthy", Service: s.service, Database: "up"}
	if err := database.HealthCheck(ctx, s.db); err != nil {
		res.Status = "unhealthy"
		res.Database = "down"
	}
	return res
}
