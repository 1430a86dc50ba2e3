package services

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/localnerve/socialnetwork/internal/config"
	"github.com/localnerve/socialnetwork/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(part, message string) {
	r.Status = "unhealthy"
	if r.ErrorMessage == "" {
		r.ErrorMessage = message
	} else {
		r.ErrorMessage += "; " + message
	}
	log.Printf("Health check failed - %s: %s", part, message)
}

// HealthCheck checks the database and the Authorizer service
func HealthCheck(ctx context.Context, cfg *config.Config, db *gorm.DB) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	sqlDB, err := db.DB()
	switch {
	case err != nil:
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.fail("database connection", fmt.Sprintf("Database connection error: %v", err))
	default:
		if err := sqlDB.PingContext(ctx); err != nil {
			result.Database = "unreachable"
			result.Details["database_ping_error"] = err.Error()
			result.fail("database ping", fmt.Sprintf("Database ping failed: %v", err))
		} else {
			stats := sqlDB.Stats()
			result.Database = "ok"
			result.Details["database_type"] = cfg.DBType
			result.Details["database_name"] = cfg.DBAppDatabase
			result.Details["database_open_connections"] = strconv.Itoa(stats.OpenConnections)
		}
	}

	if err := utils.PingAuthorizer(ctx, cfg.AuthzURL); err != nil {
		result.Authorizer = "unreachable"
		result.Details["authorizer_error"] = err.Error()
		result.fail("authorizer ping", fmt.Sprintf("Authorizer ping failed: %v", err))
	} else {
		result.Authorizer = "ok"
		result.Details["authorizer_url"] = cfg.AuthzURL
	}

	return result
}
