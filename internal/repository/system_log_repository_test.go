package repository_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
	"github.com/zephyrixtech/test-inventory-sub001/internal/repository"
)

// auditRow is a minimal model for generating filter SQL without the
// Postgres-only column defaults the real model carries
type auditRow struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      *uuid.UUID
	EntityType  string
	EntityID    *uuid.UUID
	Action      string
	PerformedAt time.Time
}

func setupSQLBuilderDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auditRow{}))
	return db
}

func filterSQL(db *gorm.DB, filter repository.SystemLogFilter) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return repository.ApplySystemLogFilter(tx.Model(&auditRow{}), filter).Find(&[]auditRow{})
	})
}

func TestApplySystemLogFilter_Empty(t *testing.T) {
	db := setupSQLBuilderDB(t)

	sql := filterSQL(db, repository.SystemLogFilter{})

	assert.NotContains(t, sql, "WHERE")
}

func TestApplySystemLogFilter_UserAndEntity(t *testing.T) {
	db := setupSQLBuilderDB(t)
	userID := uuid.New()

	sql := filterSQL(db, repository.SystemLogFilter{
		UserID:     &userID,
		EntityType: "supplier",
	})

	assert.Contains(t, sql, "user_id")
	assert.Contains(t, sql, "entity_type")
	assert.NotContains(t, sql, "performed_at")
}

func TestApplySystemLogFilter_ActionAndTimeRange(t *testing.T) {
	db := setupSQLBuilderDB(t)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	sql := filterSQL(db, repository.SystemLogFilter{
		Action: domain.LogActionUpdate,
		From:   &from,
		To:     &to,
	})

	assert.Contains(t, sql, "action")
	assert.Contains(t, sql, "performed_at >=")
	assert.Contains(t, sql, "performed_at <=")
	assert.NotContains(t, sql, "user_id")
}
