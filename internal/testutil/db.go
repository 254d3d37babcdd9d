// Package testutil provides database helpers for integration tests. Tests
// expect a PostgreSQL instance, configured via environment variables or the
// docker-compose defaults.
package testutil

import (
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zephyrixtech/test-inventory-sub001/internal/database"
	"github.com/zephyrixtech/test-inventory-sub001/internal/domain"
)

var migrateOnce sync.Once

// SetupTestDB connects to the test PostgreSQL database and ensures the
// schema exists.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "inventory_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "inventory_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "inventory_test")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")

	migrateOnce.Do(func() {
		require.NoError(t, database.AutoMigrate(db))
	})

	return db
}

// CleanupTestData removes test rows from all tables, children first
func CleanupTestData(t *testing.T, db *gorm.DB) {
	t.Helper()

	tables := []string{
		"documents",
		"system_logs",
		"notifications",
		"invoice_items",
		"invoices",
		"stock_lots",
		"approval_ledger_entries",
		"purchase_order_items",
		"purchase_orders",
		"workflow_configs",
		"status_messages",
		"items",
		"stores",
		"suppliers",
		"user_roles",
		"roles",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE id IS NOT NULL", table)).Error; err != nil {
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestRole creates an active role
func CreateTestRole(t *testing.T, db *gorm.DB, name string) *domain.Role {
	t.Helper()
	role := &domain.Role{
		Name:     name,
		IsActive: true,
	}
	require.NoError(t, db.Create(role).Error)
	return role
}

// CreateTestUser creates an active user holding the given roles
func CreateTestUser(t *testing.T, db *gorm.DB, name string, roles ...*domain.Role) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:       fmt.Sprintf("%s-%s@example.com", name, uuid.New().String()[:8]),
		DisplayName: name,
		IsActive:    true,
	}
	require.NoError(t, db.Create(user).Error)
	for _, role := range roles {
		require.NoError(t, db.Create(&domain.UserRole{
			UserID:   user.ID,
			RoleID:   role.ID,
			IsActive: true,
		}).Error)
	}
	return user
}

// CreateTestUserWithPassword creates an active user with a bcrypt password
func CreateTestUserWithPassword(t *testing.T, db *gorm.DB, email, password string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: string(hash),
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestSupplier creates an active supplier
func CreateTestSupplier(t *testing.T, db *gorm.DB, name string) *domain.Supplier {
	t.Helper()
	supplier := &domain.Supplier{
		Name:      name,
		OrgNumber: uuid.New().String()[:12],
		Status:    domain.SupplierStatusActive,
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

// CreateTestStore creates an active store
func CreateTestStore(t *testing.T, db *gorm.DB, name string) *domain.Store {
	t.Helper()
	store := &domain.Store{
		Name:     name,
		Code:     uuid.New().String()[:8],
		IsActive: true,
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

// CreateTestItem creates an active item with the given unit cost
func CreateTestItem(t *testing.T, db *gorm.DB, name string, unitCost float64) *domain.Item {
	t.Helper()
	item := &domain.Item{
		Name:     name,
		SKU:      uuid.New().String()[:12],
		UnitCost: unitCost,
		IsActive: true,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

// CreateWorkflowLevel creates one active level of the purchase order
// approval chain
func CreateWorkflowLevel(t *testing.T, db *gorm.DB, level int, role *domain.Role, overrideEnabled bool) *domain.WorkflowConfig {
	t.Helper()
	cfg := &domain.WorkflowConfig{
		ProcessName:     domain.ProcessPurchaseOrder,
		Level:           level,
		RoleID:          role.ID,
		OverrideEnabled: overrideEnabled,
		IsActive:        true,
	}
	require.NoError(t, db.Create(cfg).Error)
	return cfg
}

// CreateTestStockLot creates a stock lot for an item at a store
func CreateTestStockLot(t *testing.T, db *gorm.DB, item *domain.Item, store *domain.Store, quantity, capacity float64) *domain.StockLot {
	t.Helper()
	lot := &domain.StockLot{
		ItemID:   item.ID,
		StoreID:  store.ID,
		Quantity: quantity,
		Capacity: capacity,
		UnitCost: item.UnitCost,
	}
	require.NoError(t, db.Create(lot).Error)
	return lot
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
