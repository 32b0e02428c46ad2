package helpers

import (
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/andrescamacho/voyage-estimator/internal/adapters/persistence"
	"github.com/andrescamacho/voyage-estimator/internal/domain/shared"
	"github.com/andrescamacho/voyage-estimator/internal/infrastructure/database"
)

// estimateTables lists the migrated tables, children before parents
var estimateTables = []string{"session_logs", "voyages", "estimates"}

// NewTestDB creates a migrated in-memory database private to t
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

// SharedTestDB is the database every BDD scenario runs against
var SharedTestDB *gorm.DB

// InitializeSharedTestDB opens and migrates SharedTestDB; call once from TestMain
func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAllTables empties SharedTestDB between scenarios
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	for _, table := range estimateTables {
		if err := SharedTestDB.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// CloseSharedTestDB closes SharedTestDB if it was opened
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	return database.Close(SharedTestDB)
}

// TestRepositories are the gorm repositories over one test database
type TestRepositories struct {
	DB             *gorm.DB
	EstimateRepo   *persistence.GormEstimateRepository
	VoyageRepo     *persistence.GormVoyageRepository
	SessionLogRepo *persistence.GormSessionLogRepository
}

// NewTestRepositories builds every repository on SharedTestDB. clock drives
// session log de-duplication.
func NewTestRepositories(clock shared.Clock) *TestRepositories {
	db := SharedTestDB
	return &TestRepositories{
		DB:             db,
		EstimateRepo:   persistence.NewGormEstimateRepository(db),
		VoyageRepo:     persistence.NewGormVoyageRepository(db),
		SessionLogRepo: persistence.NewGormSessionLogRepository(db, clock),
	}
}
