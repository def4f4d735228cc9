// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"warbler/internal/core/database"
	"warbler/internal/repo"
	"warbler/pkg/utils"
)

// NewDB returns a migrated in-memory SQLite database private to t.
// One connection keeps the memory database alive and serialises transactions.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	utils.PasswordCost = bcrypt.MinCost

	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
