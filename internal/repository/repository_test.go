package repository

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestInitRedis_Fail(t *testing.T) {
	client, err := InitRedis("redis://localhost:1")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if client != nil {
		t.Fatal("expected nil client")
	}
}
