package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/tivecs/finance/finance-backend/internal/testutil"
)

func TestSyncUser_NewUser(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewAuthService(userRepo)
	session := testutil.NewSession(uuid.New())

	result, err := service.SyncUser(context.Background(), session)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !result.IsNewUser {
		t.Error("Expected IsNewUser to be true for new user")
	}

	if result.User.ID != session.User.ID {
		t.Errorf("Expected user ID %s, got %s", session.User.ID, result.User.ID)
	}

	stored, err := userRepo.GetByID(context.Background(), session.User.ID)
	if err != nil {
		t.Fatalf("Expected stored user, got %v", err)
	}
	if stored.Email != session.User.Email {
		t.Errorf("Expected email %s, got %s", session.User.Email, stored.Email)
	}
}

func TestSyncUser_ExistingUserRefreshesProfile(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	service := NewAuthService(userRepo)
	session := testutil.NewSession(uuid.New())

	if _, err := service.SyncUser(context.Background(), session); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	session.User.Name = "Renamed"
	result, err := service.SyncUser(context.Background(), session)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if result.IsNewUser {
		t.Error("Expected IsNewUser to be false for existing user")
	}

	stored, _ := userRepo.GetByID(context.Background(), session.User.ID)
	if stored.Name != "Renamed" {
		t.Errorf("Expected name 'Renamed', got %s", stored.Name)
	}
}

func TestSyncUser_RepositoryError(t *testing.T) {
	userRepo := testutil.NewMockUserRepository()
	userRepo.UpsertErr = errors.New("db down")
	service := NewAuthService(userRepo)

	_, err := service.SyncUser(context.Background(), testutil.NewSession(uuid.New()))
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}
