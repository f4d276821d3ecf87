package service

import (
	"context"
	"testing"

	"ezwallet/internal/domain"
	"ezwallet/internal/dto"
)

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	users := newmockUserRepository()
	users.addUser(&domain.User{Username: "mario", Email: "mario@example.com", Role: domain.RoleRegular})
	users.addUser(&domain.User{Username: "boss", Email: "boss@example.com", Role: domain.RoleAdmin})
	svc := NewUserService(users, newmockTransactionRepository(), newmockGroupRepository())

	infos, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 users, got %d", len(infos))
	}
	if infos[1].Role != "Admin" {
		t.Errorf("expected Admin role, got %q", infos[1].Role)
	}
}

func TestUserService_Get(t *testing.T) {
	ctx := context.Background()
	users := newmockUserRepository()
	users.addUser(&domain.User{Username: "mario", Email: "mario@example.com", Role: domain.RoleRegular})
	svc := NewUserService(users, newmockTransactionRepository(), newmockGroupRepository())

	t.Run("found", func(t *testing.T) {
		info, err := svc.Get(ctx, "mario")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if info.Email != "mario@example.com" {
			t.Errorf("unexpected user %+v", info)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := svc.Get(ctx, "ghost")
		if err == nil || err.Error() != "User not found" {
			t.Errorf("expected User not found, got %v", err)
		}
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	setup := func() (*mockUserRepository, *mockTransactionRepository, *mockGroupRepository, UserService) {
		users := newmockUserRepository()
		users.addUser(&domain.User{Username: "mario", Email: "mario@example.com", Role: domain.RoleRegular})
		users.addUser(&domain.User{Username: "luigi", Email: "luigi@example.com", Role: domain.RoleRegular})
		users.addUser(&domain.User{Username: "boss", Email: "boss@example.com", Role: domain.RoleAdmin})
		transactions := newmockTransactionRepository()
		transactions.addTransaction(&domain.Transaction{ID: "t-1", Username: "mario", Type: "food", Amount: 10})
		transactions.addTransaction(&domain.Transaction{ID: "t-2", Username: "mario", Type: "rent", Amount: 20})
		transactions.addTransaction(&domain.Transaction{ID: "t-3", Username: "luigi", Type: "food", Amount: 30})
		groups := newmockGroupRepository()
		svc := NewUserService(users, transactions, groups)
		return users, transactions, groups, svc
	}

	t.Run("missing email", func(t *testing.T) {
		_, _, _, svc := setup()
		_, err := svc.Delete(ctx, &dto.DeleteUserRequest{})
		if err == nil || err.Error() != "Missing parameters" {
			t.Errorf("expected Missing parameters, got %v", err)
		}
	})

	t.Run("malformed email", func(t *testing.T) {
		_, _, _, svc := setup()
		_, err := svc.Delete(ctx, &dto.DeleteUserRequest{Email: strPtr("not-an-email")})
		if err == nil || err.Error() != "Mail not correct formatted" {
			t.Errorf("expected Mail not correct formatted, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, svc := setup()
		_, err := svc.Delete(ctx, &dto.DeleteUserRequest{Email: strPtr("ghost@example.com")})
		if err == nil || err.Error() != "User not found" {
			t.Errorf("expected User not found, got %v", err)
		}
	})

	t.Run("admins are protected", func(t *testing.T) {
		_, _, _, svc := setup()
		_, err := svc.Delete(ctx, &dto.DeleteUserRequest{Email: strPtr("boss@example.com")})
		if err == nil || err.Error() != "Cannot delete an admin" {
			t.Errorf("expected Cannot delete an admin, got %v", err)
		}
	})

	t.Run("ungrouped user", func(t *testing.T) {
		users, transactions, _, svc := setup()
		result, err := svc.Delete(ctx, &dto.DeleteUserRequest{Email: strPtr("mario@example.com")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.DeletedTransactions != 2 {
			t.Errorf("expected 2 deleted transactions, got %d", result.DeletedTransactions)
		}
		if result.DeletedFromGroup {
			t.Error("expected deletedFromGroup false")
		}
		if u, _ := users.GetByEmail(ctx, "mario@example.com"); u != nil {
			t.Error("user was not deleted")
		}
		if tx, _ := transactions.GetByID(ctx, "t-3"); tx == nil {
			t.Error("another user's transaction was deleted")
		}
	})

	t.Run("member is pulled from their group", func(t *testing.T) {
		_, _, groups, svc := setup()
		groups.addGroup(&domain.Group{ID: "g-1", Name: "family", Members: []domain.GroupMember{
			{Email: "mario@example.com"},
			{Email: "luigi@example.com"},
		}})

		result, err := svc.Delete(ctx, &dto.DeleteUserRequest{Email: strPtr("mario@example.com")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.DeletedFromGroup {
			t.Error("expected deletedFromGroup true")
		}
		group, _ := groups.GetByName(ctx, "family")
		if group == nil || len(group.Members) != 1 || group.Members[0].Email != "luigi@example.com" {
			t.Errorf("unexpected group state %+v", group)
		}
	})

	t.Run("last member takes the group down", func(t *testing.T) {
		_, _, groups, svc := setup()
		groups.addGroup(&domain.Group{ID: "g-1", Name: "solo", Members: []domain.GroupMember{
			{Email: "mario@example.com"},
		}})

		result, err := svc.Delete(ctx, &dto.DeleteUserRequest{Email: strPtr("mario@example.com")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.DeletedFromGroup {
			t.Error("expected deletedFromGroup true")
		}
		if group, _ := groups.GetByName(ctx, "solo"); group != nil {
			t.Error("group was not deleted with its last member")
		}
	})
}
