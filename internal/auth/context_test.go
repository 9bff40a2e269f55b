package auth

import (
	"context"
	"testing"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		UserID: 1,
		Role:   RoleParent,
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got.UserID != 1 {
		t.Errorf("UserID = %d, want 1", got.UserID)
	}
	if got.Role != RoleParent {
		t.Errorf("Role = %q, want %q", got.Role, RoleParent)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestUserID(t *testing.T) {
	ac := AuthContext{UserID: 7}
	ctx := WithAuth(context.Background(), ac)
	if UserID(ctx) != 7 {
		t.Errorf("UserID = %d, want 7", UserID(ctx))
	}
}

func TestUserIDMissing(t *testing.T) {
	if UserID(context.Background()) != 0 {
		t.Error("expected 0 for missing context")
	}
}

func TestIsParent(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{Role: RoleParent})
	if !IsParent(ctx) {
		t.Error("expected IsParent = true for parent role")
	}
}

func TestIsParentFalse(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{Role: RoleChild})
	if IsParent(ctx) {
		t.Error("expected IsParent = false for child role")
	}
}

func TestIsParentMissing(t *testing.T) {
	if IsParent(context.Background()) {
		t.Error("expected IsParent = false for missing context")
	}
}
