package services_test

import (
	"context"
	"testing"

	"github.com/pytatbro/metaltrophysolidv/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "20260825T101500.000Z")
	ctx = services.WithPassID(ctx, "a1b2c3d4")
	ctx = services.WithComponent(ctx, "syncer")

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "20260825T101500.000Z" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if id, ok := services.PassIDFromContext(ctx); !ok || id != "a1b2c3d4" {
		t.Fatalf("unexpected pass id: %v %v", id, ok)
	}
	if name, ok := services.ComponentFromContext(ctx); !ok || name != "syncer" {
		t.Fatalf("unexpected component: %v %v", name, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithPassID(ctx, "")
	if _, ok := services.PassIDFromContext(ctx); ok {
		t.Fatal("expected no pass id value")
	}
	ctx = services.WithComponent(ctx, "")
	if _, ok := services.ComponentFromContext(ctx); ok {
		t.Fatal("expected no component value")
	}
}
