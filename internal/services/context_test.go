package services_test

import (
	"context"
	"testing"

	"breakstretch/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithAsset(ctx, "/loops/amen_170.wav")
	ctx = services.WithTargetBPM(ctx, 120)

	if id, ok := services.RunIDFromContext(ctx); !ok || id != "run-123" {
		t.Fatalf("unexpected run id: %v %v", id, ok)
	}
	if asset, ok := services.AssetFromContext(ctx); !ok || asset != "/loops/amen_170.wav" {
		t.Fatalf("unexpected asset: %v %v", asset, ok)
	}
	if bpm, ok := services.TargetBPMFromContext(ctx); !ok || bpm != 120 {
		t.Fatalf("unexpected target: %v %v", bpm, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithAsset(ctx, "")
	ctx = services.WithTargetBPM(ctx, 0)
	if _, ok := services.AssetFromContext(ctx); ok {
		t.Fatal("expected no asset value")
	}
	if _, ok := services.TargetBPMFromContext(ctx); ok {
		t.Fatal("expected no target value")
	}
}
