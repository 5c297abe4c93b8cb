package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	assetKey     contextKey = "asset"
	targetBPMKey contextKey = "target_bpm"
)

// WithRunID annotates context with the invocation correlation identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the invocation correlation identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithAsset annotates context with the path of the audio file being processed.
func WithAsset(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, assetKey, path)
}

// AssetFromContext returns the asset path if present.
func AssetFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(assetKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithTargetBPM annotates context with the tempo currently being rendered.
func WithTargetBPM(ctx context.Context, bpm float64) context.Context {
	if bpm <= 0 {
		return ctx
	}
	return context.WithValue(ctx, targetBPMKey, bpm)
}

// TargetBPMFromContext returns the target tempo if present.
func TargetBPMFromContext(ctx context.Context) (float64, bool) {
	switch v := ctx.Value(targetBPMKey).(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}
