package settings

import (
	"context"
	"errors"
	"testing"
)

func TestService_Get_Defaults(t *testing.T) {
	svc := NewService(NewInMemoryRepository())

	s, err := svc.Get(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.ProximityRangeMeters != DefaultProximityRangeMeters {
		t.Errorf("expected default range %f, got %f", DefaultProximityRangeMeters, s.ProximityRangeMeters)
	}
	if !s.SpeechEnabled {
		t.Error("speech should default to enabled")
	}
}

func TestService_Update_Bounds(t *testing.T) {
	svc := NewService(NewInMemoryRepository())
	ctx := context.Background()

	tooSmall := 50.0
	if _, err := svc.Update(ctx, "usr_1", UpdateInput{ProximityRangeMeters: &tooSmall}); !errors.Is(err, ErrRangeOutOfBounds) {
		t.Errorf("expected ErrRangeOutOfBounds for 50m, got %v", err)
	}

	tooLarge := 200000.0
	if _, err := svc.Update(ctx, "usr_1", UpdateInput{ProximityRangeMeters: &tooLarge}); !errors.Is(err, ErrRangeOutOfBounds) {
		t.Errorf("expected ErrRangeOutOfBounds for 200km, got %v", err)
	}

	valid := 50000.0
	s, err := svc.Update(ctx, "usr_1", UpdateInput{ProximityRangeMeters: &valid})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.ProximityRangeMeters != valid {
		t.Errorf("expected range %f, got %f", valid, s.ProximityRangeMeters)
	}

	// The accessor used by the radar reflects the stored value.
	if got := svc.ProximityRange(ctx, "usr_1"); got != valid {
		t.Errorf("ProximityRange = %f, want %f", got, valid)
	}
}
