package item

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wanderlist/wanderlist/pkg/geo"
)

func newTestService() *Service {
	return NewService(NewInMemoryRepository())
}

func TestService_Create(t *testing.T) {
	svc := newTestService()

	it, err := svc.Create(context.Background(), "usr_1", CreateInput{
		Title:       "See the northern lights",
		Description: "Somewhere above the Arctic Circle",
		Coordinates: &geo.Coordinate{Lat: 69.6492, Lon: 18.9553},
		Interests:   []string{"nature"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if it.ID == "" {
		t.Error("expected generated ID")
	}
	if it.Completed {
		t.Error("new item must start incomplete")
	}
	if it.CompletedAt != nil {
		t.Error("new item must not carry a completion date")
	}
	if it.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"blank title", CreateInput{Title: "   "}},
		{"bad latitude", CreateInput{Title: "x", Coordinates: &geo.Coordinate{Lat: 91, Lon: 0}}},
		{"bad longitude", CreateInput{Title: "x", Coordinates: &geo.Coordinate{Lat: 0, Lon: -200}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), "usr_1", tt.input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestService_SetCompletion_RequiresDate(t *testing.T) {
	svc := newTestService()
	it, err := svc.Create(context.Background(), "usr_1", CreateInput{Title: "Climb Kilimanjaro"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.SetCompletion(context.Background(), "usr_1", it.ID, true, nil)
	if !errors.Is(err, ErrCompletionDateRequired) {
		t.Fatalf("expected ErrCompletionDateRequired, got %v", err)
	}

	when := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	updated, err := svc.SetCompletion(context.Background(), "usr_1", it.ID, true, &when)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !updated.Completed || updated.CompletedAt == nil || !updated.CompletedAt.Equal(when) {
		t.Errorf("expected completed with date %v, got %+v", when, updated)
	}
}

func TestService_SetCompletion_UncompleteClearsDate(t *testing.T) {
	svc := newTestService()
	it, _ := svc.Create(context.Background(), "usr_1", CreateInput{Title: "Route 66"})

	when := time.Now()
	if _, err := svc.SetCompletion(context.Background(), "usr_1", it.ID, true, &when); err != nil {
		t.Fatalf("complete: %v", err)
	}

	updated, err := svc.SetCompletion(context.Background(), "usr_1", it.ID, false, &when)
	if err != nil {
		t.Fatalf("uncomplete: %v", err)
	}
	if updated.Completed {
		t.Error("expected incomplete")
	}
	if updated.CompletedAt != nil {
		t.Error("un-completing must clear CompletedAt unconditionally")
	}
}

func TestService_List_Filters(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	travel := "Travel"
	food := "Food"
	svc.Create(ctx, "usr_1", CreateInput{Title: "Kyoto", Category: &travel, Interests: []string{"culture"}})
	svc.Create(ctx, "usr_1", CreateInput{Title: "Noma", Category: &food, Interests: []string{"fine-dining"}})
	svc.Create(ctx, "usr_2", CreateInput{Title: "Someone else's"})

	all, err := svc.List(ctx, "usr_1", ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 items for usr_1, got %d", len(all))
	}

	byCategory, _ := svc.List(ctx, "usr_1", ListFilter{Category: "Food"})
	if len(byCategory) != 1 || byCategory[0].Title != "Noma" {
		t.Errorf("category filter failed: %+v", byCategory)
	}

	byInterest, _ := svc.List(ctx, "usr_1", ListFilter{Interest: "culture"})
	if len(byInterest) != 1 || byInterest[0].Title != "Kyoto" {
		t.Errorf("interest filter failed: %+v", byInterest)
	}
}

func TestService_Get_WrongUser(t *testing.T) {
	svc := newTestService()
	it, _ := svc.Create(context.Background(), "usr_1", CreateInput{Title: "Private"})

	_, err := svc.Get(context.Background(), "usr_2", it.ID)
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound for other user, got %v", err)
	}
}
