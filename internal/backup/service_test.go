package backup

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlist/wanderlist/internal/item"
)

func newTestService(t *testing.T) (*Service, *item.Service) {
	t.Helper()
	items := item.NewService(item.NewInMemoryRepository())
	svc := NewService(ServiceConfig{
		Items:  items,
		Store:  NewInMemoryStore(),
		Logger: zerolog.Nop(),
		Delay:  -1,
	})
	return svc, items
}

func TestService_RunAndRestore(t *testing.T) {
	svc, items := newTestService(t)

	if _, err := items.Create(context.Background(), "usr_1", item.CreateInput{Title: "See Petra"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	snap, err := svc.Run(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Title != "See Petra" {
		t.Errorf("unexpected snapshot contents: %+v", snap.Items)
	}

	restored, err := svc.Restore(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.ID != snap.ID {
		t.Errorf("expected latest snapshot %s, got %s", snap.ID, restored.ID)
	}
}

func TestService_RestoreReturnsMostRecent(t *testing.T) {
	svc, items := newTestService(t)

	if _, err := items.Create(context.Background(), "usr_1", item.CreateInput{Title: "First"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Run(context.Background(), "usr_1"); err != nil {
		t.Fatalf("first run: %v", err)
	}

	if _, err := items.Create(context.Background(), "usr_1", item.CreateInput{Title: "Second"}); err != nil {
		t.Fatalf("create second: %v", err)
	}
	second, err := svc.Run(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	restored, err := svc.Restore(context.Background(), "usr_1")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.ID != second.ID || len(restored.Items) != 2 {
		t.Errorf("expected the second snapshot with 2 items, got %s with %d", restored.ID, len(restored.Items))
	}
}

func TestService_RestoreWithoutBackup(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Restore(context.Background(), "usr_1")
	if !errors.Is(err, ErrNoBackup) {
		t.Fatalf("expected ErrNoBackup, got %v", err)
	}
}

func TestService_DelayHonorsCancellation(t *testing.T) {
	items := item.NewService(item.NewInMemoryRepository())
	svc := NewService(ServiceConfig{
		Items:  items,
		Store:  NewInMemoryStore(),
		Logger: zerolog.Nop(),
		Delay:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svc.Run(ctx, "usr_1")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("cancellation took too long: %v", elapsed)
	}
}
