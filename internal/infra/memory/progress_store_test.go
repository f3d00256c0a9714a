package memory

import (
	"context"
	"errors"
	"testing"

	"adaptive-assessment-service/internal/domain"
)

func TestProgressStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore()

	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	progress := domain.Progress{
		CurrentDay:    4,
		UserData:      domain.UserProfile{Name: "Alice"},
		UserResponses: map[string]domain.Response{"q1": {QuestionID: "q1", Value: "Yes", Day: 1}},
	}
	if err := store.Save(ctx, progress); err != nil {
		t.Fatalf("save: %v", err)
	}
	// Mutating the caller's copy must not leak into the store.
	progress.UserResponses["q1"] = domain.Response{Value: "No"}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.CurrentDay != 4 || loaded.UserResponses["q1"].Value != "Yes" {
		t.Fatalf("unexpected progress %+v", loaded)
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected removed, got %v", err)
	}
}
