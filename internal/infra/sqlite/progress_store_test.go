package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"adaptive-assessment-service/internal/domain"
)

func TestProgressStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "progress.db")

	store, err := Open(ctx, path, "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	progress := domain.Progress{
		CurrentDay:          3,
		UserData:            domain.UserProfile{Name: "Alice", Email: "alice@example.com"},
		UserResponses:       map[string]domain.Response{"q2": {QuestionID: "q2", Value: "7", Day: 1}},
		ExpansionsTriggered: []domain.ExpansionEvent{{Day: 3, ModuleNames: []string{"FRAGMENTED_SLEEP"}, QuestionCount: 1}},
	}
	if err := store.Save(ctx, progress); err != nil {
		t.Fatalf("save: %v", err)
	}
	progress.CurrentDay = 4
	if err := store.Save(ctx, progress); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	store, err = Open(ctx, path, "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.CurrentDay != 4 || loaded.UserData.Email != "alice@example.com" || loaded.UserResponses["q2"].Value != "7" {
		t.Fatalf("unexpected progress %+v", loaded)
	}
	if len(loaded.ExpansionsTriggered) != 1 || loaded.ExpansionsTriggered[0].ModuleNames[0] != "FRAGMENTED_SLEEP" {
		t.Fatalf("unexpected expansions %+v", loaded.ExpansionsTriggered)
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected deleted, got %v", err)
	}
}

func TestProgressStoreKeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.db")

	a, err := Open(ctx, path, "a")
	if err != nil {
		t.Fatalf("open a: %v", err)
	}
	defer a.Close()
	if err := a.Save(ctx, domain.Progress{CurrentDay: 2, UserData: domain.UserProfile{Name: "A"}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	b, err := Open(ctx, path, "b")
	if err != nil {
		t.Fatalf("open b: %v", err)
	}
	defer b.Close()
	if _, err := b.Load(ctx); !errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected key b empty, got %v", err)
	}
}
