package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"adaptive-assessment-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
)

func TestProgressStoreSetsAndClearsKey(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewProgressStore(newClient(mr), "zoe:progress", 0)

	if _, err := store.Load(ctx); !errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	progress := domain.Progress{
		CurrentDay: 5,
		UserData:   domain.UserProfile{Name: "Alice"},
		UserResponses: map[string]domain.Response{
			"q1": {QuestionID: "q1", QuestionText: "Trouble sleeping?", Value: "Yes", Day: 1,
				Timestamp: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		},
		ExpansionsTriggered: []domain.ExpansionEvent{{Day: 1, ModuleNames: []string{"INSOMNIA"}, QuestionCount: 2}},
	}
	if err := store.Save(ctx, progress); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !mr.Exists("zoe:progress") {
		t.Fatalf("expected redis key to be set")
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.CurrentDay != 5 || loaded.UserResponses["q1"].Value != "Yes" || len(loaded.ExpansionsTriggered) != 1 {
		t.Fatalf("unexpected progress %+v", loaded)
	}

	progress.CurrentDay = 6
	_ = store.Save(ctx, progress)
	if loaded, _ := store.Load(ctx); loaded.CurrentDay != 6 {
		t.Fatalf("expected overwrite, got day %d", loaded.CurrentDay)
	}

	if err := store.Delete(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if mr.Exists("zoe:progress") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestProgressStoreReportsCorruptValue(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	_ = mr.Set("assessment:progress", "not json")
	store := NewProgressStore(newClient(mr), "", 0)
	if _, err := store.Load(context.Background()); err == nil || errors.Is(err, domain.ErrProgressNotFound) {
		t.Fatalf("expected decode error, got %v", err)
	}
}
