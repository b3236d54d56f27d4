package main

import (
	"context"
	"testing"

	"github.com/san-kum/moodcanvas/internal/config"
	"github.com/san-kum/moodcanvas/internal/scene"
	"github.com/san-kum/moodcanvas/internal/storage"
)

func TestMoodArg(t *testing.T) {
	cfg := config.DefaultConfig()
	if got := moodArg(cfg, nil); got != config.DefaultMood {
		t.Errorf("moodArg(nil) = %q", got)
	}
	if got := moodArg(cfg, []string{"quiet", "rain"}); got != "quiet rain" {
		t.Errorf("moodArg = %q", got)
	}
}

func TestOpenRepo(t *testing.T) {
	for _, kind := range []string{config.StorageFile, config.StorageSQLite} {
		t.Run(kind, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.DataDir = t.TempDir()
			cfg.Storage = kind

			repo, closeRepo, err := openRepo(cfg)
			if err != nil {
				t.Fatalf("openRepo: %v", err)
			}
			defer closeRepo()

			sc := scene.New("Calm", 3, scene.Viewport{Width: 32, Height: 24})
			saved, err := storage.Capture(context.Background(), repo, sc, 0.5)
			if err != nil {
				t.Fatalf("Capture: %v", err)
			}
			got, err := repo.Load(context.Background(), saved.ID)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got.Seed != 3 || len(got.Elements) != sc.Count() {
				t.Errorf("loaded %+v with %d elements", got, len(got.Elements))
			}
		})
	}
}
