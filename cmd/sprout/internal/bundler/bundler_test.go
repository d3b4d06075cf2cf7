package bundler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestStart_InitialBuildIsEntryContents(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.ui")
	if err := os.WriteFile(entry, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := &Bundler{Entry: entry, Log: zap.NewNop()}
	builds, err := b.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case bundle := <-builds:
		if bundle != "v1" {
			t.Errorf("initial build = %q, want the entry contents", bundle)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no initial build")
	}
}

func TestStart_BuildCommandOutputIsBundle(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.ui")
	if err := os.WriteFile(entry, []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := &Bundler{Entry: entry, Build: "printf built-output", Log: zap.NewNop()}
	builds, err := b.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if bundle := <-builds; bundle != "built-output" {
		t.Errorf("bundle = %q, want the command's stdout", bundle)
	}
}

func TestStart_RebuildsOnChange(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.ui")
	if err := os.WriteFile(entry, []byte("v1"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := &Bundler{Entry: entry, Log: zap.NewNop()}
	builds, err := b.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-builds // initial

	if err := os.WriteFile(entry, []byte("v2"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case bundle := <-builds:
			if bundle == "v2" {
				return
			}
		case <-deadline:
			t.Fatal("rebuild never arrived")
		}
	}
}

func TestStart_WatchesDirectoriesCreatedAfterStart(t *testing.T) {
	dir := t.TempDir()
	entry := filepath.Join(dir, "main.ui")
	if err := os.WriteFile(entry, []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	// The build output lives outside the watched tree so the only event
	// source is the new subdirectory.
	state := filepath.Join(t.TempDir(), "state")
	if err := os.WriteFile(state, []byte("s1"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := &Bundler{Entry: entry, Build: "cat " + state, Log: zap.NewNop()}
	builds, err := b.Start(ctx)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-builds // initial

	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// Let the create event land so the subdirectory watch is attached.
	time.Sleep(300 * time.Millisecond)

	if err := os.WriteFile(state, []byte("s2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "part.ui"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.After(5 * time.Second)
	for {
		select {
		case bundle := <-builds:
			if bundle == "s2" {
				return
			}
		case <-deadline:
			t.Fatal("change under the new directory never triggered a rebuild")
		}
	}
}

func TestStart_MissingEntryFails(t *testing.T) {
	b := &Bundler{Entry: filepath.Join(t.TempDir(), "absent.ui"), Log: zap.NewNop()}
	if _, err := b.Start(context.Background()); err == nil {
		t.Fatal("expected an error for a missing entry point")
	}
}

func TestStart_DirectoryEntryFails(t *testing.T) {
	b := &Bundler{Entry: t.TempDir(), Log: zap.NewNop()}
	if _, err := b.Start(context.Background()); err == nil {
		t.Fatal("expected an error for a directory entry point")
	}
}
