package cli

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.png", "notes.txt", "c.JPEG"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	images, err := listImages(dir)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, "a.png"),
		filepath.Join(dir, "b.jpg"),
		filepath.Join(dir, "c.JPEG"),
	}
	if !reflect.DeepEqual(images, want) {
		t.Errorf("listImages = %v, want %v", images, want)
	}
}

func TestBuildJobsDeterministic(t *testing.T) {
	images := []string{"a.jpg", "b.jpg"}
	opts := &batchOpts{count: 3, seed: 42}

	first, err := buildJobs(images, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := buildJobs(images, opts)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 6 {
		t.Fatalf("jobs = %d, want 6", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same seed should produce identical job lists")
	}

	// Per-job seeds vary so variations differ.
	if first[0].Seed == first[1].Seed {
		t.Error("variations should get distinct seeds")
	}
}

func TestBuildJobsFixedLook(t *testing.T) {
	opts := &batchOpts{count: 2, seed: 1, presetName: "newspaper", themeName: "copper"}
	jobs, err := buildJobs([]string{"a.jpg"}, opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, j := range jobs {
		if j.Preset != "newspaper" || j.Theme != "copper" {
			t.Errorf("job look = %s/%s, want fixed newspaper/copper", j.Preset, j.Theme)
		}
	}
}

func TestBuildJobsRejectsUnknownLook(t *testing.T) {
	if _, err := buildJobs([]string{"a.jpg"}, &batchOpts{count: 1, presetName: "nope"}); err == nil {
		t.Error("unknown preset should abort the batch")
	}
	if _, err := buildJobs([]string{"a.jpg"}, &batchOpts{count: 1, themeName: "nope"}); err == nil {
		t.Error("unknown theme should abort the batch")
	}
}

func TestMarkUndispatched(t *testing.T) {
	jobs := []batchJob{
		{Index: 0, Input: "a.jpg", Preset: "classic_dots", Theme: "classic", Seed: 42},
		{Index: 1, Input: "b.jpg", Preset: "newspaper", Theme: "copper", Seed: 43},
		{Index: 2, Input: "c.jpg", Preset: "bold_dots", Theme: "inverted", Seed: 44},
	}
	results := make([]batchResult, len(jobs))
	results[0] = batchResult{Input: "a.jpg", Output: "out/a.png", Preset: "classic_dots", Theme: "classic", Seed: 42}
	results[1] = batchResult{Input: "b.jpg", Preset: "newspaper", Theme: "copper", Seed: 43, Error: "broken image"}

	markUndispatched(jobs, results)

	if results[0].Error != "" || results[1].Error != "broken image" {
		t.Error("completed results must not be rewritten")
	}
	got := results[2]
	if got.Input != "c.jpg" || got.Preset != "bold_dots" || got.Theme != "inverted" || got.Seed != 44 {
		t.Errorf("undispatched slot should carry the job's look: %+v", got)
	}
	if got.Error == "" {
		t.Error("undispatched slot should record a cancellation error")
	}

	manifest := buildManifest("id", results)
	if manifest.Rendered != 1 {
		t.Errorf("Rendered = %d, want 1", manifest.Rendered)
	}
	if manifest.Failed != 2 {
		t.Errorf("Failed = %d, want 2 (one broken, one cancelled)", manifest.Failed)
	}
}
