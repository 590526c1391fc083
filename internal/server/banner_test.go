package server

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/druidlabs/sampleserve/internal/config"
)

func TestListFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/b.csv", []byte(strings.Repeat("y", 20)), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/a.json", []byte(strings.Repeat("x", 10)), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/sub/nested.txt", []byte("nested"), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := listFiles(fs)
	if err != nil {
		t.Fatalf("listFiles() error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("listFiles() returned %d entries, want 2 (subdirectories skipped)", len(entries))
	}
	if entries[0].Name != "a.json" || entries[1].Name != "b.csv" {
		t.Errorf("entries not sorted by name: %q, %q", entries[0].Name, entries[1].Name)
	}
	if entries[0].Size != 10 || entries[1].Size != 20 {
		t.Errorf("sizes = %d, %d; want 10, 20", entries[0].Size, entries[1].Size)
	}
	for _, e := range entries {
		if len(e.Digest) != 8 {
			t.Errorf("digest for %s = %q, want 8 hex chars", e.Name, e.Digest)
		}
	}
}

func TestDigestFile_Stable(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/a.json", []byte("same bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	first := digestFile(fs, "a.json")
	second := digestFile(fs, "a.json")
	if first == "" || first != second {
		t.Errorf("digest not stable: %q vs %q", first, second)
	}
}

func TestPrintBanner(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/b.csv", []byte(strings.Repeat("y", 20)), 0644); err != nil {
		t.Fatal(err)
	}
	if err := afero.WriteFile(fs, "/a.json", []byte(strings.Repeat("x", 10)), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Host: "0.0.0.0", Port: 9000, Dir: "/srv/sample-data"}
	var buf bytes.Buffer
	printBanner(&buf, fs, cfg)
	out := buf.String()

	for _, want := range []string{
		"http://localhost:9000/a.json (10 bytes",
		"http://localhost:9000/b.csv (20 bytes",
		"Available files (2)",
		"http://localhost:9000/",
		"http://0.0.0.0:9000/",
		"/srv/sample-data",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("banner missing %q", want)
		}
	}

	if strings.Index(out, "a.json") > strings.Index(out, "b.csv") {
		t.Error("banner files not sorted alphabetically")
	}
}
