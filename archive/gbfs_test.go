package archive

import (
	"bytes"
	"errors"
	"testing"
)

func TestBuildOpenRoundTrip(t *testing.T) {
	files := []File{
		{Name: "movie.gbm", Data: []byte{1, 2, 3, 4, 5}},
		{Name: "movie.gbs", Data: []byte{9, 8, 7}},
	}

	image, err := Build(files)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	a, err := Open(image)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if a.Len() != 2 {
		t.Fatalf("len %d, want 2", a.Len())
	}

	for _, f := range files {
		got, err := a.Get(f.Name)
		if err != nil {
			t.Fatalf("Get(%s) failed: %v", f.Name, err)
		}
		if !bytes.Equal(got, f.Data) {
			t.Errorf("Get(%s) = %v, want %v", f.Name, got, f.Data)
		}
	}

	if _, err := a.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: got %v", err)
	}
}

func TestFindByExtensionCaseInsensitive(t *testing.T) {
	image, err := Build([]File{
		{Name: "INTRO.GBS", Data: []byte{1}},
		{Name: "movie.gbm", Data: []byte{2}},
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	a, err := Open(image)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	f, err := a.FindByExtension("gbs")
	if err != nil {
		t.Fatalf("FindByExtension(gbs) failed: %v", err)
	}
	if f.Name != "INTRO.GBS" {
		t.Errorf("found %s, want INTRO.GBS", f.Name)
	}

	if n := a.CountByExtension("gbm"); n != 1 {
		t.Errorf("gbm count %d, want 1", n)
	}
	if n := a.CountByExtension("wav"); n != 0 {
		t.Errorf("wav count %d, want 0", n)
	}

	// Extension match requires the dot separator.
	image2, _ := Build([]File{{Name: "notgbs", Data: []byte{1}}})
	a2, _ := Open(image2)
	if _, err := a2.FindByExtension("gbs"); !errors.Is(err, ErrNotFound) {
		t.Errorf("suffix without dot must not match: %v", err)
	}
}

func TestFindSkipsLeadingImage(t *testing.T) {
	gbfs, err := Build([]File{{Name: "movie.gbs", Data: []byte{42}}})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	// Archive embedded after a 1 KiB ROM, 256-byte aligned.
	image := append(make([]byte, 1024), gbfs...)
	a, err := Find(image)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	data, err := a.Get("movie.gbs")
	if err != nil || len(data) != 1 || data[0] != 42 {
		t.Errorf("embedded archive lookup: %v %v", data, err)
	}

	if _, err := Find(make([]byte, 4096)); !errors.Is(err, ErrBadArchive) {
		t.Errorf("no archive: got %v", err)
	}
}

func TestOpenRejectsCorruptImages(t *testing.T) {
	if _, err := Open([]byte("short")); !errors.Is(err, ErrBadArchive) {
		t.Errorf("short image: got %v", err)
	}

	image, _ := Build([]File{{Name: "a.gbs", Data: []byte{1, 2, 3}}})
	image[0] ^= 0xFF
	if _, err := Open(image); !errors.Is(err, ErrBadArchive) {
		t.Errorf("bad magic: got %v", err)
	}
}
