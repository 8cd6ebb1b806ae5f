package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	entries := map[string][]byte{
		"certificate_Jim_Green.pdf": []byte("jim-bytes"),
		"certificate_Ana_Li.pdf":    []byte("ana-bytes"),
	}

	p := NewPackager(DefaultCompressionLevel)
	for name, data := range entries {
		if err := p.Add(name, data); err != nil {
			t.Fatalf("Add(%s) failed: %v", name, err)
		}
	}

	name, data, err := p.Finalize("2024-06-01")
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if name != "certificates_2024-06-01.zip" {
		t.Fatalf("unexpected archive name: %q", name)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading archive back: %v", err)
	}
	if len(zr.File) != len(entries) {
		t.Fatalf("expected %d entries, got %d", len(entries), len(zr.File))
	}
	for _, f := range zr.File {
		want, ok := entries[f.Name]
		if !ok {
			t.Fatalf("unexpected entry %q", f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening entry %q: %v", f.Name, err)
		}
		got, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("reading entry %q: %v", f.Name, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("entry %q: got %q, want %q", f.Name, got, want)
		}
	}
}

func TestAddRejectsDuplicateName(t *testing.T) {
	p := NewPackager(DefaultCompressionLevel)
	if err := p.Add("a.pdf", []byte("one")); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if err := p.Add("a.pdf", []byte("two")); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestFinalizeTwice(t *testing.T) {
	p := NewPackager(DefaultCompressionLevel)
	if err := p.Add("a.pdf", []byte("one")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, _, err := p.Finalize("2024-06-01"); err != nil {
		t.Fatalf("first Finalize failed: %v", err)
	}
	if _, _, err := p.Finalize("2024-06-01"); !errors.Is(err, ErrFinalized) {
		t.Fatalf("expected ErrFinalized, got %v", err)
	}
}

func TestAddAfterFinalize(t *testing.T) {
	p := NewPackager(DefaultCompressionLevel)
	p.Add("a.pdf", []byte("one"))
	p.Finalize("2024-06-01")
	if err := p.Add("b.pdf", []byte("two")); !errors.Is(err, ErrFinalized) {
		t.Fatalf("expected ErrFinalized, got %v", err)
	}
}

func TestFinalizeEmpty(t *testing.T) {
	p := NewPackager(DefaultCompressionLevel)
	if _, _, err := p.Finalize("2024-06-01"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestOutOfRangeLevelFallsBack(t *testing.T) {
	p := NewPackager(42)
	if err := p.Add("a.pdf", []byte("payload")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if _, _, err := p.Finalize("2024-06-01"); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
}

func TestLen(t *testing.T) {
	p := NewPackager(DefaultCompressionLevel)
	if p.Len() != 0 {
		t.Fatal("fresh packager must be empty")
	}
	p.Add("a.pdf", []byte("x"))
	p.Add("b.pdf", []byte("y"))
	if p.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", p.Len())
	}
}
