package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bin")
	want := []byte{0xB8, 0x01, 0x00, 0xF4}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#02x, want %#02x", i, got[i], want[i])
		}
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Errorf("expected an error for a missing file")
	}
}

func TestParseSegOff(t *testing.T) {
	seg, off, err := ParseSegOff("F000:FFF0")
	if err != nil {
		t.Fatalf("ParseSegOff: %v", err)
	}
	if seg != 0xF000 || off != 0xFFF0 {
		t.Errorf("seg:off = %04X:%04X, want F000:FFF0", seg, off)
	}

	if _, _, err := ParseSegOff("notvalid"); err == nil {
		t.Errorf("expected an error for a missing colon")
	}
	if _, _, err := ParseSegOff("ZZZZ:0000"); err == nil {
		t.Errorf("expected an error for a non-hex segment")
	}
}

func TestFontROMSizeCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "font.bin")
	if err := os.WriteFile(path, make([]byte, 10), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if _, err := FontROM(path); err == nil {
		t.Errorf("expected an error for a wrong-sized font ROM")
	}

	full := filepath.Join(dir, "font_ok.bin")
	if err := os.WriteFile(full, make([]byte, 2048), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	font, err := FontROM(full)
	if err != nil {
		t.Fatalf("FontROM: %v", err)
	}
	if len(font) != 2048 {
		t.Errorf("len(font) = %d, want 2048", len(font))
	}
}
