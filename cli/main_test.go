package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten chars!", 18, "exactly ten chars!"},
		{"this title is far too long for the table", 10, "this ti..."},
		{"日本語のタイトルが長すぎる場合の切り詰め", 10, "日本語のタイト..."},
	}

	for _, tt := range tests {
		got := truncate(tt.input, tt.maxLen)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.input, tt.maxLen)
		}
	}
}

func TestParseNamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	content := "# comment line\n0=First Name\n\n2 = Spaced Name\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	overrides, err := parseNamesFile(path)
	if err != nil {
		t.Fatalf("parseNamesFile: %v", err)
	}
	want := map[int]string{0: "First Name", 2: "Spaced Name"}
	if !reflect.DeepEqual(overrides, want) {
		t.Errorf("overrides = %v, want %v", overrides, want)
	}
}

func TestParseNamesFileBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	if err := os.WriteFile(path, []byte("no separator here\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := parseNamesFile(path); err == nil {
		t.Fatal("parseNamesFile accepted a line without =")
	}
}

func TestParseNamesFileEmptyPath(t *testing.T) {
	overrides, err := parseNamesFile("")
	if err != nil || overrides != nil {
		t.Errorf("parseNamesFile(\"\") = %v, %v; want nil, nil", overrides, err)
	}
}
