package main

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_outputFileName(t *testing.T) {
	tests := []struct {
		name      string
		resultPth string
		want      string
	}{
		{
			name:      "json result file",
			resultPth: "/tmp/results/unit_tests.json",
			want:      "unit_tests.xml",
		},
		{
			name:      "no extension",
			resultPth: "/tmp/results/unit_tests",
			want:      "unit_tests.xml",
		},
		{
			name:      "only the base name is kept",
			resultPth: "nested/dir/widget.tests.json",
			want:      "widget.tests.xml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputFileName(tt.resultPth); got != tt.want {
				t.Errorf("outputFileName(%q) = %v, want %v", tt.resultPth, got, tt.want)
			}
		})
	}
}

func Test_collectResultFiles(t *testing.T) {
	tempDir := t.TempDir()

	jsonA := filepath.Join(tempDir, "a.json")
	jsonB := filepath.Join(tempDir, "b.json")
	other := filepath.Join(tempDir, "notes.txt")
	for _, pth := range []string{jsonA, jsonB, other} {
		if err := os.WriteFile(pth, []byte("{}"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("single file", func(t *testing.T) {
		got, err := collectResultFiles(jsonA)
		if err != nil {
			t.Fatalf("collectResultFiles() error = %v", err)
		}
		if len(got) != 1 || got[0] != jsonA {
			t.Errorf("collectResultFiles() = %v, want [%s]", got, jsonA)
		}
	})

	t.Run("directory collects json files only", func(t *testing.T) {
		got, err := collectResultFiles(tempDir)
		if err != nil {
			t.Fatalf("collectResultFiles() error = %v", err)
		}
		want := []string{jsonA, jsonB}
		if len(got) != len(want) {
			t.Fatalf("collectResultFiles() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("collectResultFiles()[%d] = %v, want %v", i, got[i], want[i])
			}
		}
	})

	t.Run("missing path", func(t *testing.T) {
		if _, err := collectResultFiles(filepath.Join(tempDir, "missing.json")); err == nil {
			t.Error("collectResultFiles() expected an error")
		}
	})

	t.Run("directory without results", func(t *testing.T) {
		emptyDir := t.TempDir()
		if _, err := collectResultFiles(emptyDir); err == nil {
			t.Error("collectResultFiles() expected an error")
		}
	})
}
