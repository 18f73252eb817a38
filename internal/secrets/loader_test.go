package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	keyFile := filepath.Join(dir, "key")
	if err := os.WriteFile(keyFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("write key file: %v", err)
	}
	emptyFile := filepath.Join(dir, "empty")
	if err := os.WriteFile(emptyFile, []byte("\n"), 0o600); err != nil {
		t.Fatalf("write empty file: %v", err)
	}

	t.Setenv("JALE_TEST_SECRET", " from-env ")
	t.Setenv("JALE_TEST_EMPTY", "")

	tests := []struct {
		name    string
		src     Source
		want    string
		wantErr string
	}{
		{name: "file wins", src: Source{File: keyFile, Env: "JALE_TEST_SECRET", Value: "inline"}, want: "from-file"},
		{name: "env before value", src: Source{Env: "JALE_TEST_SECRET", Value: "inline"}, want: "from-env"},
		{name: "value", src: Source{Env: "JALE_TEST_EMPTY", Value: " inline "}, want: "inline"},
		{name: "empty file", src: Source{Name: "api key", File: emptyFile}, wantErr: "api key file"},
		{name: "missing file", src: Source{File: filepath.Join(dir, "nope")}, wantErr: "reading secret"},
		{name: "unset env", src: Source{Name: "api key", Env: "JALE_TEST_EMPTY"}, wantErr: "JALE_TEST_EMPTY is unset"},
		{name: "nothing", src: Source{}, wantErr: "secret is not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.src)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if got != tt.want {
				t.Fatalf("Load() = %q, want %q", got, tt.want)
			}
		})
	}
}
