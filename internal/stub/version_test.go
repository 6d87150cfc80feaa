package stub

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func mkdirs(t *testing.T, fs afero.Fs, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := fs.MkdirAll(filepath.Join(root, n), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", n, err)
		}
	}
}

func TestLatestVersionDir(t *testing.T) {
	root := filepath.FromSlash("/apps/MyApp")
	tests := []struct {
		name    string
		dirs    []string
		files   []string
		want    string
		wantVer string
	}{
		{"single", []string{"app-1.0.0"}, nil, "app-1.0.0", "1.0.0"},
		{"numeric not lexical", []string{"app-1.10.0", "app-1.9.0", "app-1.2.0"}, nil, "app-1.10.0", "1.10.0"},
		{"release beats prerelease", []string{"app-2.0.0-beta", "app-2.0.0"}, nil, "app-2.0.0", "2.0.0"},
		{"skips garbage", []string{"app-1.0.0", "app-latest", "packages", "app-"}, nil, "app-1.0.0", "1.0.0"},
		{"ignores files", []string{"app-1.0.0"}, []string{"app-9.9.9"}, "app-1.0.0", "1.0.0"},
		{"tie goes to first name", []string{"app-1.2", "app-1.2.0"}, nil, "app-1.2", "1.2.0"},
		{"v prefix", []string{"app-v3.0.0", "app-2.0.0"}, nil, "app-v3.0.0", "3.0.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			mkdirs(t, fs, root, tt.dirs...)
			for _, f := range tt.files {
				if err := afero.WriteFile(fs, filepath.Join(root, f), nil, 0o644); err != nil {
					t.Fatal(err)
				}
			}

			dir, v, err := LatestVersionDir(fs, root, "app-")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := filepath.Join(root, tt.want); dir != want {
				t.Errorf("dir = %q, want %q", dir, want)
			}
			if v.String() != tt.wantVer {
				t.Errorf("version = %s, want %s", v, tt.wantVer)
			}
		})
	}
}

func TestLatestVersionDirNoCandidates(t *testing.T) {
	tests := []struct {
		name string
		dirs []string
	}{
		{"empty root", nil},
		{"no prefix match", []string{"current", "packages"}},
		{"nothing parses", []string{"app-one", "app-x.y.z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			root := filepath.FromSlash("/apps/MyApp")
			if err := fs.MkdirAll(root, 0o755); err != nil {
				t.Fatal(err)
			}
			mkdirs(t, fs, root, tt.dirs...)

			dir, v, err := LatestVersionDir(fs, root, "app-")
			if !errors.Is(err, ErrNoVersion) {
				t.Fatalf("expected ErrNoVersion, got %v", err)
			}
			if dir != "" || v != nil {
				t.Errorf("expected empty result, got %q %v", dir, v)
			}
		})
	}
}

func TestLatestVersionDirMissingRoot(t *testing.T) {
	_, _, err := LatestVersionDir(afero.NewMemMapFs(), "/nowhere", "app-")
	if err == nil {
		t.Fatal("expected error for missing root")
	}
	if errors.Is(err, ErrNoVersion) {
		t.Error("missing root should not be reported as no version")
	}
}
