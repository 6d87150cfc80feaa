//go:build integration

package integration_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/squirrel-labs/squirrel-setup/internal/archive/archivetest"
	"github.com/squirrel-labs/squirrel-setup/internal/bundle"
)

// buildSetup writes a setup program into dir whose package carries the
// running test binary as the updater. It returns the setup path.
func buildSetup(t *testing.T, dir string) string {
	t.Helper()

	self, err := os.Executable()
	if err != nil {
		t.Fatalf("locating test binary: %v", err)
	}
	body, err := os.ReadFile(self)
	if err != nil {
		t.Fatalf("reading test binary: %v", err)
	}

	var tpl bytes.Buffer
	tpl.WriteString("MZ integration template")
	tpl.Write(bundle.Placeholder())
	host := filepath.Join(dir, "Integration Setup.exe")
	if err := os.WriteFile(host, tpl.Bytes(), 0o755); err != nil {
		t.Fatalf("writing template: %v", err)
	}

	pkg := archivetest.Build(t,
		archivetest.File{Name: "lib/net45/Squirrel.exe", Body: body},
		archivetest.File{Name: "lib/net45/app.dll", Body: []byte("not really a dll")},
	)
	pkgPath := filepath.Join(dir, "app-1.0.0-full.nupkg")
	if err := os.WriteFile(pkgPath, pkg, 0o644); err != nil {
		t.Fatalf("writing package: %v", err)
	}
	if _, err := bundle.Stamp(host, pkgPath); err != nil {
		t.Fatalf("stamping: %v", err)
	}
	return host
}

func assertDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("reading %s: %v", dir, err)
	}
	for _, e := range entries {
		t.Errorf("leftover in %s: %s", dir, e.Name())
	}
}
