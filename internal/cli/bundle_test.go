package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/squirrel-labs/squirrel-setup/internal/archive/archivetest"
)

func TestStampSetupDefaultOutput(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir)
	pkg := writePackage(t, dir, archivetest.File{Name: "Squirrel.exe", Body: []byte("u")})

	out, m, err := stampSetup(template, pkg, "", true, testSettings())
	if err != nil {
		t.Fatalf("stampSetup: %v", err)
	}
	if want := filepath.Join(dir, "MyApp-1.0.0-fullSetup.exe"); out != want {
		t.Errorf("out = %q, want %q", out, want)
	}
	if !m.IsBundle() {
		t.Errorf("marker = %+v, want a stamped marker", m)
	}
}

func TestStampSetupRefusesToOverwriteInputs(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir)
	pkg := writePackage(t, dir, archivetest.File{Name: "Squirrel.exe", Body: []byte("u")})
	origTemplate, err := os.ReadFile(template)
	if err != nil {
		t.Fatal(err)
	}
	origPkg, err := os.ReadFile(pkg)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		out  string
	}{
		{"template", template},
		{"template via relative path", filepath.Join(dir, ".", filepath.Base(template))},
		{"package", pkg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := stampSetup(template, pkg, tt.out, false, testSettings()); err == nil {
				t.Fatal("expected an error")
			}
		})
	}

	gotTemplate, err := os.ReadFile(template)
	if err != nil {
		t.Fatalf("template was removed: %v", err)
	}
	if !bytes.Equal(gotTemplate, origTemplate) {
		t.Error("template was modified")
	}
	gotPkg, err := os.ReadFile(pkg)
	if err != nil {
		t.Fatalf("package was removed: %v", err)
	}
	if !bytes.Equal(gotPkg, origPkg) {
		t.Error("package was modified")
	}
}

func TestSameFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.exe")
	if err := os.WriteFile(a, []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		b    string
		want bool
	}{
		{"same path", a, true},
		{"uncleaned path", filepath.Join(dir, "sub", "..", "a.exe"), true},
		{"other missing file", filepath.Join(dir, "b.exe"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sameFile(a, tt.b); got != tt.want {
				t.Errorf("sameFile(%q, %q) = %v, want %v", a, tt.b, got, tt.want)
			}
		})
	}
}
