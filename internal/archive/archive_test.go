package archive

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/squirrel-labs/squirrel-setup/internal/archive/archivetest"
	"github.com/squirrel-labs/squirrel-setup/internal/setuperr"
)

func openArchive(t *testing.T, fs afero.Fs, files ...archivetest.File) *Reader {
	t.Helper()
	data := archivetest.Build(t, files...)
	r, err := Open(bytes.NewReader(data), int64(len(data)), WithFs(fs))
	require.NoError(t, err)
	return r
}

func TestFindBySuffix(t *testing.T) {
	r := openArchive(t, afero.NewMemMapFs(),
		archivetest.File{Name: "lib/foo.dll", Body: []byte("dll")},
		archivetest.File{Name: "bin/MyApp.Squirrel.exe", Body: []byte("updater")},
		archivetest.File{Name: "readme.txt", Body: []byte("hi")},
	)

	e, err := r.Find(NameHasSuffix("Squirrel.exe", false))
	require.NoError(t, err)
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, "bin/MyApp.Squirrel.exe", e.Name)
	assert.Equal(t, uint64(len("updater")), e.UncompressedSize)

	_, err = r.Find(NameHasSuffix("Update.exe", false))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNameHasSuffix(t *testing.T) {
	tests := []struct {
		name  string
		entry Entry
		fold  bool
		want  bool
	}{
		{"exact", Entry{Name: "Squirrel.exe"}, false, true},
		{"nested", Entry{Name: "lib/net45/Squirrel.exe"}, false, true},
		{"case differs", Entry{Name: "lib/squirrel.EXE"}, false, false},
		{"case folded", Entry{Name: "lib/squirrel.EXE"}, true, true},
		{"directory", Entry{Name: "Squirrel.exe/", IsDir: true}, false, false},
		{"too short", Entry{Name: "exe"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NameHasSuffix("Squirrel.exe", tt.fold)(tt.entry))
		})
	}
}

func TestListIncludesDirectories(t *testing.T) {
	r := openArchive(t, afero.NewMemMapFs(),
		archivetest.File{Name: "lib/"},
		archivetest.File{Name: "lib/app.dll", Body: []byte("x")},
	)

	entries := r.List()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].IsDir)
	assert.False(t, entries[1].IsDir)
	assert.Equal(t, 2, r.Len())

	// The sequence restarts on every call.
	var names []string
	for e := range r.Entries() {
		names = append(names, e.Name)
	}
	for e := range r.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"lib/", "lib/app.dll", "lib/", "lib/app.dll"}, names)

	_, err := r.Entry(5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenRejectsCorruptInput(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too small", []byte("PK")},
		{"not a zip", bytes.Repeat([]byte("garbage!"), 64)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(bytes.NewReader(tt.data), int64(len(tt.data)))
			require.Error(t, err)
			assert.True(t, setuperr.Is(err, setuperr.KindCorruptArchive))
		})
	}
}

func TestExtractToFileOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := openArchive(t, fs, archivetest.File{Name: "Squirrel.exe", Body: []byte("0123456789")})

	dest := filepath.Join("/tmp", "squirrel1.exe")
	require.NoError(t, afero.WriteFile(fs, dest, []byte("stale content that is longer"), 0o644))

	e, err := r.Find(NameHasSuffix("Squirrel.exe", false))
	require.NoError(t, err)
	require.NoError(t, r.ExtractToFile(e, dest))

	got, err := afero.ReadFile(fs, dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), got)
}

func TestExtractToFileStaleEntry(t *testing.T) {
	r := openArchive(t, afero.NewMemMapFs(), archivetest.File{Name: "a.txt", Body: []byte("a")})

	err := r.ExtractToFile(Entry{Index: 7, Name: "a.txt"}, "/tmp/a.txt")
	require.Error(t, err)
	assert.True(t, setuperr.Is(err, setuperr.KindExtraction))

	err = r.ExtractToFile(Entry{Index: 0, Name: "b.txt"}, "/tmp/a.txt")
	assert.True(t, setuperr.Is(err, setuperr.KindExtraction))
}

func TestExtractAll(t *testing.T) {
	fs := afero.NewMemMapFs()
	r := openArchive(t, fs,
		archivetest.File{Name: "lib/"},
		archivetest.File{Name: "lib/net45/app.dll", Body: []byte("dll")},
		archivetest.File{Name: "Update.exe", Body: []byte("update"), Store: true},
	)

	base := "/scratch/tempa"
	require.NoError(t, afero.WriteFile(fs, filepath.Join(base, "Update.exe"), []byte("old"), 0o644))

	written, err := r.ExtractAll(base)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(base, "lib", "net45", "app.dll"),
		filepath.Join(base, "Update.exe"),
	}, written)

	got, err := afero.ReadFile(fs, filepath.Join(base, "Update.exe"))
	require.NoError(t, err)
	assert.Equal(t, []byte("update"), got)
}

func TestSafeJoin(t *testing.T) {
	base := filepath.Join("/scratch", "tempb")
	tests := []struct {
		name    string
		entry   string
		want    string
		wantErr bool
	}{
		{"plain", "good.txt", filepath.Join(base, "good.txt"), false},
		{"nested", "lib/net45/a.dll", filepath.Join(base, "lib", "net45", "a.dll"), false},
		{"dot segments inside", "lib/../a.dll", filepath.Join(base, "a.dll"), false},
		{"parent", "../evil.txt", "", true},
		{"deep parent", "lib/../../evil.txt", "", true},
		{"only parent", "..", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := safeJoin(base, tt.entry)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
