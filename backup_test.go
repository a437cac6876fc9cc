package comma

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestMakeBackupWithSuffixNames(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		want string
	}{
		{"extension", "data.csv", "data_241018.csv"},
		{"noExtension", "README", "README_241018"},
		{"dottedDirectory", "dir.v1/file", "dir.v1/file_241018"},
		{"hiddenFile", ".prices", ".prices_241018"},
		{"doubleExtension", "dump.tar.gz", "dump.tar_241018.gz"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fsys := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fsys, tc.path, []byte("x"), 0o644))

			orig, backup, err := MakeBackupWithSuffix(fsys, tc.path, "241018")
			require.NoError(t, err)
			require.Equal(t, tc.path, orig)
			require.Equal(t, tc.want, backup)
		})
	}
}

func TestMakeBackupCollisions(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "data.csv", []byte("v1"), 0o600))

	_, first, err := MakeBackupWithSuffix(fsys, "data.csv", "s")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fsys, "data.csv", []byte("v2"), 0o600))
	_, second, err := MakeBackupWithSuffix(fsys, "data.csv", "s")
	require.NoError(t, err)
	_, third, err := MakeBackupWithSuffix(fsys, "data.csv", "s")
	require.NoError(t, err)

	require.Equal(t, "data_s.csv", first)
	require.Equal(t, "data_s_1.csv", second)
	require.Equal(t, "data_s_2.csv", third)

	got, err := afero.ReadFile(fsys, first)
	require.NoError(t, err)
	require.Equal(t, "v1", string(got))
	got, err = afero.ReadFile(fsys, second)
	require.NoError(t, err)
	require.Equal(t, "v2", string(got))

	info, err := fsys.Stat(second)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMakeBackupUsesTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\r\n"), 0o644))

	year := time.Now().Format("2006")
	_, backup, err := MakeBackup(afero.NewOsFs(), path, "2006")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "prices_"+year+".csv"), backup)

	got, err := os.ReadFile(backup)
	require.NoError(t, err)
	require.Equal(t, "a,b\r\n", string(got))

	// nil filesystem means the OS one; empty template means yymmdd.
	_, backup, err = MakeBackup(nil, path, "")
	require.NoError(t, err)
	require.Len(t, filepath.Base(backup), len("prices_060102.csv"))
}

func TestMakeBackupMissingSource(t *testing.T) {
	t.Parallel()

	_, _, err := MakeBackupWithSuffix(afero.NewMemMapFs(), "nope.csv", "s")
	require.ErrorIs(t, err, os.ErrNotExist)
}
