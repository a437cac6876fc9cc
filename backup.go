package comma

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// DefaultBackupTemplate formats the backup suffix as yymmdd.
const DefaultBackupTemplate = "060102"

// MakeBackup copies path to a sibling named after the current time formatted with template
// (DefaultBackupTemplate when empty). It returns the original and the backup path.
func MakeBackup(fsys afero.Fs, path, template string) (string, string, error) {
	if template == "" {
		template = DefaultBackupTemplate
	}
	return MakeBackupWithSuffix(fsys, path, time.Now().Format(template))
}

// MakeBackupWithSuffix copies path to name_suffix.ext, or name_suffix_N.ext for the smallest
// N that is still free. Names without an extension get the suffix appended.
func MakeBackupWithSuffix(fsys afero.Fs, path, suffix string) (string, string, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}

	src, err := fsys.Open(path)
	if err != nil {
		return path, "", err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return path, "", err
	}

	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	if ext == base {
		ext = ""
	}
	stem := strings.TrimSuffix(base, ext)

	for n := 0; ; n++ {
		tag := suffix
		if n > 0 {
			tag += "_" + strconv.Itoa(n)
		}
		candidate := dir + stem + "_" + tag + ext

		dst, err := fsys.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
		if os.IsExist(err) {
			continue
		}
		if err != nil {
			return path, "", err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			return path, "", fmt.Errorf("copy %s to %s: %w", path, candidate, err)
		}
		if err := dst.Close(); err != nil {
			return path, "", err
		}
		return path, candidate, nil
	}
}
