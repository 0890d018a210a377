package paths

import (
	"os"
	"path/filepath"
)

const (
	AppDirName     = "genicons"
	ConfigFileName = "genicons-config.json"
	HistoryDBName  = "genicons.db"
	PublicDirName  = "public"
	DirPerm        = 0755
	FilePerm       = 0644
)

// AtomicWrite writes data to path via a temporary file + rename to avoid
// partial writes. The parent directory is created if needed.
func AtomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
// Any stat error other than "not exist" counts as existing so the
// caller surfaces the real error when it opens the file.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// DataDir returns the platform-specific data directory for genicons:
//   - Windows: %APPDATA%\genicons
//   - Unix:    ~/.config/genicons
//
// Falls back to os.TempDir()/genicons if neither is available.
func DataDir() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(home, ".config", AppDirName)
}
