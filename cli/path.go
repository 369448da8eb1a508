package cli

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ardnew/bdl/pkg"
)

const (
	// baseConfig is the base name of the configuration files.
	baseConfig = "config"

	// baseLibrary names the directory of shared sources under the
	// configuration directory.
	baseLibrary = "lib"

	dirMode os.FileMode = 0o700
)

// appName names the per-user directories after the running executable, so
// that a renamed binary keeps its own configuration. Leading dots are
// dropped, and debugger builds (__debug_bin<N>) use [pkg.Name].
var appName = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	return executableName(exe)
})

func executableName(path string) string {
	base := strings.TrimLeft(filepath.Base(path), ".")
	base = strings.TrimSuffix(base, filepath.Ext(base))

	if base == "" || strings.HasPrefix(base, "__debug_bin") {
		return pkg.Name
	}

	return base
}

// userDir returns the application directory under the directory reported
// by locate. If locate fails it falls back to hidden under the home
// directory, and then to the working directory.
func userDir(locate func() (string, error), hidden string) string {
	dir, err := locate()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, appName())
}

var (
	configDir = sync.OnceValue(func() string { return userDir(os.UserConfigDir, ".config") })
	cacheDir  = sync.OnceValue(func() string { return userDir(os.UserCacheDir, ".cache") })
)

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// libraryDir holds bdl sources shared by every project of the user. Imports
// not found elsewhere are looked up here.
func libraryDir() string { return configPath(baseLibrary) }

// mkdirAllRequired creates every per-user directory.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), libraryDir(), cacheDir()} {
		if err := os.MkdirAll(dir, dirMode); err != nil {
			return err
		}
	}

	return nil
}
