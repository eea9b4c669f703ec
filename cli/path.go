package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/litscript/pkg"
)

const (
	// baseConfig is the base name of the configuration file.
	baseConfig = "config"

	// configExt is the extension of the YAML configuration file.
	configExt = ".yaml"
)

const defaultDirMode os.FileMode = 0o700

// debugBinary matches the executable names produced by dlv.
var debugBinary = regexp.MustCompile(`^__debug_bin\d*$`)

// appName names the configuration and cache subdirectories: the base name
// of the executable without extension or leading dots, or [pkg.Name] when
// running under a debugger.
var appName = sync.OnceValue(func() string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	name := filepath.Base(exe)
	name = strings.TrimLeft(strings.TrimSuffix(name, filepath.Ext(name)), ".")

	if name == "" || debugBinary.MatchString(name) {
		return pkg.Name
	}

	return name
})

// userDir returns the app directory under the directory reported by base,
// falling back to fallback under the home directory, then to the working
// directory.
func userDir(base func() (string, error), fallback string) string {
	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, fallback)
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

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}
