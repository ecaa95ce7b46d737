// Package skill ships the markdown-authored create-pr skill and its
// shell helpers, embedded in the binary and installable into a host
// skills directory.
package skill

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed create-pr
var files embed.FS

// Content returns the SKILL.md text.
func Content() string {
	data, err := files.ReadFile("create-pr/SKILL.md")
	if err != nil {
		// embed guarantees the file; a miss is a build defect
		panic(err)
	}
	return string(data)
}

// Install writes the skill files under dir, creating dir/create-pr.
// Shell scripts are made executable.
func Install(dir string) error {
	return fs.WalkDir(files, "create-pr", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		target := filepath.Join(dir, path)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := files.ReadFile(path)
		if err != nil {
			return err
		}
		mode := fs.FileMode(0o644)
		if strings.HasSuffix(path, ".sh") {
			mode = 0o755
		}
		if err := os.WriteFile(target, data, mode); err != nil {
			return fmt.Errorf("install %s: %w", path, err)
		}
		return nil
	})
}
