// Package tempfs provides the ephemeral-disk blob storage backend. Payloads
// live in a transient directory that may be wiped on redeploy, an acceptable
// tradeoff for non-critical marketing images.
package tempfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/brightpages/brightpages/pkg/cms/storage/fs"
)

// Config options for the ephemeral backend.
type Config struct {
	// Dir is the transient directory to use. Empty means a fresh directory
	// under the system temp dir.
	Dir string
}

// New creates an ephemeral-disk storage backend. It shares the filesystem
// backend's store/open semantics; only the lifetime of the directory differs.
func New(config Config) (*fs.Backend, error) {
	dir := config.Dir
	if dir == "" {
		created, err := os.MkdirTemp("", "brightpages-uploads-")
		if err != nil {
			return nil, fmt.Errorf("create temp directory: %w", err)
		}
		dir = created
	} else if !filepath.IsAbs(dir) {
		dir = filepath.Join(os.TempDir(), dir)
	}
	return fs.New(fs.Config{BaseDir: dir})
}
