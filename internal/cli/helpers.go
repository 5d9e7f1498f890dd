package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ensureParentDir creates the directory that will hold path.
func ensureParentDir(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("output path cannot be empty")
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
