package exposure

import (
	"fmt"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandPattern resolves a glob pattern into a sorted list of paths. "**"
// matches across directories. Wildcards skip dot-files and dot-directories
// unless the pattern names them with a leading dot. A pattern without
// matches yields an empty list.
func ExpandPattern(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithNoHidden())
	if err != nil {
		return nil, fmt.Errorf("expand pattern %q: %w", pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}
