package fill

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ExpandInputs resolves input arguments to concrete file paths. Arguments may be
// plain paths or glob patterns, including ** for recursive matches. Files whose
// base name already ends with suffix are skipped so a rerun does not fill its own
// output. The result is deduplicated and sorted.
func ExpandInputs(args []string, suffix string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string

	for _, arg := range args {
		matches := []string{arg}
		if hasMeta(arg) {
			var err error
			matches, err = doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, fmt.Errorf("expanding %q: %w", arg, err)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", arg)
			}
		}

		for _, m := range matches {
			if hasMeta(arg) && isOutput(m, suffix) {
				continue
			}
			m = filepath.Clean(m)
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			out = append(out, m)
		}
	}

	sort.Strings(out)
	return out, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

func isOutput(path, suffix string) bool {
	if suffix == "" {
		return false
	}
	base := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), suffix)
}
