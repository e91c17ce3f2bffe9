package install

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/paths"
	"github.com/necolo/rulink/internal/source"
)

// RuleFile turns a user argument into an installed filename: any category
// prefix is dropped and the rule suffix added when missing.
func RuleFile(arg string) string {
	name := source.Basename(strings.ReplaceAll(arg, `\`, "/"))
	if !strings.HasSuffix(name, paths.RuleExt) {
		name += paths.RuleExt
	}
	return name
}

// Installed lists the rule files in dir, sorted. A missing dir has none.
func Installed(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", dir), errors.ErrIO)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), paths.RuleExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// target is where a rule path lands inside dir.
func target(dir, rulePath string) string {
	return filepath.Join(dir, source.Basename(rulePath))
}
