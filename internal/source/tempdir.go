package source

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
)

// tempRoot is where scoped directories are created. Empty means os.TempDir.
var tempRoot = ""

// withTempDir runs fn inside a fresh, uniquely named directory and removes
// the directory on every return path, panics included. Cleanup failures are
// logged and otherwise ignored.
func withTempDir[T any](ctx context.Context, kind string, fn func(dir string) (T, error)) (T, error) {
	var zero T
	pattern := "rulink-" + kind + "-" + strconv.FormatInt(time.Now().UnixNano(), 10) + "-*"
	dir, err := os.MkdirTemp(tempRoot, pattern)
	if err != nil {
		return zero, errors.Mark(errors.Wrap(err, "creating temporary directory"), errors.ErrIO)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logging.FromContext(ctx).Debug("removing temporary directory", "dir", dir, "error", rmErr)
		}
	}()
	return fn(dir)
}
