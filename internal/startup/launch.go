package startup

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/GriffinCanCode/sidenote/backend/internal/events"
	"go.uber.org/zap"
)

// CurrentDir is the launch argument that selects the working directory.
const CurrentDir = "."

// ResolveLaunchPath turns the launch argument into the folder to open.
// "." resolves to the working directory; anything else is made absolute
// and has its symlinks resolved, so the path must exist.
func ResolveLaunchPath(arg string) (string, error) {
	if arg == CurrentDir {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}

	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", arg, err)
	}
	return resolved, nil
}

// Announce resolves arg and emits open-folder with the result. An empty
// arg or a path that cannot be resolved is ignored; the failure is only
// logged at debug level.
func Announce(ctx context.Context, arg string, notifier events.Notifier, logger *zap.Logger) (string, bool) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if arg == "" || ctx.Err() != nil {
		return "", false
	}

	path, err := ResolveLaunchPath(arg)
	if err != nil {
		logger.Debug("launch path ignored", zap.String("arg", arg), zap.Error(err))
		return "", false
	}

	notifier.Emit(events.New(events.OpenFolder, path))
	logger.Info("opened folder from launch argument", zap.String("path", path))
	return path, true
}
