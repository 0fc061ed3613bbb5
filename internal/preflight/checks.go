package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"neoncrush/internal/config"
	"neoncrush/internal/deps"
	"neoncrush/internal/history"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckRenderer reports which engine conversions will use. The auto backend
// always passes; a missing browser only means animation is not sampled.
func CheckRenderer(cfg *config.Config) Result {
	const name = "Renderer"

	switch cfg.Renderer.Backend {
	case config.BackendStatic:
		return Result{Name: name, Passed: true, Detail: "static (animation frames are not sampled)"}
	case config.BackendChrome:
		status := deps.CheckChrome(cfg.Renderer.ChromePath)
		if !status.Available {
			return Result{Name: name, Detail: fmt.Sprintf("chrome (error: %s)", status.Detail)}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("chrome (%s)", status.Path)}
	default:
		status := deps.CheckChrome(cfg.Renderer.ChromePath)
		if !status.Available {
			return Result{Name: name, Passed: true, Optional: true, Detail: "auto: static fallback (no headless browser found)"}
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("auto: chrome (%s)", status.Path)}
	}
}

// CheckSystemDeps evaluates external binaries for the given config. Both the
// doctor command and renderer selection use this list.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	chrome := deps.CheckChrome(cfg.Renderer.ChromePath)
	if cfg.Renderer.Backend == config.BackendChrome {
		chrome.Optional = false
		chrome.Description = "Required by renderer.backend = \"chrome\""
	}
	return []deps.Status{chrome}
}

// CheckHistory opens the run history database and reads from it.
func CheckHistory(ctx context.Context, cfg *config.Config) Result {
	const name = "History"

	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	store, err := history.Open(cfg)
	if err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: %v)", cfg.HistoryPath(), err)}
	}
	defer store.Close()

	if _, err := store.Recent(checkCtx, 1); err != nil {
		return Result{Name: name, Optional: true, Detail: fmt.Sprintf("%s (error: %v)", cfg.HistoryPath(), err)}
	}
	return Result{Name: name, Passed: true, Detail: cfg.HistoryPath()}
}
