package preflight

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"reelog/internal/config"
	"reelog/internal/telegram"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Identity is the Bot API surface the Telegram check needs.
type Identity interface {
	GetMe(ctx context.Context) (*telegram.User, error)
}

// RunAll executes every startup check: directory access, the catalog seed
// file, and Bot API reachability when a transport is provided.
func RunAll(ctx context.Context, cfg *config.Config, transport Identity) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckSeedFile(cfg.Catalog.SeedPath),
	}
	if transport != nil {
		results = append(results, CheckTelegram(ctx, transport))
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable,
// writable, and traversable.
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

// CheckSeedFile reports whether the catalog seed file is readable. A missing
// file passes: seeding is optional and skipped when the catalog is already
// populated.
func CheckSeedFile(path string) Result {
	const name = "Catalog seed"
	if path == "" {
		return Result{Name: name, Passed: true, Detail: "not configured, seeding skipped"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (absent, seeding skipped)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckTelegram verifies Bot API reachability and that the token is accepted.
func CheckTelegram(ctx context.Context, transport Identity) Result {
	const name = "Telegram API"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	me, err := transport.GetMe(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	detail := "reachable"
	if me.Username != "" {
		detail = fmt.Sprintf("reachable as @%s", me.Username)
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
