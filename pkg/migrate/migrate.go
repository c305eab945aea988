package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where new migrations are created. Binaries read the copy
// embedded at build time, so they do not depend on the working directory.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Source resolves dir to a filesystem. DefaultDir and "" use the embedded set.
func Source(dir string) (fs.FS, error) {
	if dir == "" || dir == DefaultDir {
		return fs.Sub(embedded, "migrations")
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("migrations dir %q: %w", dir, err)
	}
	return os.DirFS(dir), nil
}

func newProvider(db *sql.DB, dir string) (*goose.Provider, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	fsys, err := Source(dir)
	if err != nil {
		return nil, err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return provider, nil
}

// Run executes up, down or status and returns one line per migration touched.
func Run(ctx context.Context, db *sql.DB, dir string, command string) ([]string, error) {
	provider, err := newProvider(db, dir)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(command) {
	case "up":
		results, err := provider.Up(ctx)
		if err != nil {
			return nil, fmt.Errorf("goose up: %w", err)
		}
		return describeResults(results), nil
	case "down":
		result, err := provider.Down(ctx)
		if err != nil {
			return nil, fmt.Errorf("goose down: %w", err)
		}
		return describeResults([]*goose.MigrationResult{result}), nil
	case "status":
		statuses, err := provider.Status(ctx)
		if err != nil {
			return nil, fmt.Errorf("goose status: %w", err)
		}
		lines := make([]string, 0, len(statuses))
		for _, st := range statuses {
			line := fmt.Sprintf("%-8s %s", st.State, st.Source.Path)
			if !st.AppliedAt.IsZero() {
				line += " (" + st.AppliedAt.UTC().Format("2006-01-02 15:04:05") + ")"
			}
			lines = append(lines, line)
		}
		return lines, nil
	}
	return nil, fmt.Errorf("unsupported goose command %q", command)
}

// MigrateToVersion moves the schema up or down to targetVersion.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string) ([]string, error) {
	target, err := strconv.ParseInt(strings.TrimSpace(targetVersion), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	provider, err := newProvider(db, dir)
	if err != nil {
		return nil, err
	}
	current, err := provider.GetDBVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("get db version: %w", err)
	}

	var results []*goose.MigrationResult
	switch {
	case current == target:
		return nil, nil
	case current < target:
		results, err = provider.UpTo(ctx, target)
	default:
		results, err = provider.DownTo(ctx, target)
	}
	if err != nil {
		return nil, fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return describeResults(results), nil
}

func describeResults(results []*goose.MigrationResult) []string {
	lines := make([]string, 0, len(results))
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("%-4s %s (%s)", res.Direction, res.Source.Path, res.Duration.Round(time.Millisecond)))
	}
	return lines
}
