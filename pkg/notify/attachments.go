package notify

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pixelvide/sygmail/pkg/telemetry"
)

// resolveAttachments applies the attachment precedence: an explicit list
// (nil-checked, so an empty list is honored as "none") wins over the
// attachments path, which wins over nothing. Missing entries never abort the
// send; they are logged and dropped.
func (n *Notifier) resolveAttachments(ctx context.Context, params SendParams) []string {
	if params.Attachments != nil {
		return filterExisting(ctx, params.Attachments)
	}

	path := firstNonEmpty(params.AttachmentsPath, deref(n.cfg.AttachmentsPath))
	if path == "" {
		return nil
	}
	return collectFromPath(ctx, path)
}

// collectFromPath resolves the attachments path: a regular file attaches
// itself, a directory attaches the regular files directly inside it
// (non-recursive), and a missing path warns and attaches nothing.
func collectFromPath(ctx context.Context, path string) []string {
	info, err := os.Stat(path)
	if err != nil {
		warnMissing(ctx, []string{path})
		return nil
	}

	if !info.IsDir() {
		return filterExisting(ctx, []string{path})
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		warnMissing(ctx, []string{path})
		return nil
	}

	var files []string
	for _, entry := range entries {
		child := filepath.Join(path, entry.Name())
		// Stat follows symlinks, so a symlink to a regular file counts
		fi, err := os.Stat(child)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, child)
	}
	return files
}

// filterExisting keeps the paths that are existing regular files. The
// dropped non-empty paths are reported in a single warning.
func filterExisting(ctx context.Context, paths []string) []string {
	var existing, missing []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		fi, err := os.Stat(p)
		if err == nil && fi.Mode().IsRegular() {
			existing = append(existing, p)
		} else {
			missing = append(missing, p)
		}
	}
	warnMissing(ctx, missing)
	return existing
}

func warnMissing(ctx context.Context, paths []string) {
	if len(paths) == 0 {
		return
	}
	telemetry.LoggerFromContext(ctx).Warn().
		Str("paths", strings.Join(paths, ", ")).
		Msg("missing attachments ignored")
}
