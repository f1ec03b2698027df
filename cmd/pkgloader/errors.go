// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"

	"github.com/invowk/pkgloader/internal/config"
	"github.com/invowk/pkgloader/internal/issue"
	"github.com/invowk/pkgloader/pkg/classmap"
	"github.com/invowk/pkgloader/pkg/loader"
)

// issueFor maps an error to the catalog entry that explains it. An
// ActionableError that names an issue wins over sentinel matching.
func issueFor(err error) issue.Id {
	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Issue != 0 {
		return ae.Issue
	}

	switch {
	case errors.Is(err, fs.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, loader.ErrNotADirectory):
		return issue.RootNotDirectoryId
	case errors.Is(err, loader.ErrNoSuchDirectory):
		return issue.UnknownRootId
	case errors.Is(err, loader.ErrNoSuchPackage):
		return issue.PackageNotFoundId
	case errors.Is(err, classmap.ErrClassNotFound):
		return issue.ClassNotFoundId
	case errors.Is(err, loader.ErrInstanceNotFound):
		return issue.InstanceNotFoundId
	case errors.Is(err, loader.ErrScanFailed):
		return issue.ScanFailedId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	default:
		return 0
	}
}

// renderIssue prints the catalog entry for err in the given glamour style,
// followed in verbose mode by the full error chain of an ActionableError.
func renderIssue(stderr io.Writer, style string, err error, verbose bool) {
	if id := issueFor(err); id != 0 {
		if entry := issue.Get(id); entry != nil {
			rendered, renderErr := entry.Render(style)
			if renderErr != nil {
				slog.Warn("failed to render issue catalog entry", "issueID", id, "error", renderErr)
			} else {
				fprintf(stderr, "%s", rendered)
			}
		}
	}

	if !verbose {
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		fprintf(stderr, "%s\n", ae.Format(true))
	}
}
