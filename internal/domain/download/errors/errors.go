// Package errors contains domain-specific errors for the download domain
package errors

import (
	pkgerrors "github.com/Conte777/TikFlow/pkg/errors"
)

// Domain errors for download operations
var (
	ErrUnsupportedLink = pkgerrors.NewValidationError("link is not a recognized TikTok URL")
	ErrEmptyLink       = pkgerrors.NewValidationError("no link provided, usage: !t <url>")
	ErrNoMediaURL      = pkgerrors.NewValidationError("resolver response contains no media URL")
)
