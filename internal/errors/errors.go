package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Standard error types that can be used to categorize errors
var (
	// ErrInvalidBuildID indicates a build identifier that does not match major.minor.patch
	ErrInvalidBuildID = errors.New("invalid build id")

	// ErrReleaseMetadata indicates the local release-metadata file is missing or unusable
	ErrReleaseMetadata = errors.New("release metadata error")

	// ErrCatalogUnavailable indicates a remote catalog listing could not be obtained
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrArtifactFetch indicates a mandatory artifact could not be fetched
	ErrArtifactFetch = errors.New("artifact fetch failed")

	// ErrChecksumMismatch indicates a fetched artifact does not match its checksum sidecar
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrKernelConfig indicates no usable kernel configuration could be located
	ErrKernelConfig = errors.New("kernel config error")

	// ErrInternal indicates an internal error in the CLI
	ErrInternal = errors.New("internal error")
)

// Error represents a CLI error with context
type Error struct {
	// Original is the underlying error
	Original error

	// Category is the broad category of the error
	Category error

	// Details contains additional detail about the error
	Details string

	// Suggestions provides hints on how to fix the error
	Suggestions []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var msg strings.Builder

	if e.Category != nil {
		msg.WriteString(e.Category.Error())
		msg.WriteString(": ")
	}

	// First include the original error, if present
	if e.Original != nil {
		msg.WriteString(e.Original.Error())
	}

	// Then include details if present, regardless of whether Original is present
	if e.Details != "" {
		// Only add a separator if we've already written something
		if e.Original != nil {
			msg.WriteString(" (")
			msg.WriteString(e.Details)
			msg.WriteString(")")
		} else {
			msg.WriteString(e.Details)
		}
	}

	return msg.String()
}

// FormattedError returns a formatted multi-line error message suitable for display
func (e *Error) FormattedError() string {
	var msg strings.Builder

	if e.Category != nil {
		// Write category with uppercase first letter
		category := e.Category.Error()
		if len(category) > 0 {
			msg.WriteString(strings.ToUpper(category[:1]) + category[1:])
			msg.WriteString(": ")
		}
	}

	if e.Original != nil {
		msg.WriteString(e.Original.Error())
	} else if e.Details != "" {
		msg.WriteString(e.Details)
	}

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n\n")
		for i, suggestion := range e.Suggestions {
			if i > 0 {
				msg.WriteString("\n")
			}
			msg.WriteString("• ")
			msg.WriteString(suggestion)
		}
	}

	return msg.String()
}

// Unwrap implements the errors.Unwrap interface to allow using errors.Is and errors.As
func (e *Error) Unwrap() error {
	if e.Original != nil {
		return e.Original
	}
	return e.Category
}

// Is implements the errors.Is interface to allow checking error types
func (e *Error) Is(target error) bool {
	return errors.Is(e.Category, target) || (e.Original != nil && errors.Is(e.Original, target))
}

// NewError creates a new Error with the given attributes
func NewError(original error, category error, details string, suggestions ...string) *Error {
	return &Error{
		Original:    original,
		Category:    category,
		Details:     details,
		Suggestions: suggestions,
	}
}

// WithDetails adds details to an existing error
func WithDetails(err error, details string) error {
	if cliErr, ok := err.(*Error); ok {
		if cliErr.Details == "" {
			cliErr.Details = details
		} else {
			cliErr.Details = fmt.Sprintf("%s: %s", cliErr.Details, details)
		}
		return cliErr
	}

	// If it's not already a CLI error, create a new one
	return NewError(err, nil, details)
}

// NewInvalidBuildIDError creates a new invalid build id error
func NewInvalidBuildIDError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrInvalidBuildID, details, suggestions...)
}

// NewReleaseMetadataError creates a new release metadata error
func NewReleaseMetadataError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrReleaseMetadata, details, suggestions...)
}

// NewCatalogUnavailableError creates a new catalog unavailable error
func NewCatalogUnavailableError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrCatalogUnavailable, details, suggestions...)
}

// NewArtifactFetchError creates a new artifact fetch error
func NewArtifactFetchError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrArtifactFetch, details, suggestions...)
}

// NewChecksumMismatchError creates a new checksum mismatch error
func NewChecksumMismatchError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrChecksumMismatch, details, suggestions...)
}

// NewKernelConfigError creates a new kernel config error
func NewKernelConfigError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrKernelConfig, details, suggestions...)
}

// NewInternalError creates a new internal error
func NewInternalError(err error, details string, suggestions ...string) error {
	return NewError(err, ErrInternal, details, suggestions...)
}

// IsInvalidBuildID returns true if the error indicates a malformed build identifier
func IsInvalidBuildID(err error) bool {
	return errors.Is(err, ErrInvalidBuildID)
}

// IsCatalogUnavailable returns true if the error indicates a remote listing failure
func IsCatalogUnavailable(err error) bool {
	return errors.Is(err, ErrCatalogUnavailable)
}

// IsChecksumMismatch returns true if the error indicates checksum verification failed
func IsChecksumMismatch(err error) bool {
	return errors.Is(err, ErrChecksumMismatch)
}
