// Package gallery loads image collections in two phases: a priority subset
// that is published as soon as it settles, then the remainder. Items are
// validated, optionally rewritten for the image CDN, and probed concurrently;
// individual failures drop the item while batch failures surface one error.
package gallery

import "errors"

var (
	// ErrInvalidURL marks a URL rejected by validation.
	ErrInvalidURL = errors.New("invalid image url")

	// ErrProbeFailed marks a single image that failed to load. The item is dropped.
	ErrProbeFailed = errors.New("image probe failed")

	// ErrBatchFailed aborts an entire phase. A Prober returns an error wrapping
	// it when the failure is not specific to one image.
	ErrBatchFailed = errors.New("image batch failed")
)
