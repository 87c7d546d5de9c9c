// Package sanitizer normalizes user-supplied strings before validation and
// persistence. Sanitization is lossy by design: it trims, collapses
// whitespace, and derives URL-safe slugs, but never rejects input — that is
// the validators' job.
package sanitizer
