// Package validation provides common validation utilities for configuration
// parameters and stage arguments across the lazyflow library.
//
// Every helper returns a *errors.ValidationError, which matches
// errors.ErrInvalidConfiguration under errors.Is.
package validation
