// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error presentation: ActionableError
// carries operation/resource/suggestion context through error chains, and
// the Issue registry holds glamour-rendered markdown pages for the failure
// modes operators hit most often.
package issue
