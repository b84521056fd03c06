// SPDX-License-Identifier: MPL-2.0

// Package pipeline implements the provisioning pipeline core: a statically
// ordered list of stages executed strictly in sequence.
//
// Each stage is a list of actions followed by a best-effort cleanup sweep.
// The sequencer stops the whole run at the first action that fails
// terminally (no retry policy, or retry budget exhausted), but the failing
// stage's cleanup still runs, because the container must be left with the
// smallest possible on-disk footprint regardless of outcome. There is no
// rollback of earlier stages: the environment is disposable and rebuilt from
// scratch, never repaired in place.
//
// Retry is scoped to individual actions, never to whole stages. Actions
// known to be network-flaky attach a RetryPolicy; everything else fails on
// the first error.
package pipeline
