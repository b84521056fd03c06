// SPDX-License-Identifier: MPL-2.0

// Package hostenv holds the environment context threaded through the
// provisioning pipeline. Stages mutate an explicit Env value instead of the
// ambient process environment, so later stages observe exactly the variables
// earlier stages derived (PATH additions, toolchain variables) and tests can
// assert on them.
package hostenv

import (
	"os"
	"sort"
	"strings"
)

// PathListSeparator is the separator used when prepending PATH entries.
const PathListSeparator = string(os.PathListSeparator)

// Env is a mutable set of environment variables. The zero value is not
// usable; construct with New or FromProcess.
type Env struct {
	vars map[string]string
}

// New returns an empty environment context.
func New() *Env {
	return &Env{vars: make(map[string]string)}
}

// FromProcess returns an environment context seeded from the current
// process environment.
func FromProcess() *Env {
	e := New()
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			e.vars[k] = v
		}
	}
	return e
}

// Set stores a variable, replacing any previous value.
func (e *Env) Set(key, value string) {
	e.vars[key] = value
}

// Get returns the value for key, or the empty string when unset.
func (e *Env) Get(key string) string {
	return e.vars[key]
}

// Lookup returns the value for key and whether it is set.
func (e *Env) Lookup(key string) (string, bool) {
	v, ok := e.vars[key]
	return v, ok
}

// PrependPath puts dir at the front of PATH. A dir already present elsewhere
// in PATH is not deduplicated; front position is what matters for lookup.
func (e *Env) PrependPath(dir string) {
	current := e.vars["PATH"]
	if current == "" {
		e.vars["PATH"] = dir
		return
	}
	e.vars["PATH"] = dir + PathListSeparator + current
}

// Environ returns the variables as KEY=VALUE pairs, sorted by key for
// deterministic output.
func (e *Env) Environ() []string {
	out := make([]string, 0, len(e.vars))
	for k, v := range e.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy of the environment.
func (e *Env) Clone() *Env {
	c := New()
	for k, v := range e.vars {
		c.vars[k] = v
	}
	return c
}
