// SPDX-License-Identifier: MPL-2.0

package hostenv

import (
	"slices"
	"testing"
)

func TestSetAndGet(t *testing.T) {
	env := New()
	env.Set("FOO", "bar")

	if got := env.Get("FOO"); got != "bar" {
		t.Errorf("Get(FOO) = %q, want %q", got, "bar")
	}

	if got := env.Get("MISSING"); got != "" {
		t.Errorf("Get(MISSING) = %q, want empty", got)
	}
}

func TestLookup(t *testing.T) {
	env := New()
	env.Set("EMPTY", "")

	if _, ok := env.Lookup("EMPTY"); !ok {
		t.Error("Lookup(EMPTY) reported unset for a set-but-empty variable")
	}
	if _, ok := env.Lookup("ABSENT"); ok {
		t.Error("Lookup(ABSENT) reported set for an unset variable")
	}
}

func TestPrependPath(t *testing.T) {
	env := New()

	env.PrependPath("/opt/tools/bin")
	if got := env.Get("PATH"); got != "/opt/tools/bin" {
		t.Errorf("PATH after first prepend = %q", got)
	}

	env.PrependPath("/home/dev/.local/bin")
	want := "/home/dev/.local/bin" + PathListSeparator + "/opt/tools/bin"
	if got := env.Get("PATH"); got != want {
		t.Errorf("PATH after second prepend = %q, want %q", got, want)
	}
}

func TestEnvironSortedPairs(t *testing.T) {
	env := New()
	env.Set("B", "2")
	env.Set("A", "1")

	got := env.Environ()
	want := []string{"A=1", "B=2"}
	if !slices.Equal(got, want) {
		t.Errorf("Environ() = %v, want %v", got, want)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	env := New()
	env.Set("KEY", "original")

	clone := env.Clone()
	clone.Set("KEY", "changed")

	if got := env.Get("KEY"); got != "original" {
		t.Errorf("mutating clone changed original: %q", got)
	}
}

func TestFromProcessSeedsVariables(t *testing.T) {
	t.Setenv("BOXPREP_TEST_SEED", "yes")

	env := FromProcess()
	if got := env.Get("BOXPREP_TEST_SEED"); got != "yes" {
		t.Errorf("FromProcess did not pick up process env: %q", got)
	}
}
