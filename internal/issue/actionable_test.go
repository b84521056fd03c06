// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableErrorMessage(t *testing.T) {
	cause := errors.New("exit status 100")
	err := NewErrorContext().
		WithOperation("install base packages").
		WithResource("apt-get").
		Wrap(cause).
		BuildError()

	want := "failed to install base packages: apt-get: exit status 100"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestBuildRequiresOperation(t *testing.T) {
	if err := NewErrorContext().WithResource("somefile").BuildError(); err != nil {
		t.Errorf("BuildError without operation = %v, want nil", err)
	}
}

func TestFormatIncludesSuggestions(t *testing.T) {
	ae := NewErrorContext().
		WithOperation("trust tool-versions file").
		WithSuggestion("Create the file before provisioning").
		WithSuggestion("Check the toolchain.versions_file setting").
		Build()

	out := ae.Format(false)
	if !strings.Contains(out, "Create the file before provisioning") {
		t.Errorf("Format missing first suggestion:\n%s", out)
	}
	if !strings.Contains(out, "Check the toolchain.versions_file setting") {
		t.Errorf("Format missing second suggestion:\n%s", out)
	}
}

func TestFormatVerboseShowsErrorChain(t *testing.T) {
	inner := errors.New("connection refused")
	ae := NewErrorContext().
		WithOperation("install plugins").
		Wrap(WrapWithOperation(inner, "clone plugin repository")).
		Build()

	out := ae.Format(true)
	if !strings.Contains(out, "Error chain:") {
		t.Errorf("verbose Format missing error chain:\n%s", out)
	}
	if !strings.Contains(out, "connection refused") {
		t.Errorf("verbose Format missing innermost cause:\n%s", out)
	}
}

func TestWithIssueIdLinksKnownIssuePage(t *testing.T) {
	err := NewErrorContext().
		WithOperation("trust tool-versions file").
		WithIssueId(VersionsFileMissingId).
		BuildError()

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("BuildError did not produce an ActionableError")
	}
	if ae.IssueId != VersionsFileMissingId {
		t.Errorf("IssueId = %d, want %d", ae.IssueId, VersionsFileMissingId)
	}
	if Get(ae.IssueId) == nil {
		t.Error("linked issue id has no registered page")
	}
}

func TestWrapWithOperationNil(t *testing.T) {
	if got := WrapWithOperation(nil, "anything"); got != nil {
		t.Errorf("WrapWithOperation(nil) = %v, want nil", got)
	}
}

func TestRegistryLookup(t *testing.T) {
	for _, id := range []Id{
		ConfigLoadFailedId,
		PackageManagerNotFoundId,
		VersionsFileMissingId,
		PluginToolMissingId,
		ShellNotFoundId,
		StageFailedId,
	} {
		if Get(id) == nil {
			t.Errorf("Get(%d) = nil, want a registered issue", id)
		}
	}

	if len(Values()) != len(issues) {
		t.Errorf("Values() returned %d issues, want %d", len(Values()), len(issues))
	}
}
