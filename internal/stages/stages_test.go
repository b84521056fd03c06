// SPDX-License-Identifier: MPL-2.0

package stages

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"boxprep-cli/internal/config"
	"boxprep-cli/internal/hostenv"
	"boxprep-cli/internal/issue"
	"boxprep-cli/internal/runner"
	"boxprep-cli/internal/testutil"

	"github.com/charmbracelet/log"
)

// fakeRunner records executed scripts and lets tests control the outcome of
// binary availability probes and specific commands.
type fakeRunner struct {
	scripts   []string
	available map[string]bool
	failOn    string
}

func (f *fakeRunner) Name() string    { return "fake" }
func (f *fakeRunner) Available() bool { return true }

func (f *fakeRunner) Run(_ context.Context, script runner.Script, _ *hostenv.Env) *runner.Result {
	f.scripts = append(f.scripts, script.Source)

	if rest, ok := strings.CutPrefix(script.Source, "command -v "); ok {
		name, _, _ := strings.Cut(rest, " ")
		if f.available[name] {
			return runner.NewSuccessResult()
		}
		return runner.NewExitCodeResult(1)
	}

	if f.failOn != "" && strings.Contains(script.Source, f.failOn) {
		return runner.NewExitCodeResult(100)
	}
	return runner.NewSuccessResult()
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))

	cfg := config.DefaultConfig()
	// "true" exists everywhere, which keeps the prereq check hermetic.
	cfg.System.Manager = "true"
	cfg.Toolchain.VersionsFile = filepath.Join(t.TempDir(), "versions.toml")
	cfg.Plugins.ListFile = filepath.Join(t.TempDir(), "plugins.txt")
	cfg.Retry.Delay = time.Millisecond
	return cfg
}

func newTestBuilder(t *testing.T, cfg *config.Config) (*Builder, *fakeRunner) {
	t.Helper()
	fake := &fakeRunner{available: map[string]bool{}}
	b := NewBuilder(cfg, fake, log.New(io.Discard))
	return b, fake
}

func runSteps(t *testing.T, b *Builder, env *hostenv.Env, stageName string) error {
	t.Helper()
	stagesList, err := b.Build()
	if err != nil {
		t.Fatalf("Build returned %v", err)
	}
	stage, ok := ByName(stagesList, stageName)
	if !ok {
		t.Fatalf("stage %q not found", stageName)
	}
	for _, step := range stage.Steps {
		if err := step.Action.Execute(context.Background(), env); err != nil {
			return err
		}
	}
	return nil
}

func TestBuildStageOrder(t *testing.T) {
	b, _ := newTestBuilder(t, testConfig(t))

	built, err := b.Build()
	if err != nil {
		t.Fatalf("Build returned %v", err)
	}

	want := Names()
	if len(built) != len(want) {
		t.Fatalf("Build returned %d stages, want %d", len(built), len(want))
	}
	for i, stage := range built {
		if stage.Name != want[i] {
			t.Errorf("stage[%d] = %q, want %q", i, stage.Name, want[i])
		}
	}
}

func TestSystemStageCommands(t *testing.T) {
	cfg := testConfig(t)
	cfg.System.BasePackages = []string{"git", "build essentials"}
	cfg.System.Bundles = []string{"/opt/features/docker.sh"}

	b, fake := newTestBuilder(t, cfg)
	env := hostenv.New()

	if err := runSteps(t, b, env, StageSystem); err != nil {
		t.Fatalf("system stage failed: %v", err)
	}

	joined := strings.Join(fake.scripts, "\n")
	for _, want := range []string{
		"true update",
		"true upgrade -y",
		"true install -y git 'build essentials'",
		"/opt/features/docker.sh",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("scripts missing %q:\n%s", want, joined)
		}
	}

	if env.Get("DEBIAN_FRONTEND") != "noninteractive" {
		t.Error("system stage did not configure noninteractive mode")
	}
}

func TestSystemStageMissingManager(t *testing.T) {
	cfg := testConfig(t)
	cfg.System.Manager = "definitely-not-a-real-binary"

	b, _ := newTestBuilder(t, cfg)
	err := runSteps(t, b, hostenv.New(), StageSystem)

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("missing package manager returned %v, want an actionable error", err)
	}
	if ae.IssueId != issue.PackageManagerNotFoundId {
		t.Errorf("IssueId = %d, want the package-manager page", ae.IssueId)
	}
}

func TestToolchainStageMissingManager(t *testing.T) {
	cfg := testConfig(t)

	b, fake := newTestBuilder(t, cfg) // "mise" not marked available
	err := runSteps(t, b, hostenv.New(), StageToolchain)

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("missing version manager returned %v, want an actionable error", err)
	}
	for _, script := range fake.scripts {
		if strings.Contains(script, "trust") || strings.Contains(script, "install") {
			t.Errorf("command ran despite the missing version manager: %q", script)
		}
	}
}

func TestToolchainStageTrustRequiresVersionsFile(t *testing.T) {
	cfg := testConfig(t)

	b, fake := newTestBuilder(t, cfg)
	fake.available["mise"] = true
	err := runSteps(t, b, hostenv.New(), StageToolchain)

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("missing versions file returned %v, want an actionable error", err)
	}
	if ae.IssueId != issue.VersionsFileMissingId {
		t.Errorf("IssueId = %d, want the versions-file page", ae.IssueId)
	}
	for _, script := range fake.scripts {
		if strings.Contains(script, "trust") || strings.Contains(script, "install") {
			t.Errorf("command ran despite the missing precondition: %q", script)
		}
	}
}

func TestToolchainStageTrustAndInstall(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Toolchain.VersionsFile, []byte("[tools]\n"), 0o644); err != nil {
		t.Fatalf("failed to write versions file: %v", err)
	}

	b, fake := newTestBuilder(t, cfg)
	fake.available["mise"] = true
	if err := runSteps(t, b, hostenv.New(), StageToolchain); err != nil {
		t.Fatalf("toolchain stage failed: %v", err)
	}

	joined := strings.Join(fake.scripts, "\n")
	if !strings.Contains(joined, "mise trust "+cfg.Toolchain.VersionsFile) {
		t.Errorf("trust command missing:\n%s", joined)
	}
	if !strings.Contains(joined, "mise install --yes") {
		t.Errorf("install command missing:\n%s", joined)
	}
}

func TestToolchainInstallCarriesRetryPolicy(t *testing.T) {
	cfg := testConfig(t)
	cfg.Retry.Attempts = 7

	b, _ := newTestBuilder(t, cfg)
	built, err := b.Build()
	if err != nil {
		t.Fatalf("Build returned %v", err)
	}

	stage, _ := ByName(built, StageToolchain)
	var found bool
	for _, step := range stage.Steps {
		if step.Retry != nil {
			found = true
			if step.Retry.Attempts != 7 {
				t.Errorf("retry attempts = %d, want 7", step.Retry.Attempts)
			}
		}
	}
	if !found {
		t.Error("no toolchain step carries a retry policy")
	}
}

func TestPluginStageActivateDerivesEnvironment(t *testing.T) {
	cfg := testConfig(t)

	b, _ := newTestBuilder(t, cfg)
	env := hostenv.New()
	env.Set("XDG_DATA_HOME", "/data")

	built, err := b.Build()
	if err != nil {
		t.Fatalf("Build returned %v", err)
	}
	stage, _ := ByName(built, StagePlugins)
	if err := stage.Steps[0].Action.Execute(context.Background(), env); err != nil {
		t.Fatalf("activate failed: %v", err)
	}

	if !strings.HasPrefix(env.Get("PATH"), "/data/mise/shims") {
		t.Errorf("PATH = %q, want the shims dir in front", env.Get("PATH"))
	}
	if env.Get("MISE_CONFIG_FILE") == "" {
		t.Error("activate did not derive the config file variable")
	}
}

func TestPluginStageSkipsEmptyList(t *testing.T) {
	cfg := testConfig(t) // list file does not exist

	b, fake := newTestBuilder(t, cfg)
	if err := runSteps(t, b, hostenv.New(), StagePlugins); err != nil {
		t.Fatalf("plugin stage failed: %v", err)
	}

	for _, script := range fake.scripts {
		if strings.Contains(script, "plugins install") {
			t.Errorf("installer invoked for an empty plugin list: %q", script)
		}
	}
}

func TestPluginStageInstallsInOrder(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Plugins.ListFile, []byte("# dashboards\nk9s\nhelm\n"), 0o644); err != nil {
		t.Fatalf("failed to write plugin list: %v", err)
	}

	b, fake := newTestBuilder(t, cfg)
	fake.available["mise"] = true

	if err := runSteps(t, b, hostenv.New(), StagePlugins); err != nil {
		t.Fatalf("plugin stage failed: %v", err)
	}

	var installs []string
	for _, script := range fake.scripts {
		if strings.HasPrefix(script, "mise plugins install ") {
			installs = append(installs, script)
		}
	}
	want := []string{"mise plugins install k9s", "mise plugins install helm"}
	if len(installs) != 2 || installs[0] != want[0] || installs[1] != want[1] {
		t.Errorf("installs = %v, want %v", installs, want)
	}
}

func TestPluginStageMissingInstallerIsTerminal(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.Plugins.ListFile, []byte("k9s\n"), 0o644); err != nil {
		t.Fatalf("failed to write plugin list: %v", err)
	}

	b, _ := newTestBuilder(t, cfg) // installer not marked available
	err := runSteps(t, b, hostenv.New(), StagePlugins)

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("missing installer returned %v, want an actionable error", err)
	}
	if ae.IssueId != issue.PluginToolMissingId {
		t.Errorf("IssueId = %d, want the plugin-installer page", ae.IssueId)
	}
}

func TestDotfileStageCopiesEntries(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "zshrc")
	target := filepath.Join(dir, "home", ".zshrc")
	if err := os.WriteFile(source, []byte("alias ll='ls -l'\n"), 0o600); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}

	cfg := testConfig(t)
	cfg.Dotfiles.Entries = []config.DotfileEntry{{Source: source, Target: target}}

	b, _ := newTestBuilder(t, cfg)
	if err := runSteps(t, b, hostenv.New(), StageDotfiles); err != nil {
		t.Fatalf("dotfile stage failed: %v", err)
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("target not written: %v", err)
	}
	if string(data) != "alias ll='ls -l'\n" {
		t.Errorf("target content = %q", data)
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("stat target: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("target mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestQuoteArgs(t *testing.T) {
	got := quoteArgs([]string{"plain", "has space", "$HOME"})
	if !strings.Contains(got, "plain") {
		t.Errorf("quoteArgs = %q", got)
	}
	if strings.Contains(got, "has space") && !strings.Contains(got, "'has space'") {
		t.Errorf("quoteArgs did not quote the spaced argument: %q", got)
	}
	if strings.Contains(got, "$HOME") && !strings.Contains(got, "'$HOME'") {
		t.Errorf("quoteArgs did not quote the dollar argument: %q", got)
	}
}
