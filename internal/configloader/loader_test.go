package configloader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/rubynest/pkg/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		IgnoreEnv:          true,
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config == nil {
		t.Fatal("Load() returned nil config")
	}

	cfg := result.Config
	if cfg.IndentWidth != config.DefaultIndentWidth {
		t.Errorf("IndentWidth = %d, want %d", cfg.IndentWidth, config.DefaultIndentWidth)
	}
	if cfg.PromptMode != config.DefaultPromptMode {
		t.Errorf("PromptMode = %q", cfg.PromptMode)
	}
	if !cfg.AutoIndentEnabled() || !cfg.MarkdownEnabled() || !cfg.BackupsEnabled() {
		t.Errorf("boolean defaults = %+v", cfg)
	}
	if len(result.LoadedFrom) != 0 || len(result.Warnings) != 0 {
		t.Errorf("LoadedFrom = %v, Warnings = %v", result.LoadedFrom, result.Warnings)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rubynest.yml"), `
indent_width: 4
prompt_mode: simple
markdown: false
locals: [foo, bar]
backups:
  enabled: false
`)

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.IndentWidth != 4 || cfg.PromptMode != "simple" {
		t.Errorf("scalars = %d, %q", cfg.IndentWidth, cfg.PromptMode)
	}
	if cfg.MarkdownEnabled() {
		t.Error("markdown: false was not applied")
	}
	if cfg.BackupsEnabled() {
		t.Error("backups.enabled: false was not applied")
	}
	if !cfg.AutoIndentEnabled() {
		t.Error("unset auto_indent lost its default")
	}
	if strings.Join(cfg.Locals, ",") != "foo,bar" {
		t.Errorf("Locals = %v", cfg.Locals)
	}
	if len(result.LoadedFrom) != 1 {
		t.Errorf("expected 1 loaded file, got %d", len(result.LoadedFrom))
	}
}

func TestLoad_ProjectConfigSearchUpward(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, "rubynest.yaml"), "indent_width: 3\n")
	nested := filepath.Join(root, "lib", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.IndentWidth != 3 {
		t.Errorf("IndentWidth = %d, want 3", result.Config.IndentWidth)
	}
	if result.Paths.Project != filepath.Join(root, "rubynest.yaml") {
		t.Errorf("Project = %q", result.Paths.Project)
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".rubynest.yml"), "indent_width: 3\n")
	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatal(err)
	}
	if path != "" {
		t.Errorf("found %q beyond the repository root", path)
	}
}

func TestFindProjectConfig_Preference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "rubynest.yml"), "")
	writeFile(t, filepath.Join(dir, ".rubynest.yml"), "")

	path, err := FindProjectConfig(context.Background(), dir)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != ".rubynest.yml" {
		t.Errorf("path = %q, want .rubynest.yml", path)
	}
}

func TestLoad_ExplicitConfig(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rubynest.yml"), "indent_width: 4\nprompt_mode: simple\n")
	customPath := filepath.Join(tmpDir, "custom-config.yml")
	writeFile(t, customPath, "indent_width: 8\n")

	opts := isolated(tmpDir)
	opts.ExplicitPath = customPath
	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.IndentWidth != 8 {
		t.Errorf("IndentWidth = %d, want 8 from explicit file", result.Config.IndentWidth)
	}
	if result.Config.PromptMode != "simple" {
		t.Errorf("PromptMode = %q, want project value kept", result.Config.PromptMode)
	}
	if len(result.LoadedFrom) != 2 || result.LoadedFrom[1] != customPath {
		t.Errorf("LoadedFrom = %v", result.LoadedFrom)
	}
}

func TestLoad_CLIOverrides(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rubynest.yml"), "indent_width: 4\nignore: [vendor/**]\n")

	opts := isolated(tmpDir)
	opts.CLIConfig = &config.Config{
		IndentWidth: 6,
		Jobs:        8,
		Strict:      true,
		Format:      config.FormatJSON,
	}
	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.IndentWidth != 6 || cfg.Jobs != 8 || !cfg.Strict || cfg.Format != config.FormatJSON {
		t.Errorf("CLI overrides not applied: %+v", cfg)
	}
	if len(cfg.Ignore) != 1 {
		t.Errorf("Ignore = %v, want project value kept", cfg.Ignore)
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("RUBYNEST_INDENT_WIDTH", "5")
	t.Setenv("RUBYNEST_AUTO_INDENT", "false")
	t.Setenv("RUBYNEST_LOCALS", " a , b ,")
	t.Setenv("RUBYNEST_FORMAT", "table")

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rubynest.yml"), "indent_width: 4\n")

	opts := isolated(tmpDir)
	opts.IgnoreEnv = false
	opts.CLIConfig = &config.Config{Format: config.FormatSARIF}
	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.IndentWidth != 5 {
		t.Errorf("IndentWidth = %d, want env value 5", cfg.IndentWidth)
	}
	if cfg.AutoIndentEnabled() {
		t.Error("RUBYNEST_AUTO_INDENT=false not applied")
	}
	if strings.Join(cfg.Locals, ",") != "a,b" {
		t.Errorf("Locals = %v", cfg.Locals)
	}
	if cfg.Format != config.FormatSARIF {
		t.Errorf("Format = %q, want CLI value over env", cfg.Format)
	}
}

func TestLoad_EnvInvalid(t *testing.T) {
	t.Setenv("RUBYNEST_JOBS", "many")

	opts := isolated(t.TempDir())
	opts.IgnoreEnv = false
	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "RUBYNEST_JOBS") {
		t.Fatalf("error = %v, want RUBYNEST_JOBS error", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"indent width", "indent_width: 40\n", "indent_width"},
		{"prompt mode", "prompt_mode: fancy\n", "prompt_mode"},
		{"log level", "log_level: loud\n", "log_level"},
		{"ignore glob", "ignore: ['[']\n", "ignore[0]"},
		{"extension", "extensions: [rb]\n", "extensions[0]"},
		{"backup suffix", "backups:\n  suffix: /tmp/x\n", "backups.suffix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpDir := t.TempDir()
			writeFile(t, filepath.Join(tmpDir, ".rubynest.yml"), tt.content)

			_, err := Load(context.Background(), isolated(tmpDir))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error = %v, want field %s", err, tt.field)
			}
		})
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rubynest.yml"), "indent_width: [\n")

	if _, err := Load(context.Background(), isolated(tmpDir)); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_CustomPromptMode(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".rubynest.yml"), `
prompt_mode: mine
prompts:
  mine:
    normal: "%N> "
    continue: "%N* "
`)

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if result.Config.Prompts["mine"].Normal != "%N> " {
		t.Errorf("Prompts = %+v", result.Config.Prompts)
	}
}

func TestLoad_UnknownKeyWarning(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".rubynest.yml")
	writeFile(t, path, "indent_width: 2\nindent: 4\n")

	result, err := Load(context.Background(), isolated(tmpDir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want 1", result.Warnings)
	}
	if want := path + ":2: indent: unknown configuration key"; result.Warnings[0] != want {
		t.Errorf("warning = %q, want %q", result.Warnings[0], want)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(t.TempDir())); err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	off := false
	base := config.NewConfig()
	base.Prompts["a"] = config.PromptConfig{Normal: "a> "}
	base.Locals = []string{"x"}

	override := &config.Config{
		Markdown: &off,
		Prompts:  map[string]config.PromptConfig{"b": {Normal: "b> "}},
		Backups:  config.BackupsConfig{Suffix: ".orig"},
	}

	merged := MergeAll(base, override)
	if merged.MarkdownEnabled() {
		t.Error("override false did not win")
	}
	if len(merged.Prompts) != 2 {
		t.Errorf("Prompts = %v, want both modes", merged.Prompts)
	}
	if len(merged.Locals) != 1 || merged.IndentWidth != config.DefaultIndentWidth {
		t.Errorf("unset override fields replaced base: %+v", merged)
	}
	if merged.Backups.Suffix != ".orig" || !merged.BackupsEnabled() {
		t.Errorf("Backups = %+v", merged.Backups)
	}
	if len(base.Prompts) != 1 {
		t.Error("merge mutated base prompts")
	}
	merged.Locals[0] = "y"
	*merged.Markdown = true
	if base.Locals[0] != "x" || *override.Markdown {
		t.Error("merged config shares storage with its inputs")
	}
	if MergeAll() != nil {
		t.Error("MergeAll() of nothing should be nil")
	}
}

func TestValidate_Warnings(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Prompts["simple"] = config.PromptConfig{}
	cfg.Commands = []string{"ls -l"}

	result := Validate(cfg)
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.AllMessages())
	}
	if len(result.Warnings) != 3 {
		t.Errorf("warnings = %v, want 3", result.AllMessages())
	}

	withFile := ValidateWithFile(cfg, "x.yml")
	for _, w := range withFile.Warnings {
		if !strings.HasPrefix(w.Error(), "x.yml: ") {
			t.Errorf("warning %q lacks file path", w.Error())
		}
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	for _, name := range []string{"RUBYNEST_INDENT_WIDTH", "RUBYNEST_NO_BACKUPS", "RUBYNEST_FENCE_LABELS"} {
		if vars[name] == "" {
			t.Errorf("%s not listed", name)
		}
	}
}

func TestSortedKnownKeys(t *testing.T) {
	t.Parallel()

	keys := SortedKnownKeys()
	if keys[0] != "auto_indent" {
		t.Errorf("keys = %v", keys)
	}
	for _, k := range keys {
		if k == "format" || k == "jobs" {
			t.Errorf("CLI-only key %q listed", k)
		}
	}
}
