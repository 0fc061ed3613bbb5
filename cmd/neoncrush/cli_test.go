package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neoncrush/internal/animation"
	"neoncrush/internal/config"
	"neoncrush/internal/pipeline"
	"neoncrush/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	outDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
		t.Fatalf("mkdir output dir: %v", err)
	}

	configPath := filepath.Join(base, "neoncrush.toml")
	content := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
state_dir = %q

[renderer]
backend = "static"

[logging]
level = "warn"
`, cfg.Paths.OutputDir, cfg.Paths.LogDir, cfg.Paths.StateDir)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, outDir: cfg.Paths.OutputDir}
}

func runCLI(t *testing.T, env *cliTestEnv, prompt prompter, args ...string) (string, string, error) {
	t.Helper()
	cmd := buildRootCommand(prompt)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type scriptedPrompter struct {
	action    animation.Action
	dismissAt string
	asked     []string
}

func (p *scriptedPrompter) ChooseAction(rec animation.Recommendation) (animation.Action, error) {
	p.asked = append(p.asked, "action")
	if p.dismissAt == "action" {
		return "", errPromptDismissed
	}
	if p.action != "" {
		return p.action, nil
	}
	return rec.Action, nil
}

func (p *scriptedPrompter) EditSettings(settings *pipeline.Settings) error {
	p.asked = append(p.asked, "settings")
	if p.dismissAt == "settings" {
		return errPromptDismissed
	}
	if settings.Action == animation.ActionGIF {
		settings.DurationSeconds = 1
		settings.FPS = 2
	}
	return nil
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "Renderer backend: static")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, nil, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, nil, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}

func TestDetectJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	animated := testsupport.WriteSVG(t, "spin.svg", testsupport.AnimatedSVG)
	static := testsupport.WriteSVG(t, "logo.svg", testsupport.StaticSVG)
	missing := filepath.Join(t.TempDir(), "missing.svg")

	out, _, err := runCLI(t, env, nil, "detect", "--json", "--verbose", animated, static, missing)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	var reports []detectReport
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("decode json: %v\n%s", err, out)
	}
	if len(reports) != 3 {
		t.Fatalf("expected 3 reports, got %d", len(reports))
	}
	if reports[0].DurationSeconds != 2 || reports[0].Action != animation.ActionGIF || len(reports[0].Timings) != 1 {
		t.Fatalf("unexpected animated report %+v", reports[0])
	}
	if reports[0].Timings[0].Element != "animate" || reports[0].Timings[0].EndSeconds != 2 {
		t.Fatalf("unexpected timing %+v", reports[0].Timings[0])
	}
	if reports[1].Animated || reports[1].Action != animation.ActionRaster {
		t.Fatalf("unexpected static report %+v", reports[1])
	}
	if reports[2].Error == "" {
		t.Fatalf("expected read error for missing file, got %+v", reports[2])
	}
}

func TestDetectTable(t *testing.T) {
	env := setupCLITestEnv(t)
	animated := testsupport.WriteSVG(t, "spin.svg", testsupport.AnimatedSVG)

	out, _, err := runCLI(t, env, nil, "detect", "-v", animated)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	requireContains(t, out, "Recommended")
	requireContains(t, out, "2s")
	requireContains(t, out, "animation detected")
	requireContains(t, out, "animate")
}

func TestMinifyWritesOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSVG(t, "Logo Mark.svg", "<svg>\n  <!-- c -->\n  <rect/>\n</svg>")

	out, _, err := runCLI(t, env, nil, "minify", src)
	if err != nil {
		t.Fatalf("minify: %v", err)
	}
	target := filepath.Join(env.outDir, "Logo Mark_optimized.svg")
	requireContains(t, out, target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "<svg><rect/></svg>" {
		t.Fatalf("unexpected output %q", data)
	}
}

func TestRasterizeJPEG(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSVG(t, "logo.svg", testsupport.StaticSVG)
	outFile := filepath.Join(t.TempDir(), "custom.jpg")

	if _, _, err := runCLI(t, env, nil, "rasterize", "--format", "jpeg", "--quality", "0.5", "--out", outFile, src); err != nil {
		t.Fatalf("rasterize: %v", err)
	}
	f, err := os.Open(outFile)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := jpeg.Decode(f)
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("expected 40x30, got %dx%d", b.Dx(), b.Dy())
	}

	if _, _, err := runCLI(t, env, nil, "rasterize", "--format", "webp", src); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestEncodeAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSVG(t, "spin.svg", testsupport.AnimatedSVG)

	out, _, err := runCLI(t, env, nil, "encode", "--duration", "1", "--fps", "3", src)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	requireContains(t, out, "Attempt")
	requireContains(t, out, "Within 5.00 MB target after 1 attempt(s) at 3 fps")

	f, err := os.Open(filepath.Join(env.outDir, "spin_optimized.gif"))
	if err != nil {
		t.Fatalf("open gif: %v", err)
	}
	defer f.Close()
	decoded, err := gif.DecodeAll(f)
	if err != nil {
		t.Fatalf("decode gif: %v", err)
	}
	if len(decoded.Image) != 3 {
		t.Fatalf("expected 3 frames, got %d", len(decoded.Image))
	}

	out, _, err = runCLI(t, env, nil, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "spin.svg")
	requireContains(t, out, "completed")

	out, _, err = runCLI(t, env, nil, "history", "clear")
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 1 run(s)")

	out, _, err = runCLI(t, env, nil, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No conversions recorded")
}

func TestEncodeRejectsNonSVG(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := runCLI(t, env, nil, "encode", "--duration", "1", path); err == nil {
		t.Fatal("expected non-svg source to fail")
	}
}

func TestNegativeFlagsRejected(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSVG(t, "spin.svg", testsupport.AnimatedSVG)
	cases := [][]string{
		{"encode", "--fps=-5", src},
		{"encode", "--max-size=-0.5", src},
		{"encode", "--quality=-1", src},
		{"encode", "--duration=-2", src},
		{"rasterize", "--quality=-0.2", src},
		{"detect", "--workers=-1", src},
	}
	for _, args := range cases {
		_, _, err := runCLI(t, env, nil, args...)
		if err == nil {
			t.Fatalf("%v: expected negative flag to be rejected", args)
		}
		requireContains(t, err.Error(), "must not be negative")
	}
	out, _, err := runCLI(t, env, nil, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No conversions recorded")
}

func TestProcessAssumeYes(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSVG(t, "logo.svg", testsupport.StaticSVG)

	out, _, err := runCLI(t, env, nil, "process", "--yes", src)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "logo.svg: static image")
	requireContains(t, out, "Recommended: Raster image")
	if _, err := os.Stat(filepath.Join(env.outDir, "logo_optimized.png")); err != nil {
		t.Fatalf("expected png output: %v", err)
	}
}

func TestProcessDismissedSkips(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSVG(t, "spin.svg", testsupport.AnimatedSVG)
	prompt := &scriptedPrompter{dismissAt: "settings"}

	out, _, err := runCLI(t, env, prompt, "process", src)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Skipped spin.svg")
	if len(prompt.asked) != 2 {
		t.Fatalf("expected action and settings prompts, got %v", prompt.asked)
	}
	if _, err := os.Stat(filepath.Join(env.outDir, "spin_optimized.gif")); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, got %v", err)
	}

	out, _, err = runCLI(t, env, nil, "history", "--json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var entries []historyEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(entries) != 1 || entries[0].Status != "skipped" {
		t.Fatalf("expected one skipped entry, got %+v", entries)
	}
}

func TestProcessPromptedAction(t *testing.T) {
	env := setupCLITestEnv(t)
	src := testsupport.WriteSVG(t, "spin.svg", testsupport.AnimatedSVG)
	prompt := &scriptedPrompter{action: animation.ActionGIF}

	out, _, err := runCLI(t, env, prompt, "process", src)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	requireContains(t, out, "Recommended: GIF")
	requireContains(t, out, "spin_optimized.gif")

	minify := &scriptedPrompter{action: animation.ActionMinify}
	out, _, err = runCLI(t, env, minify, "process", src)
	if err != nil {
		t.Fatalf("process minify: %v", err)
	}
	requireContains(t, out, "spin_optimized.svg")
}

func TestDoctor(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, nil, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, out)
	}
	requireContains(t, out, "== Checks ==")
	requireContains(t, out, "Renderer:")
	requireContains(t, out, "[OK] static")
	requireContains(t, out, "History:")
}

func TestSniffMediaType(t *testing.T) {
	cases := []struct {
		path string
		data string
		want string
	}{
		{"a.svg", "anything", pipeline.MediaTypeSVG},
		{"a.xml", `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg"/>`, pipeline.MediaTypeSVG},
		{"a.txt", "hello", "text/plain"},
		{"a.bin", "\x89PNG\r\n\x1a\n", "image/png"},
	}
	for _, tc := range cases {
		if got := sniffMediaType(tc.path, []byte(tc.data)); got != tc.want {
			t.Fatalf("sniffMediaType(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestFormatHelpers(t *testing.T) {
	if got := formatBytes(12345); got != "12,345 bytes" {
		t.Fatalf("formatBytes = %q", got)
	}
	if got := formatBytes(3 * 1024 * 1024); got != "3.00 MB" {
		t.Fatalf("formatBytes MB = %q", got)
	}
	if got := formatSavings(62.4); got != "62% smaller" {
		t.Fatalf("formatSavings = %q", got)
	}
	if got := formatSavings(-10); got != "10% larger" {
		t.Fatalf("formatSavings negative = %q", got)
	}
	if got := formatSeconds(1.5); got != "1.5s" {
		t.Fatalf("formatSeconds = %q", got)
	}
	if got := formatSeconds(0); got != "0s" {
		t.Fatalf("formatSeconds zero = %q", got)
	}
}
