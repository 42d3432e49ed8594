package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/hilite/internal/config"
	"github.com/dshills/hilite/internal/document"
	"github.com/dshills/hilite/internal/theme"
)

const miniGrammar = `
name = "mini"
extensions = [".mini"]

[[groups]]
attr = "code-comment"
rules = [{ start = '#', end = '$', one_line = true }]

[[groups]]
attr = "code-keyword"
keywords = ["def", "end"]
`

// sandbox moves the test into an empty directory so no user config is read.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := newRootCommand(&stdout, &stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestLanguages(t *testing.T) {
	sandbox(t)

	out, _, err := execute("languages")
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^go\s+\.go$`, out)
	assert.Regexp(t, `(?m)^rust\s+\.rs$`, out)
}

func TestDump(t *testing.T) {
	dir := sandbox(t)
	path := write(t, dir, "a.rs", "fn main() {}\n// héllo\n")

	out, _, err := execute("dump", path)
	require.NoError(t, err)
	assert.Equal(t, `1:0-2 code-keyword "fn"
1:3-7 code-fn-call "main"
2:0-8 code-comment "// héllo"
`, out)
}

func TestDumpWithGrammarDir(t *testing.T) {
	dir := sandbox(t)
	grammars := filepath.Join(dir, "grammars")
	require.NoError(t, os.Mkdir(grammars, 0o755))
	write(t, grammars, "mini.toml", miniGrammar)
	path := write(t, dir, "x.mini", "def f # note")

	out, _, err := execute("dump", "--grammar-dir", grammars, path)
	require.NoError(t, err)
	assert.Equal(t, `1:0-3 code-keyword "def"
1:6-12 code-comment "# note"
`, out)
}

func TestDumpUnknownFiletype(t *testing.T) {
	dir := sandbox(t)
	path := write(t, dir, "notes.txt", "fn main")

	out, _, err := execute("dump", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	_, _, err = execute("dump", filepath.Join(dir, "missing.rs"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheck(t *testing.T) {
	dir := sandbox(t)
	good := write(t, dir, "mini.toml", miniGrammar)
	warn := write(t, dir, "warn.yaml", "groups:\n  - attr: x\n    rules: [{regex: '(unclosed'}, {keyword: ok}]\n")
	bad := write(t, dir, "bad.toml", "[[groups]]\nattr = \"c\"\nrules = [{ start = '/\\*' }]\n")

	out, _, err := execute("check", good, warn)
	require.NoError(t, err)
	assert.Contains(t, out, good+": ok (mini, 2 groups, 0 warnings)")
	assert.Contains(t, out, warn+": ok (warn, 1 groups, 1 warnings)")
	assert.Contains(t, out, "  warning: ")

	out, _, err = execute("check", good, bad)
	require.ErrorIs(t, err, errCheckFailed)
	assert.Contains(t, err.Error(), "1 of 2")
	assert.Contains(t, out, bad+": ")
}

func TestCheckStrict(t *testing.T) {
	dir := sandbox(t)
	warn := write(t, dir, "warn.yaml", "groups:\n  - attr: x\n    rules: [{regex: '(unclosed'}]\n")
	cfg := write(t, dir, "strict.toml", "strict = true\n")

	_, _, err := execute("check", "--config", cfg, warn)
	assert.ErrorIs(t, err, errCheckFailed)
}

func TestInvalidConfiguration(t *testing.T) {
	sandbox(t)

	_, _, err := execute("languages", "--log-level", "loud")
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestLogFile(t *testing.T) {
	dir := sandbox(t)
	logPath := filepath.Join(dir, "hilite.log")
	t.Setenv("HILITE_LOG_FILE", logPath)
	path := write(t, dir, "notes.txt", "x")

	_, stderr, err := execute("dump", "--log-level", "debug", path)
	require.NoError(t, err)
	assert.Empty(t, stderr)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "no grammar for file")
}

func newTestCLI(t *testing.T, cfg config.Config) *cli {
	t.Helper()
	return &cli{
		stdout: io.Discard,
		stderr: io.Discard,
		v:      viper.New(),
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunView(t *testing.T) {
	dir := t.TempDir()
	grammars := filepath.Join(dir, "grammars")
	require.NoError(t, os.Mkdir(grammars, 0o755))
	write(t, grammars, "mini.toml", miniGrammar)

	cfg := config.Defaults()
	cfg.GrammarDirs = []string{grammars}
	c := newTestCLI(t, cfg)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(20, 3)
	defer screen.Fini()

	done := make(chan error, 1)
	go func() {
		done <- c.runView(context.Background(), screen, document.New("x.mini", "def"), theme.Default())
	}()
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("viewer did not quit")
	}

	_, _, style, _ := screen.GetContent(2, 0)
	assert.Equal(t, theme.Default().StyleFor("code-keyword"), style)
}

func TestRunViewCancelled(t *testing.T) {
	c := newTestCLI(t, config.Defaults())

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.runView(ctx, screen, document.New("a.rs", "fn"), theme.Default())
	assert.NoError(t, err)
}
