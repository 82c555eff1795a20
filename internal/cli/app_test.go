package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5"
	flag "github.com/spf13/pflag"

	"gitfinder/internal/process"
)

// noTools fails every command, so every helper tool is unavailable.
func noTools(_ context.Context, cmd process.Command) (process.Result, error) {
	return process.Result{}, &process.CommandError{Cmd: cmd.Name, Stage: "start", Cause: errors.New("not found")}
}

type testEnv struct {
	home   string
	config string
	out    *bytes.Buffer
	err    *bytes.Buffer
}

// newTestApp isolates HOME and the XDG directories under a temp dir.
func newTestApp(t *testing.T, stdin string) (*App, testEnv) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(home, "state"))

	env := testEnv{
		home:   home,
		config: filepath.Join(home, "gitfinder.json"),
		out:    &bytes.Buffer{},
		err:    &bytes.Buffer{},
	}
	app := &App{
		Version: "1.2.3",
		In:      strings.NewReader(stdin),
		Out:     env.out,
		Err:     env.err,
		Exec:    noTools,
		Self:    "/usr/local/bin/gitfinder",
		Home:    home,
		IsTTY:   func() bool { return false },
	}
	return app, env
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// buildRepos creates tree/work (modified) and tree/api (clean).
func buildRepos(t *testing.T, root string) (work, api string) {
	t.Helper()
	work = filepath.Join(root, "tree", "work")
	api = filepath.Join(root, "tree", "api")
	for _, dir := range []string{work, api} {
		if _, err := git.PlainInit(dir, false); err != nil {
			t.Fatalf("PlainInit(%s): %v", dir, err)
		}
	}
	writeConfig(t, filepath.Join(work, "todo.txt"), "x\n")
	return work, api
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Options
		wantErr error
	}{
		{name: "no flags", args: nil, want: Options{}},
		{name: "list short", args: []string{"-l"}, want: Options{List: true}},
		{name: "config long", args: []string{"--config", "/tmp/c.json", "--list"}, want: Options{ConfigPath: "/tmp/c.json", List: true}},
		{name: "config short", args: []string{"-c", "c.yaml"}, want: Options{ConfigPath: "c.yaml"}},
		{name: "create config", args: []string{"--create-config"}, want: Options{CreateConfig: true}},
		{name: "check deps", args: []string{"--check-deps"}, want: Options{CheckDeps: true}},
		{name: "preview", args: []string{"--preview", "/r/a"}, want: Options{Preview: "/r/a"}},
		{name: "version", args: []string{"--version"}, want: Options{Version: true}},
		{name: "help", args: []string{"--help"}, wantErr: flag.ErrHelp},
		{name: "unknown flag", args: []string{"--bogus"}, wantErr: ErrUsage},
		{name: "positional", args: []string{"somewhere"}, wantErr: ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseArgs(tt.args, &bytes.Buffer{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseArgs(%q) error = %v, want %v", tt.args, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseArgs(%q) error = %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("ParseArgs(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestParseArgs_HelpHidesPreview(t *testing.T) {
	var stderr bytes.Buffer
	_, _ = ParseArgs([]string{"--help"}, &stderr)

	help := stderr.String()
	if !strings.Contains(help, "--check-deps") || !strings.Contains(help, "Usage: gitfinder") {
		t.Errorf("help missing content: %q", help)
	}
	if strings.Contains(help, "--preview") {
		t.Error("help lists the hidden --preview flag")
	}
}

func TestRun_ExitCodes(t *testing.T) {
	tests := []struct {
		args []string
		want int
	}{
		{[]string{"--version"}, 0},
		{[]string{"--help"}, 0},
		{[]string{"--bogus"}, 1},
		{[]string{"extra"}, 1},
	}

	for _, tt := range tests {
		app, _ := newTestApp(t, "")
		if got := app.Run(context.Background(), tt.args); got != tt.want {
			t.Errorf("Run(%q) = %d, want %d", tt.args, got, tt.want)
		}
	}
}

func TestRun_Version(t *testing.T) {
	app, env := newTestApp(t, "")
	app.Run(context.Background(), []string{"--version"})
	if env.out.String() != "gitfinder 1.2.3\n" {
		t.Errorf("stdout = %q", env.out.String())
	}
}

func TestRun_CreateConfig(t *testing.T) {
	app, env := newTestApp(t, "")

	if code := app.Run(context.Background(), []string{"--create-config", "-c", env.config}); code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, env.err.String())
	}
	data, err := os.ReadFile(env.config)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), `"max_depth": 10`) {
		t.Errorf("config = %s", data)
	}
	if !strings.Contains(env.out.String(), "Created default config") {
		t.Errorf("stdout = %q", env.out.String())
	}
}

func TestRun_CreateConfigKeepsExisting(t *testing.T) {
	app, env := newTestApp(t, "")
	writeConfig(t, env.config, `{"max_depth": 3}`)

	if code := app.Run(context.Background(), []string{"--create-config", "-c", env.config}); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	data, _ := os.ReadFile(env.config)
	if string(data) != `{"max_depth": 3}` {
		t.Errorf("existing config modified: %s", data)
	}
	if !strings.Contains(env.out.String(), "already exists") {
		t.Errorf("stdout = %q", env.out.String())
	}
}

func TestRun_CreateConfigUnwritable(t *testing.T) {
	app, env := newTestApp(t, "")
	blocker := filepath.Join(env.home, "blocker")
	writeConfig(t, blocker, "")

	code := app.Run(context.Background(), []string{"--create-config", "-c", filepath.Join(blocker, "config.json")})
	if code != 1 {
		t.Errorf("exit = %d, want 1", code)
	}
	if !strings.Contains(env.err.String(), "cannot write config") {
		t.Errorf("stderr = %q", env.err.String())
	}
}

func TestRun_CheckDeps(t *testing.T) {
	app, env := newTestApp(t, "")

	if code := app.Run(context.Background(), []string{"--check-deps", "-c", env.config}); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	out := env.out.String()
	for _, want := range []string{
		"❌ fd   not found, using directory walk (slower)",
		"❌ fzf  not found, using built-in picker or numbered prompt",
		"❌ git  not found, using in-process go-git",
		"Config: " + env.config,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_List(t *testing.T) {
	app, env := newTestApp(t, "")
	work, api := buildRepos(t, env.home)
	writeConfig(t, env.config, `{"search_paths": ["`+filepath.Join(env.home, "tree")+`"], "ignore_patterns": ["node_modules"]}`)

	if code := app.Run(context.Background(), []string{"--list", "-c", env.config}); code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, env.err.String())
	}

	want := "Found 2 repositories:\n" +
		"🔴 MODIFIED      " + work + "\n" +
		"✅ CLEAN         " + api + "\n"
	if env.out.String() != want {
		t.Errorf("stdout = %q, want %q", env.out.String(), want)
	}
}

func TestRun_ListNothingFound(t *testing.T) {
	app, env := newTestApp(t, "")
	empty := filepath.Join(env.home, "empty")
	if err := os.Mkdir(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, env.config, `{"search_paths": ["`+empty+`"]}`)

	if code := app.Run(context.Background(), []string{"-l", "-c", env.config}); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if env.out.Len() != 0 {
		t.Errorf("stdout = %q, want empty", env.out.String())
	}
	if !strings.Contains(env.err.String(), "No git repositories found") {
		t.Errorf("stderr = %q", env.err.String())
	}
}

func TestRun_MalformedConfigFallsBack(t *testing.T) {
	app, env := newTestApp(t, "")
	writeConfig(t, env.config, `{"search_paths": [`)

	if code := app.Run(context.Background(), []string{"--check-deps", "-c", env.config}); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(env.err.String(), "config unusable, using defaults") {
		t.Errorf("stderr = %q, want a config warning", env.err.String())
	}
	data, _ := os.ReadFile(env.config)
	if string(data) != `{"search_paths": [` {
		t.Error("malformed config was modified")
	}
}

func TestRun_SelectManual(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  func(work, api string) string
	}{
		{"first", "1\n", func(work, _ string) string { return "cd '" + work + "'\n" }},
		{"second", "2\n", func(_, api string) string { return "cd '" + api + "'\n" }},
		{"cancel", "\n", func(string, string) string { return "" }},
		{"out of range", "99\n", func(string, string) string { return "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, env := newTestApp(t, tt.input)
			work, api := buildRepos(t, env.home)
			writeConfig(t, env.config, `{"search_paths": ["`+filepath.Join(env.home, "tree")+`"], "ignore_patterns": ["node_modules"], "show_preview": false}`)

			if code := app.Run(context.Background(), []string{"-c", env.config}); code != 0 {
				t.Fatalf("exit = %d", code)
			}
			if got := env.out.String(); got != tt.want(work, api) {
				t.Errorf("stdout = %q, want %q", got, tt.want(work, api))
			}
			if !strings.Contains(env.err.String(), "Select a number") {
				t.Errorf("prompt not on stderr: %q", env.err.String())
			}
		})
	}
}

func TestRun_Preview(t *testing.T) {
	app, env := newTestApp(t, "")
	work, _ := buildRepos(t, env.home)

	if code := app.Run(context.Background(), []string{"--preview", work + "\t", "-c", env.config}); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	out := env.out.String()
	for _, want := range []string{"Git Status:", "todo.txt", "Contents:"} {
		if !strings.Contains(out, want) {
			t.Errorf("preview missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(env.config); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("preview created the config file: %v", err)
	}
}

// fzfRecorder resolves fzf and records the picker invocation. Every other
// tool is unavailable.
type fzfRecorder struct {
	args []string
}

func (r *fzfRecorder) exec(ctx context.Context, cmd process.Command) (process.Result, error) {
	if cmd.Name != "fzf" {
		return noTools(ctx, cmd)
	}
	if len(cmd.Args) == 1 && cmd.Args[0] == "--version" {
		return process.Result{Stdout: "0.54.0\n"}, nil
	}
	r.args = cmd.Args
	return process.Result{}, &process.ExitError{Cmd: "fzf", Code: 130}
}

func TestRun_FzfPreviewKeepsSessionConfig(t *testing.T) {
	app, env := newTestApp(t, "")
	work, _ := buildRepos(t, env.home)
	writeConfig(t, env.config, `{"search_paths": ["`+filepath.Join(env.home, "tree")+`"], "ignore_patterns": ["node_modules"]}`)

	fzf := &fzfRecorder{}
	app.Exec = fzf.exec
	if code := app.Run(context.Background(), []string{"-c", env.config}); code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, env.err.String())
	}
	if env.out.Len() != 0 {
		t.Errorf("stdout = %q, want empty after cancel", env.out.String())
	}

	want := "'/usr/local/bin/gitfinder' --config '" + env.config + "' --preview {2}"
	if len(fzf.args) < 2 || fzf.args[len(fzf.args)-2] != "--preview" || fzf.args[len(fzf.args)-1] != want {
		t.Fatalf("fzf args = %q, want preview command %q", fzf.args, want)
	}

	// Run the callback the way fzf would for the first line.
	preview, previewEnv := newTestApp(t, "")
	if code := preview.Run(context.Background(), []string{"--config", env.config, "--preview", work}); code != 0 {
		t.Fatalf("preview exit = %d", code)
	}
	if !strings.Contains(previewEnv.out.String(), "todo.txt") {
		t.Errorf("preview output = %q", previewEnv.out.String())
	}
	defaultPath := filepath.Join(previewEnv.home, "config", "gitfinder", "config.json")
	if _, err := os.Stat(defaultPath); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("default config written at %s: %v", defaultPath, err)
	}
}

func TestRun_UnusableStateDirKeepsDiagnostics(t *testing.T) {
	app, env := newTestApp(t, "")
	stateFile := filepath.Join(env.home, "state-is-a-file")
	writeConfig(t, stateFile, "")
	t.Setenv("XDG_STATE_HOME", stateFile)
	writeConfig(t, env.config, `{"search_paths": [`)

	if code := app.Run(context.Background(), []string{"--check-deps", "-c", env.config}); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	stderr := env.err.String()
	for _, want := range []string{"log file disabled", "config unusable, using defaults", env.config} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestRun_NoHomeSearchesWorkingDirectory(t *testing.T) {
	app, env := newTestApp(t, "")
	app.Home = ""
	app.HomeErr = errors.New("$HOME is not defined")
	t.Chdir(env.home)
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if code := app.Run(context.Background(), []string{"--create-config", "-c", env.config}); code != 0 {
		t.Fatalf("exit = %d, stderr = %q", code, env.err.String())
	}
	data, err := os.ReadFile(env.config)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if !strings.Contains(string(data), `"search_paths": [
    "`+wd+`"`) {
		t.Errorf("config does not search %s:\n%s", wd, data)
	}
	if !strings.Contains(env.err.String(), "home directory unknown") {
		t.Errorf("stderr = %q, want a home warning", env.err.String())
	}
}

func TestRun_WritesLogFile(t *testing.T) {
	app, env := newTestApp(t, "")
	app.Run(context.Background(), []string{"--check-deps", "-c", env.config})

	if _, err := os.Stat(filepath.Join(env.home, "state", "gitfinder", LogFileName)); err != nil {
		t.Errorf("log file missing: %v", err)
	}
}

func TestCdCommand(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/home/u/proj", `cd '/home/u/proj'`},
		{"/home/u/it's", `cd '/home/u/it'\''s'`},
		{"/home/u/a b", `cd '/home/u/a b'`},
	}
	for _, tt := range tests {
		if got := CdCommand(tt.path); got != tt.want {
			t.Errorf("CdCommand(%q) = %s, want %s", tt.path, got, tt.want)
		}
	}
}
