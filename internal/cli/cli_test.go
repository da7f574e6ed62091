package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"editorjump/internal/config"
	"editorjump/internal/launcher"
	"editorjump/internal/logging"
	"editorjump/internal/models"
	"editorjump/internal/settings"
	"editorjump/internal/view"
)

type testEnv struct {
	environment
	out          *bytes.Buffer
	settingsPath string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	settingsPath := filepath.Join(home, "settings.yaml")
	t.Setenv(config.EnvSettings, settingsPath)
	t.Setenv(config.EnvPlatform, "linux")
	t.Setenv(config.EnvWebAddr, "")
	t.Setenv(config.EnvLog, "")

	out := &bytes.Buffer{}
	return &testEnv{
		environment: environment{
			stdout:      out,
			stderr:      io.Discard,
			isTerminal:  func() bool { return false },
			openBrowser: func(string) error { return nil },
			getwd:       func() (string, error) { return home, nil },
		},
		out:          out,
		settingsPath: settingsPath,
	}
}

func (e *testEnv) seed(t *testing.T, ides []models.IDE, selected, rootPath string) {
	t.Helper()
	store := settings.New(e.settingsPath, logging.Discard())
	if err := settings.SetIDEs(store, ides); err != nil {
		t.Fatal(err)
	}
	if err := settings.SetSelected(store, selected); err != nil {
		t.Fatal(err)
	}
	if rootPath != "" {
		if err := settings.SetRootProjectPath(store, rootPath); err != nil {
			t.Fatal(err)
		}
	}
}

func (e *testEnv) run(ctx context.Context, args ...string) error {
	cmd := newRootCmd("1.2.3", e.environment)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run(context.Background(), "--version"); err != nil {
		t.Fatalf("--version error = %v", err)
	}
	if got := env.out.String(); got != "editorjump 1.2.3\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRoot_NeedsTerminal(t *testing.T) {
	env := newTestEnv(t)

	err := env.run(context.Background())
	if !errors.Is(err, errNoTerminal) {
		t.Errorf("err = %v, want errNoTerminal", err)
	}
}

func TestRoot_RejectsArgs(t *testing.T) {
	env := newTestEnv(t)

	if err := env.run(context.Background(), "somefile"); err == nil {
		t.Error("unexpected positional argument should fail")
	}
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []models.IDE{
		{Name: "IDEA"},
		{Name: "Tool", IsCustom: true, CommandPath: "true"},
	}, "Tool", "/work/monorepo")

	if err := env.run(context.Background(), "status"); err != nil {
		t.Fatalf("status error = %v", err)
	}

	out := env.out.String()
	for _, want := range []string{
		"⚡ Tool\n",
		"Command:  true\n",
		"Project:  /work/monorepo\n",
		"Settings: " + env.settingsPath,
		"Modified: ",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStatus_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []models.IDE{{Name: "IDEA"}}, "Ghost", "")

	if err := env.run(context.Background(), "status"); err != nil {
		t.Fatalf("status error = %v", err)
	}
	if !strings.Contains(env.out.String(), "⚡ Ghost (not found)") {
		t.Errorf("output = %q", env.out.String())
	}
	if strings.Contains(env.out.String(), "Command:") {
		t.Error("an unconfigured IDE has no command")
	}
}

func TestOpen_LaunchesActiveIDE(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	record := filepath.Join(dir, "args")
	script := filepath.Join(dir, "fake ide.sh")
	body := "#!/bin/sh\necho \"$@\" > '" + record + "'\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(dir, "main.go")
	os.WriteFile(file, []byte("package main\n"), 0644)

	env.seed(t, []models.IDE{
		{Name: "IDEA"},
		{Name: "Fake", IsCustom: true, CommandPath: script},
	}, "Fake", "/work/monorepo")

	if err := env.run(context.Background(), "open", file, "7"); err != nil {
		t.Fatalf("open error = %v", err)
	}
	if !strings.Contains(env.out.String(), "in Fake") {
		t.Errorf("output = %q", env.out.String())
	}

	want := "/work/monorepo --line 7 " + file + "\n"
	deadline := time.Now().Add(5 * time.Second)
	for {
		got, err := os.ReadFile(record)
		if err == nil && string(got) == want {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("recorded args = %q, want %q", got, want)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name    string
		ides    []models.IDE
		args    []string
		wantErr error
		wantMsg string
	}{
		{
			name:    "invalid line",
			ides:    []models.IDE{{Name: "IDEA"}},
			args:    []string{"open", "main.go", "zero"},
			wantMsg: `invalid line "zero"`,
		},
		{
			name:    "line below one",
			ides:    []models.IDE{{Name: "IDEA"}},
			args:    []string{"open", "main.go", "0"},
			wantMsg: "invalid line",
		},
		{
			name:    "custom without command",
			ides:    []models.IDE{{Name: "IDEA"}, {Name: "Empty", IsCustom: true}},
			args:    []string{"open", "main.go"},
			wantErr: launcher.ErrNoCommand,
		},
		{
			name:    "missing file argument",
			ides:    []models.IDE{{Name: "IDEA"}},
			args:    []string{"open"},
			wantMsg: "arg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seed(t, tt.ides, tt.ides[len(tt.ides)-1].Name, "")

			err := env.run(context.Background(), tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("err = %v, want it to mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestRoot_WebServesPage(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []models.IDE{{Name: "IDEA"}, {Name: "GoLand"}}, "GoLand", "")

	urls := make(chan string, 1)
	env.openBrowser = func(url string) error {
		urls <- url
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- env.run(ctx, "--web=127.0.0.1:0") }()

	var url string
	select {
	case url = <-urls:
	case err := <-done:
		t.Fatalf("--web exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("browser was never opened")
	}

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{view.Title, "GoLand"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("page missing %q", want)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("--web returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("--web did not stop after cancel")
	}
}

func TestRoot_WebNoBrowser(t *testing.T) {
	env := newTestEnv(t)
	env.openBrowser = func(string) error {
		t.Error("browser should not be opened with --no-browser")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	if err := env.run(ctx, "--web=127.0.0.1:0", "--no-browser"); err != nil {
		t.Fatalf("--web error = %v", err)
	}
	if !strings.Contains(env.out.String(), view.Title+" at http://127.0.0.1:") {
		t.Errorf("output = %q", env.out.String())
	}
}

func TestFirstRun_SavesConfigWithoutEnvOverrides(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, []models.IDE{{Name: "IDEA"}}, "IDEA", "")

	if err := env.run(context.Background(), "status"); err != nil {
		t.Fatalf("status error = %v", err)
	}

	data, err := os.ReadFile(config.ConfigPath())
	if err != nil {
		t.Fatalf("first run should write %s: %v", config.ConfigPath(), err)
	}
	if strings.Contains(string(data), env.settingsPath) || strings.Contains(string(data), `"platform"`) {
		t.Errorf("environment overrides were saved:\n%s", data)
	}
}
