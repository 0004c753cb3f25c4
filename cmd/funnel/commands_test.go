package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/funnelworks/funnel/render"
	"github.com/sirupsen/logrus"
)

func testLogger() (*logrus.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return log, &buf
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	log, buf := testLogger()
	cmd := newRootCmd(log)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	return buf.String(), err
}

func TestGenerate(t *testing.T) {
	t.Setenv("FUNNEL_CONFIG", "")
	dir := t.TempDir()
	for _, tc := range []struct {
		name string
		args []string
	}{
		{name: "profile", args: []string{"--set", "quality.preview=64", "--set", "profile.wall_thickness=4"}},
		{name: "finned", args: []string{"--set", "quality.preview=16", "--set", "finned.fin_type=0", "--png", filepath.Join(dir, "finned.png"), "--material", "pla"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out := filepath.Join(dir, tc.name+".stl")
			logs, err := run(t, append([]string{tc.name, "--out", out}, tc.args...)...)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(logs, "wrote model") || !strings.Contains(logs, "model="+tc.name) {
				t.Errorf("missing generation log:\n%s", logs)
			}
			fp, err := os.Open(out)
			if err != nil {
				t.Fatal(err)
			}
			defer fp.Close()
			model, err := render.ReadSTL(fp)
			if err != nil && !errors.Is(err, render.ErrNormalMismatch) {
				t.Fatal(err)
			}
			if len(model) == 0 {
				t.Fatal("no triangles written")
			}
			if !strings.Contains(logs, "triangles=") {
				t.Errorf("missing triangle count:\n%s", logs)
			}
		})
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Setenv("FUNNEL_CONFIG", "")
	out := filepath.Join(t.TempDir(), "x.stl")
	for _, args := range [][]string{
		{"profile", "--out", out, "--quality", "draft"},
		{"profile", "--out", out, "--material", "abs"},
		{"finned", "--out", out, "--set", "finned.nope=1"},
		{"finned", "--out", out, "--config", filepath.Join(t.TempDir(), "missing.yaml")},
		{"inspect"},
		{"inspect", filepath.Join(t.TempDir(), "missing.stl")},
	} {
		if _, err := run(t, args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestInspect(t *testing.T) {
	t.Setenv("FUNNEL_CONFIG", "")
	out := filepath.Join(t.TempDir(), "profile.stl")
	if _, err := run(t, "profile", "--out", out, "--set", "quality.preview=64", "--set", "profile.wall_thickness=4"); err != nil {
		t.Fatal(err)
	}
	logs, err := run(t, "inspect", out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs, "inspected model") || !strings.Contains(logs, "triangles=") {
		t.Errorf("unexpected inspect output:\n%s", logs)
	}
}

func TestInitThenGenerate(t *testing.T) {
	t.Setenv("FUNNEL_CONFIG", "")
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "job.yaml")
	if _, err := run(t, "init", cfgPath); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "init", cfgPath); err == nil {
		t.Error("init should refuse to overwrite")
	}
	out := filepath.Join(dir, "finned.stl")
	logs, err := run(t, "finned", "-v", "--config", cfgPath, "--out", out, "--set", "quality.preview=16")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs, "loaded config") {
		t.Errorf("expected debug log of config path:\n%s", logs)
	}
}
