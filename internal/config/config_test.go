package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/funnelworks/funnel/form3/obj3/funnel"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Profile.Parms().ThroatRadius - cfg.Profile.Parms().FunnelTopRadius; got != -35 {
		t.Errorf("default profile first vertex x = %g, want -35", got)
	}
	if got := cfg.Finned.Parms().FinType; got != funnel.FinBasic {
		t.Errorf("default fin type = %v, want basic", got)
	}
	for _, tt := range []struct {
		quality string
		want    int
		wantErr bool
	}{
		{QualityPreview, 64, false},
		{QualityExport, 256, false},
		{"draft", 0, true},
	} {
		got, err := cfg.MeshCells(tt.quality)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("MeshCells(%q) = %d, %v, want %d", tt.quality, got, err, tt.want)
		}
	}
}

func TestLoadFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	data := []byte(`
quality:
  export: 300
material: petg
finned:
  fin_type: 2
  fin_count: 6
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, got, err := LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("path = %q, want %q", got, path)
	}
	if cfg.Quality.Export != 300 || cfg.Quality.Preview != 64 {
		t.Errorf("quality = %+v", cfg.Quality)
	}
	if cfg.Material != "petg" {
		t.Errorf("material = %q", cfg.Material)
	}
	k := cfg.Finned.Parms()
	if k.FinType != funnel.FinImproved || k.FinCount != 6 || k.OuterDiameter != 70 {
		t.Errorf("finned parms = %+v", k)
	}
	if cfg.Profile.FunnelHeight != 60 {
		t.Errorf("profile defaults lost: %+v", cfg.Profile)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("quality: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadFromPath(bad); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "job.yaml")
	if err := os.WriteFile(path, []byte("output_dir: out\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfigPath, path)
	cfg, got, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if got != path || cfg.OutputDir != "out" {
		t.Errorf("Load() = %q, %q", got, cfg.OutputDir)
	}
}

func TestSet(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.SetAll([]string{
		"finned.fin_count=4",
		"finned.stem_taper = 12.5",
		"profile.wall_thickness=1",
		"profile.funnel_height=72.25",
		"material=PLA",
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Finned.FinCount != 4 || cfg.Finned.StemTaper != 12.5 {
		t.Errorf("finned = %+v", cfg.Finned)
	}
	if cfg.Profile.WallThickness != 1 || cfg.Profile.FunnelHeight != 72.25 {
		t.Errorf("profile = %+v", cfg.Profile)
	}
	if cfg.Material != "PLA" {
		t.Errorf("material = %q", cfg.Material)
	}
	if cfg.Finned.OuterDiameter != 70 {
		t.Error("unrelated value changed")
	}

	for _, bad := range []string{
		"finned.nope=1",
		"finned",
		"finned=1",
		"finned.fin_count=abc",
		"finned.fin_count=2.5",
		"finned.fin_type=1.9",
		"finned.fin_direction=-0.5",
		"profile.wall_thickness=thin",
		"profile.wall_thickness.x=1",
	} {
		if err := DefaultConfig().SetAll([]string{bad}); err == nil {
			t.Errorf("SetAll(%q) expected error", bad)
		}
	}
}

func TestSetIntegerFields(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.SetAll([]string{"finned.fin_type=2", "quality.preview=32", "finned.fin_count=8"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Finned.FinType != 2 || cfg.Quality.Preview != 32 || cfg.Finned.FinCount != 8 {
		t.Errorf("integer overrides not applied: %+v %+v", cfg.Finned, cfg.Quality)
	}
	// a rejected value leaves the field untouched.
	if err := cfg.Set("finned.fin_count", "2.5"); err == nil {
		t.Fatal("fractional fin count accepted")
	}
	if cfg.Finned.FinCount != 8 {
		t.Errorf("fin count changed to %d by rejected override", cfg.Finned.FinCount)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Set("finned.fin_type", "2"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	got, _, err := LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}
