package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if len(cfg.Indices) != 2 {
		t.Fatalf("expected 2 default indices, got %d", len(cfg.Indices))
	}
	if cfg.Indices[0].Symbol != "SPY" || cfg.Indices[1].Symbol != "ISF.L" {
		t.Errorf("unexpected default indices: %+v", cfg.Indices)
	}
	if cfg.Schedule.UpdateCron != "0 0 */3 * * *" {
		t.Errorf("unexpected default cron: %q", cfg.Schedule.UpdateCron)
	}
	if cfg.Quota.AlphaVantageDaily != 500 {
		t.Errorf("unexpected default quota: %d", cfg.Quota.AlphaVantageDaily)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("unexpected default listen addr: %q", cfg.Server.Listen)
	}
}

func TestLoad_FileValues(t *testing.T) {
	path := writeConfig(t, `
api_keys:
  alpha_vantage: test-key
indices:
  - name: DAX
    symbol: EXS1.DE
schedule:
  update_cron: "0 30 * * * *"
quota:
  alpha_vantage_daily: 25
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKeys.AlphaVantage != "test-key" {
		t.Errorf("api key not read: %q", cfg.APIKeys.AlphaVantage)
	}
	if len(cfg.Indices) != 1 || cfg.Indices[0].Symbol != "EXS1.DE" {
		t.Errorf("indices not read: %+v", cfg.Indices)
	}
	if cfg.Quota.AlphaVantageDaily != 25 {
		t.Errorf("quota not read: %d", cfg.Quota.AlphaVantageDaily)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
api_keys:
  alpha_vantage: from-file
`)
	t.Setenv("ALPHA_VANTAGE_API_KEY", "from-env")
	t.Setenv("LISTEN_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIKeys.AlphaVantage != "from-env" {
		t.Errorf("env must override file, got %q", cfg.APIKeys.AlphaVantage)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("env listen override missing, got %q", cfg.Server.Listen)
	}
}

func TestValidate(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("missing alpha vantage key must fail validation")
	}

	cfg.APIKeys.AlphaVantage = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("minimal valid config rejected: %v", err)
	}

	cfg.Prediction.ConfidenceFloor = 95
	cfg.Prediction.ConfidenceCeiling = 80
	if err := cfg.Validate(); err == nil {
		t.Error("inverted confidence bounds must fail validation")
	}
}
