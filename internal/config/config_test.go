package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func env(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Data.Source != SourceDir || cfg.Data.Dir != "data" {
		t.Errorf("Data = %+v, want dir source in data/", cfg.Data)
	}
	if cfg.Import.MaxFileSize != 10485760 {
		t.Errorf("Import.MaxFileSize = %d, want %d", cfg.Import.MaxFileSize, 10485760)
	}
	if cfg.Notify.SuccessDuration != 3*time.Second || cfg.Notify.ErrorDuration != 4*time.Second {
		t.Errorf("Notify = %+v, want 3s/4s", cfg.Notify)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics = %+v, want enabled on /metrics", cfg.Metrics)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("IMPORT_MAX_CONCURRENT", "4")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Import.MaxConcurrent != 4 {
		t.Errorf("Import.MaxConcurrent = %d, want %d", cfg.Import.MaxConcurrent, 4)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
}

func TestLoad_PostgresSourceAltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"DATA_SOURCE": "postgres",
		"DB_URL":      "postgres://localhost/freight",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Data.DatabaseURL != "postgres://localhost/freight" {
		t.Errorf("Data.DatabaseURL = %q, want DB_URL value", cfg.Data.DatabaseURL)
	}
	if strings.Contains(cfg.String(), "postgres://") {
		t.Errorf("String() leaks database URL: %s", cfg.String())
	}
}

func TestLoad_SourceRequirements(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{"postgres without url", map[string]string{"DATA_SOURCE": "postgres"}, "DATABASE_URL is required"},
		{"http without base url", map[string]string{"DATA_SOURCE": "http"}, "DATA_BASE_URL"},
		{"http with relative url", map[string]string{"DATA_SOURCE": "http", "DATA_BASE_URL": "/mock"}, "DATA_BASE_URL"},
		{"unknown source", map[string]string{"DATA_SOURCE": "s3"}, "DATA_SOURCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(env(tt.vars))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadFrom() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}

	cfg, err := LoadFrom(env(map[string]string{"DATA_SOURCE": "http", "DATA_BASE_URL": "https://cdn.example.com/mock"}))
	if err != nil {
		t.Fatalf("valid http source rejected: %v", err)
	}
	if cfg.Data.BaseURL != "https://cdn.example.com/mock" {
		t.Errorf("Data.BaseURL = %q", cfg.Data.BaseURL)
	}
}

func TestLoad_Duration(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"SERVER_READ_TIMEOUT":  "45s",
		"IMPORT_MAX_WAIT_TIME": "1m30s",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.ReadTimeout != 45*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 45*time.Second)
	}
	if cfg.Import.MaxWaitTime != 90*time.Second {
		t.Errorf("Import.MaxWaitTime = %v, want %v", cfg.Import.MaxWaitTime, 90*time.Second)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	_, err := LoadFrom(env(map[string]string{"SERVER_PORT": "eighty"}))
	if err == nil || !strings.Contains(err.Error(), "SERVER_PORT") {
		t.Errorf("LoadFrom() error = %v, want SERVER_PORT parse error", err)
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"TRUSTED_PROXIES": "10.0.0.0/8, 172.16.0.0/12 , ,127.0.0.1",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	want := []string{"10.0.0.0/8", "172.16.0.0/12", "127.0.0.1"}
	if diff := cmp.Diff(want, cfg.Security.TrustedProxies); diff != "" {
		t.Errorf("TrustedProxies mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	cfg.Server.Port = 99999
	cfg.Logging.Format = "xml"
	cfg.Security.TrustedProxies = []string{"not-an-ip"}

	err = cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"SERVER_PORT", "LOG_FORMAT", "TRUSTED_PROXIES"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %s: %v", want, err)
		}
	}
}

func TestServerConfig_Addr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"", 3000, ":3000"},
		{"::1", 8080, "[::1]:8080"},
	}
	for _, tt := range tests {
		c := ServerConfig{Host: tt.host, Port: tt.port}
		if got := c.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}
