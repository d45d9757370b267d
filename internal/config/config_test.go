package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
device:
  host: 192.168.4.1
  port: 50051
  connect_timeout: 10s
recorder:
  streams: [gaze, trigger]
database:
  host: localhost
  name: skyle
  user: skyle
  password: secret
log:
  level: debug
  format: json
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Device.Host != "192.168.4.1" {
		t.Errorf("Device.Host = %q, want %q", cfg.Device.Host, "192.168.4.1")
	}
	if cfg.Device.Port != 50051 {
		t.Errorf("Device.Port = %d, want %d", cfg.Device.Port, 50051)
	}
	if cfg.Device.ConnectTimeout != 10*time.Second {
		t.Errorf("Device.ConnectTimeout = %v, want %v", cfg.Device.ConnectTimeout, 10*time.Second)
	}
	if len(cfg.Recorder.Streams) != 2 || cfg.Recorder.Streams[1] != "trigger" {
		t.Errorf("Recorder.Streams = %v, want [gaze trigger]", cfg.Recorder.Streams)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")
	t.Setenv("TEST_SKYLE_HOST", "tracker.lan")

	yaml := `
device:
  host: ${TEST_SKYLE_HOST}
database:
  host: localhost
  name: skyle
  user: skyle
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
	if cfg.Device.Host != "tracker.lan" {
		t.Errorf("Device.Host = %q, want %q", cfg.Device.Host, "tracker.lan")
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
device:
  port: 6000
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Device.Host != DefaultDeviceHost {
		t.Errorf("Device.Host = %q, want default %q", cfg.Device.Host, DefaultDeviceHost)
	}
	if cfg.Device.Port != 6000 {
		t.Errorf("Device.Port = %d, want %d", cfg.Device.Port, 6000)
	}
	if cfg.Device.ConnectTimeout != DefaultConnectTimeout {
		t.Errorf("Device.ConnectTimeout = %v, want default %v", cfg.Device.ConnectTimeout, DefaultConnectTimeout)
	}
	if cfg.Calibration.QueueSize != DefaultQueueSize {
		t.Errorf("Calibration.QueueSize = %d, want default %d", cfg.Calibration.QueueSize, DefaultQueueSize)
	}
	if cfg.Recorder.BatchSize != DefaultBatchSize {
		t.Errorf("Recorder.BatchSize = %d, want default %d", cfg.Recorder.BatchSize, DefaultBatchSize)
	}
	if cfg.Relay.Listen != DefaultRelayListen {
		t.Errorf("Relay.Listen = %q, want default %q", cfg.Relay.Listen, DefaultRelayListen)
	}
	if cfg.Poller.Interval != DefaultPollInterval {
		t.Errorf("Poller.Interval = %v, want default %v", cfg.Poller.Interval, DefaultPollInterval)
	}
	if cfg.Simulator.GazeInterval != DefaultGazeInterval {
		t.Errorf("Simulator.GazeInterval = %v, want default %v", cfg.Simulator.GazeInterval, DefaultGazeInterval)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
}

func TestLoadAndValidate_Errors(t *testing.T) {
	if _, err := LoadAndValidate(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadAndValidate(missing file) succeeded")
	}

	path := writeTempFile(t, "device: [not, a, map]")
	if _, err := LoadAndValidate(path); err == nil {
		t.Error("LoadAndValidate(bad yaml) succeeded")
	}

	path = writeTempFile(t, "log:\n  format: xml\n")
	if _, err := LoadAndValidate(path); err == nil {
		t.Error("LoadAndValidate(bad log format) succeeded")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() failed: %v", err)
	}
	level, err := cfg.Log.SlogLevel()
	if err != nil {
		t.Fatalf("SlogLevel failed: %v", err)
	}
	if level != slog.LevelInfo {
		t.Errorf("SlogLevel() = %v, want %v", level, slog.LevelInfo)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return Default() }

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing device host",
			mutate:  func(c *Config) { c.Device.Host = "" },
			wantErr: "device.host is required",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Device.Port = 70000 },
			wantErr: "device.port must be between 1 and 65535, got 70000",
		},
		{
			name: "max delay below base",
			mutate: func(c *Config) {
				c.Device.ReconnectBaseDelay = 10 * time.Second
				c.Device.ReconnectMaxDelay = time.Second
			},
			wantErr: "device.reconnect_max_delay (1s) cannot be below reconnect_base_delay (10s)",
		},
		{
			name:    "empty queue",
			mutate:  func(c *Config) { c.Calibration.QueueSize = -1 },
			wantErr: "calibration.queue_size must be >= 1",
		},
		{
			name:    "buffer below batch",
			mutate:  func(c *Config) { c.Recorder.BufferSize = 10 },
			wantErr: "recorder.buffer_size (10) cannot be below batch_size (500)",
		},
		{
			name:    "unknown recorder stream",
			mutate:  func(c *Config) { c.Recorder.Streams = []string{"gaze", "profiles"} },
			wantErr: `recorder.streams: unknown stream "profiles"`,
		},
		{
			name:    "database missing password",
			mutate:  func(c *Config) { c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", MaxConns: 1} },
			wantErr: "database.password is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *Config) {
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 5, MinConns: 10}
			},
			wantErr: "database.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: `log.format must be text or json, got "xml"`,
		},
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: "",
		},
		{
			name: "valid config with database",
			mutate: func(c *Config) {
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 4, MinConns: 1}
			},
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestExampleConfig(t *testing.T) {
	t.Setenv("SKYLE_DB_HOST", "db.internal")
	t.Setenv("SKYLE_DB_PASSWORD", "secret")

	cfg, err := LoadAndValidate("../../configs/skyle.example.yaml")
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "db.internal")
	}
	if cfg.Simulator.CalibrationStep != DefaultCalibrationStep {
		t.Errorf("Simulator.CalibrationStep = %v, want %v", cfg.Simulator.CalibrationStep, DefaultCalibrationStep)
	}
}
