package config

import (
	"log/slog"
	"time"
)

// Config is the root configuration of the skyle tool.
type Config struct {
	Device      DeviceConfig      `yaml:"device"`
	Calibration CalibrationConfig `yaml:"calibration"`
	Recorder    RecorderConfig    `yaml:"recorder"`
	Database    DBConfig          `yaml:"database"`
	Relay       RelayConfig       `yaml:"relay"`
	Poller      PollerConfig      `yaml:"poller"`
	Simulator   SimulatorConfig   `yaml:"simulator"`
	Log         LogConfig         `yaml:"log"`
}

// DeviceConfig locates the eye tracker.
type DeviceConfig struct {
	Host               string        `yaml:"host"`
	Port               int           `yaml:"port"`
	ConnectTimeout     time.Duration `yaml:"connect_timeout"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
}

// CalibrationConfig holds calibration session settings.
type CalibrationConfig struct {
	QueueSize int `yaml:"queue_size"`
}

// RecorderConfig holds telemetry recorder settings.
type RecorderConfig struct {
	Streams       []string      `yaml:"streams"` // gaze, positioning, trigger; empty means all
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// DBConfig holds the PostgreSQL connection used by the recorder.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// RelayConfig holds websocket relay settings.
type RelayConfig struct {
	Listen       string        `yaml:"listen"`
	SendBuffer   int           `yaml:"send_buffer"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	PingInterval time.Duration `yaml:"ping_interval"`
}

// PollerConfig holds device status poller settings.
type PollerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// SimulatorConfig holds settings of the simulated device.
type SimulatorConfig struct {
	Listen              string        `yaml:"listen"`
	GazeInterval        time.Duration `yaml:"gaze_interval"`
	PositioningInterval time.Duration `yaml:"positioning_interval"`
	TriggerInterval     time.Duration `yaml:"trigger_interval"`
	CalibrationStep     time.Duration `yaml:"calibration_step"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// SlogLevel parses Level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(l.Level))
	return level, err
}
