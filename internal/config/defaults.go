package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultDeviceHost          = "skyle.local"
	DefaultDevicePort          = 50052
	DefaultConnectTimeout      = 3 * time.Second
	DefaultRequestTimeout      = 5 * time.Second
	DefaultReconnectBaseDelay  = 1 * time.Second
	DefaultReconnectMaxDelay   = 30 * time.Second
	DefaultQueueSize           = 5
	DefaultBatchSize           = 500
	DefaultFlushInterval       = 1 * time.Second
	DefaultBufferSize          = 4096
	DefaultDBPort              = 5432
	DefaultDBSSLMode           = "prefer"
	DefaultMaxConns            = 4
	DefaultMinConns            = 1
	DefaultRelayListen         = ":8081"
	DefaultSendBuffer          = 64
	DefaultWriteTimeout        = 5 * time.Second
	DefaultPingInterval        = 15 * time.Second
	DefaultPollInterval        = 10 * time.Second
	DefaultSimulatorListen     = ":50052"
	DefaultGazeInterval        = 33 * time.Millisecond
	DefaultPositioningInterval = 100 * time.Millisecond
	DefaultTriggerInterval     = 1 * time.Second
	DefaultCalibrationStep     = 500 * time.Millisecond
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
)

func (c *Config) applyDefaults() {
	// Device defaults
	if c.Device.Host == "" {
		c.Device.Host = DefaultDeviceHost
	}
	if c.Device.Port == 0 {
		c.Device.Port = DefaultDevicePort
	}
	if c.Device.ConnectTimeout == 0 {
		c.Device.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Device.RequestTimeout == 0 {
		c.Device.RequestTimeout = DefaultRequestTimeout
	}
	if c.Device.ReconnectBaseDelay == 0 {
		c.Device.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Device.ReconnectMaxDelay == 0 {
		c.Device.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}

	if c.Calibration.QueueSize == 0 {
		c.Calibration.QueueSize = DefaultQueueSize
	}

	// Recorder defaults
	if c.Recorder.BatchSize == 0 {
		c.Recorder.BatchSize = DefaultBatchSize
	}
	if c.Recorder.FlushInterval == 0 {
		c.Recorder.FlushInterval = DefaultFlushInterval
	}
	if c.Recorder.BufferSize == 0 {
		c.Recorder.BufferSize = DefaultBufferSize
	}

	applyDBDefaults(&c.Database)

	// Relay defaults
	if c.Relay.Listen == "" {
		c.Relay.Listen = DefaultRelayListen
	}
	if c.Relay.SendBuffer == 0 {
		c.Relay.SendBuffer = DefaultSendBuffer
	}
	if c.Relay.WriteTimeout == 0 {
		c.Relay.WriteTimeout = DefaultWriteTimeout
	}
	if c.Relay.PingInterval == 0 {
		c.Relay.PingInterval = DefaultPingInterval
	}

	if c.Poller.Interval == 0 {
		c.Poller.Interval = DefaultPollInterval
	}

	// Simulator defaults
	if c.Simulator.Listen == "" {
		c.Simulator.Listen = DefaultSimulatorListen
	}
	if c.Simulator.GazeInterval == 0 {
		c.Simulator.GazeInterval = DefaultGazeInterval
	}
	if c.Simulator.PositioningInterval == 0 {
		c.Simulator.PositioningInterval = DefaultPositioningInterval
	}
	if c.Simulator.TriggerInterval == 0 {
		c.Simulator.TriggerInterval = DefaultTriggerInterval
	}
	if c.Simulator.CalibrationStep == 0 {
		c.Simulator.CalibrationStep = DefaultCalibrationStep
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
