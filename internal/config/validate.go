package config

import (
	"errors"
	"fmt"
)

var recorderStreams = map[string]bool{"gaze": true, "positioning": true, "trigger": true}

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Device.Host == "" {
		return errors.New("device.host is required")
	}
	if c.Device.Port < 1 || c.Device.Port > 65535 {
		return fmt.Errorf("device.port must be between 1 and 65535, got %d", c.Device.Port)
	}
	if c.Device.ConnectTimeout <= 0 {
		return errors.New("device.connect_timeout must be > 0")
	}
	if c.Device.ReconnectMaxDelay < c.Device.ReconnectBaseDelay {
		return fmt.Errorf("device.reconnect_max_delay (%s) cannot be below reconnect_base_delay (%s)",
			c.Device.ReconnectMaxDelay, c.Device.ReconnectBaseDelay)
	}

	if c.Calibration.QueueSize < 1 {
		return errors.New("calibration.queue_size must be >= 1")
	}

	if c.Recorder.BatchSize < 1 {
		return errors.New("recorder.batch_size must be >= 1")
	}
	if c.Recorder.BufferSize < c.Recorder.BatchSize {
		return fmt.Errorf("recorder.buffer_size (%d) cannot be below batch_size (%d)",
			c.Recorder.BufferSize, c.Recorder.BatchSize)
	}
	for _, s := range c.Recorder.Streams {
		if !recorderStreams[s] {
			return fmt.Errorf("recorder.streams: unknown stream %q", s)
		}
	}

	if c.Database.Host != "" {
		if err := c.Database.Validate("database"); err != nil {
			return err
		}
	}

	if c.Relay.SendBuffer < 1 {
		return errors.New("relay.send_buffer must be >= 1")
	}

	if c.Poller.Interval <= 0 {
		return errors.New("poller.interval must be > 0")
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

// Validate checks a database section. prefix names it in errors.
func (db *DBConfig) Validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
