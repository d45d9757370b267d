// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Every section is optional; missing values fall back to the Default* constants.
// The database section is only validated when a host is set, since only the
// recorder needs it.
package config
