// Package config loads and validates configuration for hosts
// embedding the stewardtrack bridge.
//
// Values layer in order: a YAML config file, then a .env overlay,
// then process environment variables. Files are searched for in the
// working directory, ./config, and their parents; missing files are
// skipped, malformed ones fail the load. Hosts embed ServiceConfig in
// their own config structs and hand them to LoadConfig:
//
//	var cfg HostConfig
//	err := config.LoadConfig("stewardtrack", &cfg)
//
// Environment variables address nested keys through underscores:
// STORAGE_PROVIDER sets storage.provider, OFFLINE_MAX_RETRIES sets
// offline.max_retries or offline.max.retries, whichever the target
// struct defines.
package config
