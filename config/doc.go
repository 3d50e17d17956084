// Package config loads the CapStack server configuration from a YAML file.
//
// Sections:
//   - server      HTTP port and server timeouts
//   - rate_limit  per-client request budget for calculation endpoints
//   - cache       result cache backend: memory or redis
//   - storage     record storage backend: memory or sqlite
//   - log         slog level and handler format
//
// Load applies defaults before unmarshalling, then validates. Watch reloads
// the file on change; only rate_limit and log.level take effect without a
// restart.
package config
