// Package config manages user-level settings stored at
// ~/.squirrel/config.yaml, overridable through SQUIRREL_* environment
// variables (SQUIRREL_TEMP, SQUIRREL_POLICY, SQUIRREL_SPACE_MULTIPLIER, ...).
// It also validates config files against an embedded JSON schema.
package config
