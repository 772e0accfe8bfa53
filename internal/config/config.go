package config

import (
	"fmt"
	"time"

	"github.com/aurabank/aura/internal/constants"
)

type Config struct {
	Backend    BackendConfig  `mapstructure:"backend"`
	Server     ServerConfig   `mapstructure:"server"`
	StepUp     StepUpConfig   `mapstructure:"stepup"`
	Local      LocalConfig    `mapstructure:"local"`
	Database   DatabaseConfig `mapstructure:"database"`
	Logging    LoggingConfig  `mapstructure:"logging"`
	ConfigPath string         `mapstructure:"-"`
}

type BackendConfig struct {
	// Mode selects the execution target: "remote" or "local". The choice
	// is explicit configuration, never inferred from reachability.
	Mode string `mapstructure:"mode"`
}

type ServerConfig struct {
	URL string `mapstructure:"url"`
	// TimeoutSeconds bounds every backend call. A timeout surfaces as a
	// network failure.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// StepUpConfig sets the per-action behavior when no step-up credential is
// enrolled: "deny" or "bypass".
type StepUpConfig struct {
	OnUnavailableLogin    string `mapstructure:"on_unavailable_login"`
	OnUnavailableRegister string `mapstructure:"on_unavailable_register"`
	OnUnavailableTransfer string `mapstructure:"on_unavailable_transfer"`
}

type LocalConfig struct {
	// OpeningBalance seeds a freshly registered local-mode identity,
	// e.g. "10000.00".
	OpeningBalance string `mapstructure:"opening_balance"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func NewDefault() *Config {
	return &Config{
		Backend: BackendConfig{Mode: constants.BackendRemote},
		Server:  ServerConfig{URL: "http://localhost:8080", TimeoutSeconds: 15},
		StepUp: StepUpConfig{
			OnUnavailableLogin:    constants.PolicyBypass,
			OnUnavailableRegister: constants.PolicyBypass,
			OnUnavailableTransfer: constants.PolicyDeny,
		},
		Local:    LocalConfig{OpeningBalance: "10000.00"},
		Database: DatabaseConfig{Path: ""},
		Logging:  LoggingConfig{Level: "info", Path: ""},
	}
}

func (c *Config) Validate() error {
	switch c.Backend.Mode {
	case constants.BackendRemote:
		if c.Server.URL == "" {
			return fmt.Errorf("backend.mode is %q but server.url is not set", constants.BackendRemote)
		}
	case constants.BackendLocal:
	default:
		return fmt.Errorf("invalid backend.mode %q (want %q or %q)",
			c.Backend.Mode, constants.BackendRemote, constants.BackendLocal)
	}

	for _, policy := range []string{
		c.StepUp.OnUnavailableLogin,
		c.StepUp.OnUnavailableRegister,
		c.StepUp.OnUnavailableTransfer,
	} {
		if policy != constants.PolicyDeny && policy != constants.PolicyBypass {
			return fmt.Errorf("invalid step-up policy %q (want %q or %q)",
				policy, constants.PolicyDeny, constants.PolicyBypass)
		}
	}

	return nil
}

func (c *Config) CallTimeout() time.Duration {
	if c.Server.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}
