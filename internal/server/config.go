package server

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/confkit/internal/server/middleware"
	"github.com/agentstation/confkit/pkg/constants"
)

// Config is the REST server configuration.
type Config struct {
	Host       string
	Port       int
	PathPrefix string // every API route lives under it, e.g. /api/v1

	// Accounts maps bearer tokens to users. Requests without a token run as guest.
	Accounts []middleware.Account

	ReadTimeout time.Duration
	// WriteTimeout must outlast a synchronization run started by POST /sync.
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MetricsEnabled bool
}

// DefaultConfig returns the configuration of `confkit serve` without flags.
func DefaultConfig() Config {
	return Config{
		Host:           constants.DefaultHTTPHost,
		Port:           constants.DefaultHTTPPort,
		PathPrefix:     constants.DefaultPathPrefix,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   constants.SyncTimeout + 10*time.Second,
		IdleTimeout:    2 * time.Minute,
		MetricsEnabled: true,
	}
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Validate checks the port, the prefix and the accounts. An empty prefix is
// replaced by the default one.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.PathPrefix == "" {
		c.PathPrefix = constants.DefaultPathPrefix
	}
	if !strings.HasPrefix(c.PathPrefix, "/") || strings.HasSuffix(c.PathPrefix, "/") {
		return fmt.Errorf("path prefix %q must start and must not end with /", c.PathPrefix)
	}
	return middleware.ValidateAccounts(c.Accounts)
}
