package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rohankatakam/codeinsight/internal/errors"
	"github.com/rohankatakam/codeinsight/internal/logging"
)

// ValidationContext specifies what configuration is required
type ValidationContext string

const (
	// ValidationContextServe - serve needs server, storage and (optionally) peer
	ValidationContextServe ValidationContext = "serve"
	// ValidationContextPeer - compare --peer needs a reachable peer URL
	ValidationContextPeer ValidationContext = "peer"
	// ValidationContextExport - export needs Neo4j credentials
	ValidationContextExport ValidationContext = "export"
	// ValidationContextAll - validate all configuration
	ValidationContextAll ValidationContext = "all"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  ! %s\n", warn))
		}
	}

	return sb.String()
}

// Err converts a failed validation into a config error, or nil
func (vr *ValidationResult) Err() error {
	if !vr.HasErrors() {
		return nil
	}
	return errors.ConfigErrorf("%s", strings.TrimSpace(vr.Error()))
}

// Validate validates configuration for the given context
func (c *Config) Validate(ctx ValidationContext) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch ctx {
	case ValidationContextServe:
		c.validateServer(result)
		c.validateStorage(result)
		c.validatePeer(result, false)
		c.validateLogging(result)
	case ValidationContextPeer:
		c.validatePeer(result, true)
	case ValidationContextExport:
		c.validateGraph(result)
	case ValidationContextAll:
		c.validateServer(result)
		c.validateStorage(result)
		c.validatePeer(result, false)
		c.validateGraph(result)
		c.validateLogging(result)
	}

	return result
}

func (c *Config) validateServer(result *ValidationResult) {
	if c.Server.Addr == "" {
		result.AddError("server.addr is required")
	}
	if c.Server.MaxBodyBytes <= 0 {
		result.AddError("server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	}
	if c.Server.ShutdownTimeout <= 0 {
		result.AddWarning("server.shutdown_timeout is not set; shutdown will not wait for in-flight requests")
	}
}

func (c *Config) validateStorage(result *ValidationResult) {
	switch c.Storage.Type {
	case StorageMemory:
		result.AddWarning("storage.type is memory; jobs and results are lost on restart")
	case StorageBolt, StorageSQLite:
		if c.Storage.LocalPath == "" {
			result.AddError("storage.local_path is required for %s storage", c.Storage.Type)
		}
	case StoragePostgres:
		if c.Storage.PostgresDSN == "" {
			result.AddError("POSTGRES_DSN is required for postgres storage")
		}
	case StorageRedis:
		if c.Storage.RedisAddr == "" {
			result.AddError("REDIS_ADDR is required for redis storage")
		}
	default:
		result.AddError("storage.type %q is not one of memory, bolt, sqlite, postgres, redis", c.Storage.Type)
	}

	if c.Storage.TTL < 0 {
		result.AddError("storage.ttl cannot be negative")
	}
}

func (c *Config) validatePeer(result *ValidationResult, required bool) {
	if c.Peer.URL == "" {
		if required {
			result.AddError("PEER_URL is required but not set")
		} else {
			result.AddWarning("PEER_URL is not set; cross-language sync is disabled")
		}
		return
	}

	u, err := url.Parse(c.Peer.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		result.AddError("PEER_URL %q is not an absolute URL", c.Peer.URL)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		result.AddError("PEER_URL scheme must be http or https, got %q", u.Scheme)
	}

	if c.Peer.Timeout <= 0 {
		result.AddError("peer.timeout must be positive")
	}
	if c.Peer.RateLimit < 0 {
		result.AddError("peer.rate_limit cannot be negative")
	}
	if c.Peer.RateLimit > 0 && c.Peer.Burst <= 0 {
		result.AddError("peer.burst must be positive when peer.rate_limit is set")
	}
	if u != nil && u.Scheme == "http" && c.Peer.Token != "" && !isLocalHost(u.Hostname()) {
		result.AddWarning("peer token is sent over plain http to %s", u.Host)
	}
}

func (c *Config) validateGraph(result *ValidationResult) {
	if c.Graph.Neo4jURI == "" {
		result.AddError("NEO4J_URI is required but not set")
	} else if _, err := url.Parse(c.Graph.Neo4jURI); err != nil {
		result.AddError("NEO4J_URI is invalid: %v", err)
	}

	if c.Graph.Neo4jUser == "" {
		result.AddError("NEO4J_USER is required but not set")
	}

	if c.Graph.Neo4jPassword == "" {
		result.AddError("NEO4J_PASSWORD is required but not set. Set it via environment variable or .env file.")
	} else if c.Graph.Neo4jPassword == "neo4j" || c.Graph.Neo4jPassword == "password" {
		result.AddWarning("NEO4J_PASSWORD is a well-known default")
	}
}

func (c *Config) validateLogging(result *ValidationResult) {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		result.AddError("logging.level: %v", err)
	}
}

func isLocalHost(host string) bool {
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
