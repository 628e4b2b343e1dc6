package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rohankatakam/codeinsight/internal/logging"
	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the service name in the OS keychain
	KeyringService = "CodeInsight"

	// KeyringPeerTokenItem is the key for the peer service bearer token
	KeyringPeerTokenItem = "peer-token"
)

// KeyringManager handles secure credential storage in OS keychain
type KeyringManager struct {
	logger *slog.Logger
}

// NewKeyringManager creates a new keyring manager
func NewKeyringManager() *KeyringManager {
	return &KeyringManager{
		logger: logging.Component("keyring"),
	}
}

// SetPeerToken stores the peer bearer token in the OS keychain
// (macOS Keychain, Windows Credential Manager, Linux Secret Service)
func (km *KeyringManager) SetPeerToken(token string) error {
	if token == "" {
		return fmt.Errorf("peer token cannot be empty")
	}

	if err := keyring.Set(KeyringService, KeyringPeerTokenItem, token); err != nil {
		km.logger.Error("failed to save peer token to keychain", "error", err)
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}

	km.logger.Info("peer token saved to keychain", "service", KeyringService)
	return nil
}

// GetPeerToken retrieves the peer token. An unset token is not an error.
func (km *KeyringManager) GetPeerToken() (string, error) {
	token, err := keyring.Get(KeyringService, KeyringPeerTokenItem)
	if err == keyring.ErrNotFound {
		return "", nil
	}
	if err != nil {
		km.logger.Error("failed to get peer token from keychain", "error", err)
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}

	km.logger.Debug("peer token retrieved from keychain")
	return token, nil
}

// DeletePeerToken removes the peer token from the OS keychain
func (km *KeyringManager) DeletePeerToken() error {
	err := keyring.Delete(KeyringService, KeyringPeerTokenItem)
	if err == keyring.ErrNotFound {
		return nil
	}
	if err != nil {
		km.logger.Error("failed to delete peer token from keychain", "error", err)
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}

	km.logger.Info("peer token deleted from keychain")
	return nil
}

// IsAvailable checks if OS keychain is available.
// Returns false on headless systems where no secret service is running.
func (km *KeyringManager) IsAvailable() bool {
	_, err := keyring.Get(KeyringService, "test-availability")
	if err == keyring.ErrNotFound {
		return true
	}
	if err != nil {
		km.logger.Debug("keychain not available", "error", err)
		return false
	}
	return true
}

// TokenSource describes where the peer token comes from
func (km *KeyringManager) TokenSource(cfg *Config) string {
	if os.Getenv("PEER_TOKEN") != "" {
		return "env"
	}
	if cfg.Peer.UseKeychain {
		if token, _ := km.GetPeerToken(); token != "" {
			return "keychain"
		}
	}
	if cfg.Peer.Token != "" {
		return "config"
	}
	return "none"
}

// MaskSecret masks a secret for display: "abcd...wxyz"
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) < 12 {
		return "***"
	}
	return fmt.Sprintf("%s...%s", secret[:4], secret[len(secret)-4:])
}
