package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohankatakam/codeinsight/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CodeInsight configuration",
	Long:  `View, validate and initialize CodeInsight configuration and manage the peer token.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML (secrets masked)",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigValidate,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the current settings",
	Long: `Write a configuration file with the current settings.

Defaults to .codeinsight/config.yaml in the working directory. Secrets from
the environment or keychain are not written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configSetTokenCmd = &cobra.Command{
	Use:   "set-peer-token [token]",
	Short: "Store the peer bearer token in the OS keychain",
	Long: `Store the peer bearer token in the OS keychain.

Without an argument the token is read from the terminal without echo, or
from the first line of stdin when piped.

Examples:
  codeinsight config set-peer-token
  echo "$TOKEN" | codeinsight config set-peer-token`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigSetToken,
}

var configDeleteTokenCmd = &cobra.Command{
	Use:   "delete-peer-token",
	Short: "Remove the peer bearer token from the OS keychain",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.NewKeyringManager().DeletePeerToken(); err != nil {
			return err
		}
		fmt.Println("✅ Peer token removed from keychain")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetTokenCmd)
	configCmd.AddCommand(configDeleteTokenCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out, err := cfg.YAML()
	if err != nil {
		return err
	}
	fmt.Print(out)

	km := config.NewKeyringManager()
	fmt.Printf("# peer token source: %s\n", km.TokenSource(cfg))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	result := cfg.Validate(config.ValidationContextAll)
	for _, w := range result.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}
	if err := result.Err(); err != nil {
		return err
	}
	fmt.Println("✅ Configuration is valid")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := filepath.Join(".codeinsight", "config.yaml")
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	out := *cfg
	out.Peer.Token = ""
	out.Graph.Neo4jPassword = ""
	out.Storage.RedisPassword = ""
	if err := out.Save(path); err != nil {
		return err
	}
	fmt.Printf("✅ Wrote %s\n", path)
	return nil
}

func runConfigSetToken(cmd *cobra.Command, args []string) error {
	km := config.NewKeyringManager()
	if !km.IsAvailable() {
		return fmt.Errorf("OS keychain is not available; set PEER_TOKEN instead")
	}

	var token string
	if len(args) == 1 {
		token = args[0]
	} else {
		var err error
		if token, err = readToken(); err != nil {
			return err
		}
	}

	token = strings.TrimSpace(token)
	if err := km.SetPeerToken(token); err != nil {
		return err
	}
	fmt.Printf("✅ Peer token %s saved to keychain\n", config.MaskSecret(token))
	if !cfg.Peer.UseKeychain {
		fmt.Println("Set peer.use_keychain: true for the token to be sent")
	}
	return nil
}

func readToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Peer token: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read token: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read token from stdin: %w", err)
	}
	return line, nil
}
