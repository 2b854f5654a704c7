package client

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aeolun/reactype/pkg/emoji"
	"github.com/aeolun/reactype/pkg/typer"
)

// TOMLConfig represents the structure of the client config file
type TOMLConfig struct {
	Auth    AuthSection    `toml:"auth"`
	Emoji   EmojiSection   `toml:"emoji"`
	UI      UISection      `toml:"ui"`
	Metrics MetricsSection `toml:"metrics"`
}

type AuthSection struct {
	Token        string `toml:"token"`
	Cookie       string `toml:"cookie"`
	WorkspaceURL string `toml:"workspace_url"`
}

type EmojiSection struct {
	Prefix string `toml:"prefix"`
}

type UISection struct {
	DefaultMode   string `toml:"default_mode"` // white, orange or alternating
	NotifyOnError bool   `toml:"notify_on_error"`
}

type MetricsSection struct {
	ListenAddr string `toml:"listen_addr"`
}

// ConfigError represents a structured configuration error
type ConfigError struct {
	Path       string
	Message    string
	LineNumber int // 0 if not a parse error
}

func (e *ConfigError) Error() string {
	if e.LineNumber > 0 {
		return fmt.Sprintf("%s: %s (line %d)", e.Path, e.Message, e.LineNumber)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// getXDGConfigHome returns the XDG config directory
func getXDGConfigHome() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// DefaultConfigPath returns the config file location
func DefaultConfigPath() string {
	return filepath.Join(getXDGConfigHome(), "reactype", "config.toml")
}

// DefaultTOMLConfig returns the default TOML configuration
func DefaultTOMLConfig() TOMLConfig {
	return TOMLConfig{
		Emoji: EmojiSection{
			Prefix: emoji.DefaultPrefix,
		},
		UI: UISection{
			DefaultMode:   "white",
			NotifyOnError: false,
		},
	}
}

// LoadClientConfig loads configuration from a TOML file, creates default if not found
func LoadClientConfig(path string) (TOMLConfig, error) {
	path, err := expandHome(path)
	if err != nil {
		return TOMLConfig{}, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		config := DefaultTOMLConfig()
		// Not being able to write the file is fine, the defaults still work
		_ = writeDefaultConfig(path, config)
		return config, nil
	}

	config := DefaultTOMLConfig()
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return TOMLConfig{}, &ConfigError{
			Path:       path,
			Message:    cleanErrorMessage(err.Error()),
			LineNumber: extractLineNumber(err),
		}
	}

	if err := validateConfig(&config); err != nil {
		return TOMLConfig{}, &ConfigError{
			Path:    path,
			Message: err.Error(),
		}
	}

	return config, nil
}

// extractLineNumber tries to extract a line number from a TOML parse error
func extractLineNumber(err error) int {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		return perr.Position.Line
	}
	re := regexp.MustCompile(`line (\d+)`)
	matches := re.FindStringSubmatch(err.Error())
	if len(matches) > 1 {
		if num, err := strconv.Atoi(matches[1]); err == nil {
			return num
		}
	}
	return 0
}

// cleanErrorMessage removes redundant parts from error messages
func cleanErrorMessage(errMsg string) string {
	return strings.TrimPrefix(errMsg, "toml: ")
}

var prefixPattern = regexp.MustCompile(`^[a-z0-9_]+(-[a-z0-9_]+)*$`)

// validateConfig validates configuration values
func validateConfig(config *TOMLConfig) error {
	var errors []string

	if _, err := typer.ParseColorMode(config.UI.DefaultMode); err != nil {
		errors = append(errors, fmt.Sprintf("Invalid default_mode: %v", err))
	}

	if config.Emoji.Prefix != "" && !prefixPattern.MatchString(config.Emoji.Prefix) {
		errors = append(errors, fmt.Sprintf("Invalid emoji prefix: %q (lowercase letters, digits, - and _ only)", config.Emoji.Prefix))
	}

	if u := strings.TrimSpace(config.Auth.WorkspaceURL); u != "" && !strings.HasPrefix(u, "https://") {
		errors = append(errors, fmt.Sprintf("Invalid workspace_url: %q (must start with https://)", u))
	}

	if len(errors) > 0 {
		return fmt.Errorf("Configuration validation failed:\n  • %s", strings.Join(errors, "\n  • "))
	}

	return nil
}

// writeDefaultConfig writes the default config to a file
func writeDefaultConfig(path string, config TOMLConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// the file may end up holding a token
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	header := `# reactype configuration
# This file was auto-generated with default values
# Environment variables SLACK_TOKEN, SLACK_API_COOKIE and SLACK_WORKSPACE_URL take precedence

`
	if _, err := f.WriteString(header); err != nil {
		return err
	}

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// ColorMode returns the configured starting color mode
func (c *TOMLConfig) ColorMode() typer.ColorMode {
	mode, _ := typer.ParseColorMode(c.UI.DefaultMode)
	return mode
}

// Codec returns the emoji codec for the configured pack
func (c *TOMLConfig) Codec() emoji.Codec {
	return emoji.Codec{Prefix: c.Emoji.Prefix}
}

// ResetConfigToDefault resets the config file to default values
// If backup is true and the file exists, creates a backup with timestamp
func ResetConfigToDefault(path string, backup bool) error {
	path, err := expandHome(path)
	if err != nil {
		return err
	}

	// nothing to back up on a fresh install
	if _, statErr := os.Stat(path); backup && !os.IsNotExist(statErr) {
		backupPath := fmt.Sprintf("%s.backup-%s", path, time.Now().Format("2006-01-02"))
		if err := copyFile(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	if err := writeDefaultConfig(path, DefaultTOMLConfig()); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0600)
}
