package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

const (
	appName    = "hmilink"
	configFile = "config.yaml"
)

// GetConfigDir returns the OS-appropriate configuration directory for the
// application, following platform conventions:
//   - Linux: $XDG_CONFIG_HOME/hmilink or $HOME/.config/hmilink
//   - macOS: $HOME/.config/hmilink (following XDG convention on macOS)
//   - Windows: %LOCALAPPDATA%\hmilink
func GetConfigDir() (string, error) {
	var baseDir string

	switch runtime.GOOS {
	case "windows":
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			userProfile := os.Getenv("USERPROFILE")
			if userProfile == "" {
				return "", fmt.Errorf("cannot determine user profile directory (LOCALAPPDATA and USERPROFILE not set)")
			}
			baseDir = filepath.Join(userProfile, "AppData", "Local", appName)
		} else {
			baseDir = filepath.Join(localAppData, appName)
		}

	default:
		// macOS, Linux and other Unix-like systems: XDG_CONFIG_HOME or
		// $HOME/.config
		xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
		if xdgConfigHome != "" {
			baseDir = filepath.Join(xdgConfigHome, appName)
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			baseDir = filepath.Join(homeDir, ".config", appName)
		}
	}

	return baseDir, nil
}

// GetConfigPath returns the full path to the configuration file.
func GetConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFile), nil
}

// Load reads the user configuration, returning defaults when no file
// exists yet.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration. The write goes through a temp file and
// rename so a crash never leaves a half-written config behind.
func Save(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(configDir, configFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace config file: %w", err)
	}
	return nil
}

// LoadDeviceModel reads a simulator panel definition from a YAML file
// and validates it against the firmware bounds.
func LoadDeviceModel(path string) (*DeviceModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device model %s: %w", path, err)
	}

	var model DeviceModel
	if err := yaml.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to parse device model %s: %w", path, err)
	}
	if err := model.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device model %s: %w", path, err)
	}
	return &model, nil
}

// Validate checks the model against the bounds the device firmware
// enforces at compile time.
func (m *DeviceModel) Validate() error {
	if len(m.Pages) == 0 {
		return fmt.Errorf("device model has no pages")
	}
	if len(m.Pages) > MaxPages {
		return fmt.Errorf("too many pages: %d (max %d)", len(m.Pages), MaxPages)
	}

	widgets := 0
	for pi, page := range m.Pages {
		for wi, w := range page.Widgets {
			widgets++
			switch w.Kind {
			case KindLabel, KindButton, KindSlider, KindCheckbox:
			default:
				return fmt.Errorf("page %d widget %d: unknown kind %q", pi, wi, w.Kind)
			}
			if len(w.Text) > MaxTextLen {
				return fmt.Errorf("page %d widget %d: text exceeds %d bytes", pi, wi, MaxTextLen)
			}
			if w.Kind == KindSlider && w.Min > w.Max {
				return fmt.Errorf("page %d widget %d: min %d > max %d", pi, wi, w.Min, w.Max)
			}
		}
	}
	if widgets > MaxWidgets {
		return fmt.Errorf("too many widgets: %d (max %d)", widgets, MaxWidgets)
	}
	return nil
}
