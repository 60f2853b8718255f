package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultStudioAddress = "127.0.0.1:8090"
const defaultPollIntervalSeconds = 2

type Settings struct {
	Studio    StudioConfig    `toml:"studio"`
	Logging   LoggingConfig   `toml:"logging"`
	Providers ProvidersConfig `toml:"providers"`
}

type StudioConfig struct {
	Address             string `toml:"address"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type ProvidersConfig struct {
	Image ProviderConfig `toml:"image"`
	Audio ProviderConfig `toml:"audio"`
	Music ProviderConfig `toml:"music"`
}

type ProviderConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

func DefaultSettings() Settings {
	return Settings{
		Studio: StudioConfig{
			Address:             defaultStudioAddress,
			PollIntervalSeconds: defaultPollIntervalSeconds,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func LoadSettings() (Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return Settings{}, err
	}
	return loadSettingsFromPath(path)
}

func loadSettingsFromPath(path string) (Settings, error) {
	cfg := DefaultSettings()
	if err := readTOML(path, &cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func (s Settings) StudioAddress() string {
	addr := strings.TrimSpace(s.Studio.Address)
	if addr == "" {
		return defaultStudioAddress
	}
	addr = strings.TrimPrefix(addr, "http://")
	addr = strings.TrimPrefix(addr, "https://")
	addr = strings.TrimRight(addr, "/")
	if addr == "" {
		return defaultStudioAddress
	}
	return addr
}

func (s Settings) StudioBaseURL() string {
	return "http://" + s.StudioAddress()
}

func (s Settings) PollInterval() time.Duration {
	seconds := s.Studio.PollIntervalSeconds
	if seconds <= 0 {
		seconds = defaultPollIntervalSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (s Settings) LogLevel() string {
	level := strings.TrimSpace(s.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

// APIKeys returns the configured provider credentials keyed by asset kind,
// omitting empty entries. The result rides along on dispatched commands.
func (s Settings) APIKeys() map[string]string {
	keys := map[string]string{}
	if key := strings.TrimSpace(s.Providers.Image.APIKey); key != "" {
		keys["image"] = key
	}
	if key := strings.TrimSpace(s.Providers.Audio.APIKey); key != "" {
		keys["audio"] = key
	}
	if key := strings.TrimSpace(s.Providers.Music.APIKey); key != "" {
		keys["music"] = key
	}
	if len(keys) == 0 {
		return nil
	}
	return keys
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
