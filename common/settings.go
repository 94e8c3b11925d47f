package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/logger"
	"github.com/bitrise-io/sage/model"
	cerr "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const (
	ConfigFileName = ".sage.yml"
	// ConfigPathEnv overrides the config file location.
	ConfigPathEnv = "SAGE_CONFIG"

	DefaultProvider       = "openai"
	DefaultMaxTokens      = 300
	DefaultMaxPromptBytes = 16000
	DefaultTimeout        = 30
)

// Preference names accepted by SetPreference.
const (
	PrefAutoPush         = "auto_push"
	PrefAutoStageAll     = "auto_stage_all"
	PrefShowDiff         = "show_diff"
	PrefSkipConfirmation = "skip_confirmation"
	PrefVerbose          = "verbose"
)

var preferenceNames = []string{PrefAutoPush, PrefAutoStageAll, PrefShowDiff, PrefSkipConfirmation, PrefVerbose}

type ProviderSettings struct {
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

type Preferences struct {
	AutoPush         bool `yaml:"auto_push"`
	AutoStageAll     bool `yaml:"auto_stage_all"`
	ShowDiff         bool `yaml:"show_diff"`
	SkipConfirmation bool `yaml:"skip_confirmation"`
	Verbose          bool `yaml:"verbose"`
}

type Settings struct {
	ActiveProvider string                      `yaml:"active_provider"`
	Providers      map[string]ProviderSettings `yaml:"providers"`
	MaxTokens      int                         `yaml:"max_tokens"`
	MaxPromptBytes int                         `yaml:"max_prompt_bytes"`
	Timeout        int                         `yaml:"timeout"`
	DefaultStyle   string                      `yaml:"default_style,omitempty"`
	Preferences    Preferences                 `yaml:"preferences"`
}

func WithDefaultSettings() Settings {
	return Settings{
		ActiveProvider: DefaultProvider,
		Providers: map[string]ProviderSettings{
			DefaultProvider: {},
		},
		MaxTokens:      DefaultMaxTokens,
		MaxPromptBytes: DefaultMaxPromptBytes,
		Timeout:        DefaultTimeout,
		DefaultStyle:   string(model.StyleStandard),
	}
}

// DefaultPath returns $SAGE_CONFIG, or ~/.sage.yml.
func DefaultPath() (string, error) {
	if path := os.Getenv(ConfigPathEnv); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errs.Configuration("cannot locate the home directory",
			fmt.Sprintf("set %s to the config file path", ConfigPathEnv))
	}
	return filepath.Join(home, ConfigFileName), nil
}

// LoadSettings reads the config file at path over the defaults. A missing
// or empty file yields the defaults; a file that does not parse is a
// configuration error.
func LoadSettings(path string) (Settings, error) {
	settings := WithDefaultSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Infof("No config file at %s, using default settings", path)
		return settings, nil
	}
	if err != nil {
		return settings, errs.Configuration(fmt.Sprintf("cannot read %s: %v", path, err), "check the file permissions")
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return WithDefaultSettings(), errs.Configuration(fmt.Sprintf("invalid config file %s: %v", path, err),
			"fix the YAML or remove the file to start from defaults")
	}
	settings.normalize()

	logger.Infof("Using settings from %s", path)
	return settings, nil
}

// normalize replaces unset numbers with their defaults.
func (s *Settings) normalize() {
	if s.Providers == nil {
		s.Providers = map[string]ProviderSettings{}
	}
	if s.ActiveProvider == "" {
		s.ActiveProvider = DefaultProvider
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.MaxPromptBytes <= 0 {
		s.MaxPromptBytes = DefaultMaxPromptBytes
	}
	if s.Timeout <= 0 {
		s.Timeout = DefaultTimeout
	}
}

// Save writes the settings to path, readable only by the owner since it
// holds API keys.
func (s Settings) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return cerr.Wrap(err, "encoding settings")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return cerr.Wrapf(err, "creating %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return cerr.Wrapf(err, "writing %s", path)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return cerr.Wrapf(err, "restricting %s", path)
	}
	logger.Debugf("Settings saved to %s", path)
	return nil
}

// Active returns the active provider and its settings.
func (s Settings) Active() (string, ProviderSettings, error) {
	provider, ok := s.Providers[s.ActiveProvider]
	if !ok {
		return s.ActiveProvider, ProviderSettings{}, errs.Configuration(
			fmt.Sprintf("provider %s is not configured", s.ActiveProvider),
			fmt.Sprintf("run `sage config --provider %s --key <key>`", s.ActiveProvider))
	}
	return s.ActiveProvider, provider, nil
}

// SetProvider stores the non-empty fields for name and makes it active.
func (s *Settings) SetProvider(name, apiKey, modelName, endpoint string) {
	if s.Providers == nil {
		s.Providers = map[string]ProviderSettings{}
	}
	provider := s.Providers[name]
	if apiKey != "" {
		provider.APIKey = apiKey
	}
	if modelName != "" {
		provider.Model = modelName
	}
	if endpoint != "" {
		provider.Endpoint = endpoint
	}
	s.Providers[name] = provider
	s.ActiveProvider = name
}

// UpdateKey replaces the key of a configured provider.
func (s *Settings) UpdateKey(name, apiKey string) error {
	provider, ok := s.Providers[name]
	if !ok {
		return errs.Configuration(fmt.Sprintf("provider %s is not configured", name),
			fmt.Sprintf("add it with `sage config --provider %s --key <key>`", name))
	}
	provider.APIKey = apiKey
	s.Providers[name] = provider
	return nil
}

// UseProvider switches the active provider to a configured one.
func (s *Settings) UseProvider(name string) error {
	if _, ok := s.Providers[name]; !ok {
		return errs.Configuration(fmt.Sprintf("provider %s is not configured", name),
			fmt.Sprintf("add it with `sage config --provider %s --key <key>`", name))
	}
	s.ActiveProvider = name
	return nil
}

func (s *Settings) SetPreference(name string, value bool) error {
	switch name {
	case PrefAutoPush:
		s.Preferences.AutoPush = value
	case PrefAutoStageAll:
		s.Preferences.AutoStageAll = value
	case PrefShowDiff:
		s.Preferences.ShowDiff = value
	case PrefSkipConfirmation:
		s.Preferences.SkipConfirmation = value
	case PrefVerbose:
		s.Preferences.Verbose = value
	default:
		return errs.Configuration(fmt.Sprintf("unknown preference: %s", name),
			"available preferences: "+strings.Join(preferenceNames, ", "))
	}
	return nil
}

// SetDefaultStyle stores style, with "conventional" saved as standard.
func (s *Settings) SetDefaultStyle(style string) error {
	parsed, err := model.ParseStyle(style)
	if err != nil || strings.TrimSpace(style) == "" {
		return errs.Configuration(fmt.Sprintf("invalid style: %q", style), "use standard, conventional, detailed or short")
	}
	s.DefaultStyle = string(parsed)
	return nil
}

func (s *Settings) SetMaxTokens(n int) error {
	if n <= 0 {
		return errs.Configuration(fmt.Sprintf("max tokens must be positive, got %d", n), "")
	}
	s.MaxTokens = n
	return nil
}

func (s *Settings) SetTimeout(seconds int) error {
	if seconds <= 0 {
		return errs.Configuration(fmt.Sprintf("timeout must be positive, got %d", seconds), "")
	}
	s.Timeout = seconds
	return nil
}

// Style returns the configured default style.
func (s Settings) Style() model.Style {
	style, err := model.ParseStyle(s.DefaultStyle)
	if err != nil {
		logger.Warnf("Ignoring default_style: %v", err)
		return model.StyleStandard
	}
	return style
}

// MaskKey shows only the ends of a key.
func MaskKey(key string) string {
	switch {
	case key == "":
		return "not set"
	case len(key) <= 8:
		return "****"
	}
	return key[:4] + "…" + key[len(key)-4:]
}

func onOff(v bool) string {
	if v {
		return "enabled"
	}
	return "disabled"
}

// Show prints the settings with API keys masked.
func (s Settings) Show(w io.Writer) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintf(w, "  Active provider: %s\n", s.ActiveProvider)

	names := make([]string, 0, len(s.Providers))
	for name := range s.Providers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		provider := s.Providers[name]
		active := ""
		if name == s.ActiveProvider {
			active = " (active)"
		}
		fmt.Fprintf(w, "\n  Provider: %s%s\n", name, active)
		fmt.Fprintf(w, "    API key: %s\n", MaskKey(provider.APIKey))
		modelName := provider.Model
		if modelName == "" {
			modelName = "default"
		}
		fmt.Fprintf(w, "    Model: %s\n", modelName)
		if provider.Endpoint != "" {
			fmt.Fprintf(w, "    Endpoint: %s\n", provider.Endpoint)
		}
	}

	fmt.Fprintf(w, "\n  Default style: %s\n", s.Style())
	fmt.Fprintf(w, "  Max tokens: %d\n", s.MaxTokens)
	fmt.Fprintf(w, "  Max prompt bytes: %d\n", s.MaxPromptBytes)
	fmt.Fprintf(w, "  Timeout: %ds\n", s.Timeout)

	fmt.Fprintln(w, "\nPreferences:")
	fmt.Fprintf(w, "  Auto push: %s\n", onOff(s.Preferences.AutoPush))
	fmt.Fprintf(w, "  Auto stage all: %s\n", onOff(s.Preferences.AutoStageAll))
	fmt.Fprintf(w, "  Show diff: %s\n", onOff(s.Preferences.ShowDiff))
	fmt.Fprintf(w, "  Skip confirmation: %s\n", onOff(s.Preferences.SkipConfirmation))
	fmt.Fprintf(w, "  Verbose: %s\n", onOff(s.Preferences.Verbose))
}
