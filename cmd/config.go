package cmd

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/bitrise-io/sage/errs"
	"github.com/bitrise-io/sage/llm"
	"github.com/spf13/cobra"
)

type configOptions struct {
	provider  string
	key       string
	updateKey string
	model     string
	endpoint  string
	maxTokens int
	timeout   int
	style     string
	pref      string
	value     string
	show      bool
}

var configOpts configOptions

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configure providers, API keys and preferences",
	Long: `Store provider credentials and preferences in the config file.

Examples:
  sage config --provider claude --key sk-ant-...
  sage config --provider openai --update-key sk-...
  sage config --set-pref auto_push --value true
  sage config --show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfig(cmd, configOpts)
	},
}

func validateProvider(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !slices.Contains(llm.Providers, name) {
		return "", errs.Configuration(fmt.Sprintf("unsupported provider: %s", name),
			"supported providers are "+strings.Join(llm.Providers, ", "))
	}
	return name, nil
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}
	return false, errs.Configuration(fmt.Sprintf("invalid value %q", value), "use --value true or --value false")
}

func runConfig(cmd *cobra.Command, opts configOptions) error {
	settings, path, err := loadSettings()
	if err != nil {
		return err
	}

	changed := false
	flags := cmd.Flags()

	if opts.provider != "" {
		name, err := validateProvider(opts.provider)
		if err != nil {
			return err
		}
		if opts.updateKey != "" {
			if err := settings.UpdateKey(name, opts.updateKey); err != nil {
				return err
			}
		}
		settings.SetProvider(name, opts.key, opts.model, opts.endpoint)
		changed = true
	} else if opts.key != "" || opts.updateKey != "" || opts.model != "" || opts.endpoint != "" {
		return errs.Configuration("--key, --update-key, --model and --endpoint need --provider", "for example `sage config --provider openai --key <key>`")
	}

	if flags.Changed("max-tokens") {
		if err := settings.SetMaxTokens(opts.maxTokens); err != nil {
			return err
		}
		changed = true
	}
	if flags.Changed("timeout") {
		if err := settings.SetTimeout(opts.timeout); err != nil {
			return err
		}
		changed = true
	}
	if opts.style != "" {
		if err := settings.SetDefaultStyle(opts.style); err != nil {
			return err
		}
		changed = true
	}
	if opts.pref != "" {
		if opts.value == "" {
			return errs.Configuration("--set-pref needs --value", "for example `sage config --set-pref show_diff --value true`")
		}
		value, err := parseBool(opts.value)
		if err != nil {
			return err
		}
		if err := settings.SetPreference(opts.pref, value); err != nil {
			return err
		}
		changed = true
	}

	if changed {
		if err := settings.Save(path); err != nil {
			return err
		}
		printSuccess(os.Stdout, "Configuration saved to %s", path)
	}
	if opts.show || !changed {
		settings.Show(os.Stdout)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)

	flags := configCmd.Flags()
	flags.StringVarP(&configOpts.provider, "provider", "p", "", "Provider to configure (openai, claude); becomes active")
	flags.StringVarP(&configOpts.key, "key", "k", "", "API key for the provider")
	flags.StringVar(&configOpts.updateKey, "update-key", "", "Replace the API key of a configured provider")
	flags.StringVar(&configOpts.model, "model", "", "Model to use with the provider")
	flags.StringVar(&configOpts.endpoint, "endpoint", "", "Custom API endpoint for the provider")
	flags.IntVar(&configOpts.maxTokens, "max-tokens", 0, "Output token ceiling")
	flags.IntVar(&configOpts.timeout, "timeout", 0, "Provider call timeout in seconds")
	flags.StringVar(&configOpts.style, "style", "", "Default style: standard, conventional, detailed or short")
	flags.StringVar(&configOpts.pref, "set-pref", "", "Preference to set: auto_push, auto_stage_all, show_diff, skip_confirmation, verbose")
	flags.StringVar(&configOpts.value, "value", "", "Value for --set-pref (true or false)")
	flags.BoolVarP(&configOpts.show, "show", "s", false, "Show the configuration")
}
