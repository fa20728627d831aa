package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nicu/typemockr/config"
	"github.com/nicu/typemockr/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect typemockr configuration",
	Long: `Display and validate typemockr configuration.

Configuration sources (later overrides earlier):
1. Default values
2. User config (~/.config/typemockr/typemockr.toml)
3. Project config (typemockr.toml, searched up from the working directory)
4. Explicit config (--config)
5. Environment variables (TYPEMOCKR_* prefix, e.g. TYPEMOCKR_OUTPUT_DIR)
6. Command line flags

Examples:
  typemockr config show                  # Show current configuration
  typemockr config show --format json    # Show configuration in JSON format
  typemockr config get generator.max_depth
  typemockr config validate
  typemockr config where`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., output.dir, generator.max_depth)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where each configuration value comes from",
	RunE:  runConfigWhere,
}

func init() {
	configShowCmd.Flags().String("format", "toml", "Output format: toml, json, yaml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")
	return renderConfig(cmd.OutOrStdout(), loaded.Config, format)
}

// renderConfig writes cfg in the requested format.
func renderConfig(w io.Writer, cfg *config.Config, format string) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(w, string(data))

	case "yaml", "yml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(w, "# typemockr configuration\n%s", data)

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to TOML")
		}
		fmt.Fprintf(w, "# typemockr configuration\n%s", data)

	default:
		return errors.WithHint(
			errors.Wrapf(errors.ErrUnsupportedFormat, "config format %q", format),
			"supported formats: toml, json, yaml")
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	key := args[0]
	if !loaded.Viper.IsSet(key) {
		return errors.Newf("configuration key %q not found", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), loaded.Viper.Get(key))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(cmd)
	if err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	if _, err := loaded.Config.InferConfig(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration files (later overrides earlier):")
	if len(loaded.Files) == 0 {
		fmt.Fprintln(out, "  (none, using defaults)")
	}
	for i, f := range loaded.Files {
		fmt.Fprintf(out, "  %d. %s\n", i+1, f)
	}
	fmt.Fprintln(out)

	table, err := whereTable(loaded.Settings())
	if err != nil {
		return err
	}
	fmt.Fprint(out, table)
	return nil
}

// whereTable renders settings with their source.
func whereTable(settings []config.Setting) (string, error) {
	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range settings {
		data = append(data, []string{s.Key, fmt.Sprint(s.Value), string(s.Source), s.Path})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return "", errors.Wrap(err, "failed to render settings table")
	}
	return table + "\n", nil
}
