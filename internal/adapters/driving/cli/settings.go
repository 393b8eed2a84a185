package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change the libdoc settings stored in ~/.libdoc/config.toml.

Keys:
  generate.condensed   replace paths by short identifiers (true/false)
  generate.slug        maximum slug length, 0 disables slugs
  build.source_suffix  suffix of generated sources
  build.master_doc     stem of the root document
  build.timezone       IANA zone dates are rendered in
  build.date_layout    Go time layout dates are rendered with
  clean.config         name of the clean rule file
  storage.mapping      where mapping runs are kept (sqlite, memory)`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a single setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Generate]")
	cmd.Printf("  Condensed: %s\n", yesNo(settings.Condensed))
	if settings.SlugLength == 0 {
		cmd.Println("  Slug length: disabled")
	} else {
		cmd.Printf("  Slug length: %d\n", settings.SlugLength)
	}
	cmd.Println()

	cmd.Println("[Build]")
	cmd.Printf("  Source suffix: %s\n", settings.Build.SourceSuffix)
	cmd.Printf("  Master doc: %s\n", settings.Build.MasterDoc)
	cmd.Printf("  Timezone: %s\n", settings.Build.Timezone)
	cmd.Printf("  Date layout: %s\n", settings.Build.DateLayout)
	cmd.Println()

	cmd.Println("[Clean]")
	cmd.Printf("  Rule file: %s\n", settings.CleanConfig)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Mapping: %s\n", settings.MappingStorage.Description())
	cmd.Println()

	if err := settingsService.Validate(settings); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'libdoc settings set <key> <value>' to fix it.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runSettingsReset(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errNotConfigured
	}

	defaults := settingsService.GetDefaults()
	if err := settingsService.Save(&defaults); err != nil {
		return fmt.Errorf("failed to reset settings: %w", err)
	}
	cmd.Println("Settings restored to defaults.")
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

