// Package cli provides the libdoc command-line interface.
package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
	"github.com/custodia-labs/libdoc-cli/internal/logger"
)

// version is set at build time.
var version = "dev"

var (
	settingsService driving.SettingsService
	libraryService  driving.LibraryService
	cleanService    driving.CleanService
)

var verbose bool

var errNotConfigured = errors.New("service not configured")

var rootCmd = &cobra.Command{
	Use:   "libdoc",
	Short: "Documentation tooling for CODESYS library exports",
	Long: `libdoc reads the JSON content export of a CODESYS library and turns it
into a documentation model: particles, symbols, project information and the
identifier mapping used for condensed output.

It also cleans content files, removing hidden, private and internal
declarations according to a rule file.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices wires the driving services used by the commands.
func SetServices(settings driving.SettingsService, library driving.LibraryService, clean driving.CleanService) {
	settingsService = settings
	libraryService = library
	cleanService = clean
}

// Execute runs the root command. Command output goes to stdout.
func Execute() error {
	rootCmd.SetOut(os.Stdout)
	return rootCmd.Execute()
}

// openLibrary loads the content file named by the first argument.
func openLibrary(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errNotConfigured
	}
	return libraryService.Open(cmd.Context(), args[0])
}
