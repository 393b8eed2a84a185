package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <content-file>",
	Short: "Show project information and referenced libraries",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	if err := openLibrary(cmd, args); err != nil {
		return err
	}

	entries, err := libraryService.Info()
	if err != nil {
		return fmt.Errorf("failed to get project information: %w", err)
	}
	libraries, err := libraryService.Libraries()
	if err != nil {
		return fmt.Errorf("failed to get libraries: %w", err)
	}

	cmd.Println(libraryService.Name())
	cmd.Println()

	scope := ""
	for _, e := range entries {
		if e.Scope != scope {
			scope = e.Scope
			cmd.Printf("[%s]\n", scope)
		}
		cmd.Printf("  %-24s %s\n", e.Name, e.Content)
	}

	if len(libraries) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println("[Libraries]")
	for _, lib := range libraries {
		line := lib.Name
		if lib.Version != "" {
			line += " " + lib.Version
		}
		if lib.Company != "" {
			line += " (" + lib.Company + ")"
		}
		cmd.Printf("  %s\n", line)
	}
	return nil
}
