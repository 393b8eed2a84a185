package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	mappingJSON  bool
	mappingTable bool
)

var mappingCmd = &cobra.Command{
	Use:   "mapping <content-file>",
	Short: "Show the identifier mapping of condensed output",
	Long: `In condensed mode every particle path is replaced by a short identifier.
This command prints the identifier, the original path and the slugs issued
for each identifier. Use --table to print the identifier to path table
consumed by build tooling.`,
	Args: cobra.ExactArgs(1),
	RunE: runMapping,
}

var mappingSaveCmd = &cobra.Command{
	Use:   "save <content-file>",
	Short: "Persist the current mapping as a new run",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingSave,
}

var mappingRunsCmd = &cobra.Command{
	Use:   "runs <content-file>",
	Short: "List persisted mapping runs of a library",
	Args:  cobra.ExactArgs(1),
	RunE:  runMappingRuns,
}

func init() {
	mappingCmd.Flags().BoolVar(&mappingJSON, "json", false, "output entries as JSON")
	mappingCmd.Flags().BoolVar(&mappingTable, "table", false, "output the identifier to path table as JSON")
	mappingCmd.AddCommand(mappingSaveCmd)
	mappingCmd.AddCommand(mappingRunsCmd)
	rootCmd.AddCommand(mappingCmd)
}

func runMapping(cmd *cobra.Command, args []string) error {
	if err := openLibrary(cmd, args); err != nil {
		return err
	}

	entries, err := libraryService.Mapping()
	if err != nil {
		return fmt.Errorf("failed to get mapping: %w", err)
	}

	if mappingTable {
		table := make(map[string]string, len(entries))
		for _, e := range entries {
			table[e.ID] = e.Path
		}
		return printJSON(cmd, table)
	}
	if mappingJSON {
		return printJSON(cmd, entries)
	}

	if len(entries) == 0 {
		cmd.Println("No mapping (condensed mode is off).")
		return nil
	}
	for _, e := range entries {
		cmd.Printf("%s  %s\n", e.ID, e.Path)
	}
	return nil
}

func runMappingSave(cmd *cobra.Command, args []string) error {
	if err := openLibrary(cmd, args); err != nil {
		return err
	}

	run, err := libraryService.SaveMapping(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to save mapping: %w", err)
	}
	cmd.Printf("Saved mapping run %s (%d entries)\n", run.ID, len(run.Entries))
	return nil
}

func runMappingRuns(cmd *cobra.Command, args []string) error {
	if err := openLibrary(cmd, args); err != nil {
		return err
	}

	runs, err := libraryService.MappingRuns(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list mapping runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No mapping runs saved.")
		return nil
	}
	for _, r := range runs {
		cmd.Printf("%s  %s  slug=%d\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.SlugLength)
	}
	return nil
}
