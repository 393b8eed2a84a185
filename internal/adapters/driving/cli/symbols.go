package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

var symbolsJSON bool

var symbolsCmd = &cobra.Command{
	Use:   "symbols <content-file> [name]",
	Short: "List or look up symbols",
	Long: `Without a name, list the symbol table of a content file.
With a name, resolve it case-insensitively to its canonical spelling.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSymbols,
}

func init() {
	symbolsCmd.Flags().BoolVar(&symbolsJSON, "json", false, "output symbols as JSON")
	rootCmd.AddCommand(symbolsCmd)
}

func runSymbols(cmd *cobra.Command, args []string) error {
	if err := openLibrary(cmd, args); err != nil {
		return err
	}

	if len(args) == 2 {
		sym, err := libraryService.LookupSymbol(args[1])
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("unknown symbol %q", args[1])
		}
		if err != nil {
			return err
		}
		if symbolsJSON {
			return printJSON(cmd, sym)
		}
		cmd.Println(sym.Target)
		return nil
	}

	symbols, err := libraryService.Symbols()
	if err != nil {
		return fmt.Errorf("failed to list symbols: %w", err)
	}
	if symbolsJSON {
		return printJSON(cmd, symbols)
	}
	for _, s := range symbols {
		cmd.Printf("%-48s %s\n", s.Key, s.Target)
	}
	return nil
}
