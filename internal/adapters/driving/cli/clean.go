package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/libdoc-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
	"github.com/custodia-labs/libdoc-cli/internal/core/ports/driving"
)

var (
	cleanOutput string
	cleanDir    string
	cleanWatch  bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean [content-file]",
	Short: "Remove hidden and internal declarations from a content file",
	Long: `Clean writes a copy of a content file without the declarations matched
by the rule file next to it (clean.conf by default). A missing rule file
is created with the built-in rules.

Without an argument the first *.json file in the directory is cleaned.
The output defaults to <name>.clean.json.

With --watch the file is cleaned again whenever the content or the rule
file changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "output file (default <name>.clean.json)")
	cleanCmd.Flags().StringVarP(&cleanDir, "dir", "d", "", "directory searched when no file is given")
	cleanCmd.Flags().BoolVarP(&cleanWatch, "watch", "w", false, "clean again on every change")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	if cleanService == nil {
		return errNotConfigured
	}

	req := driving.CleanRequest{Output: cleanOutput, Dir: cleanDir}
	if len(args) > 0 {
		req.Input = args[0]
	}

	out := cmd.OutOrStdout()
	if !cleanWatch {
		report, err := cleanService.Clean(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}
		printCleanReport(out, report)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st := styles.NewStyles(nil)
	err := cleanService.Watch(ctx, req, func(report domain.CleanReport, err error) {
		if err != nil {
			fmt.Fprintln(out, st.Error.Render("clean failed: "+err.Error()))
			return
		}
		printCleanReport(out, report)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}

func printCleanReport(w io.Writer, report domain.CleanReport) {
	st := styles.NewStyles(nil)

	rules := report.ConfigPath
	if rules == "" {
		rules = "built-in"
	}

	fmt.Fprintln(w, st.Success.Render("Cleaned ")+report.Input)
	fmt.Fprintf(w, "  %s %s\n", st.Muted.Render("output: "), report.Output)
	fmt.Fprintf(w, "  %s %s\n", st.Muted.Render("rules:  "), rules)
	fmt.Fprintf(w, "  %s %d excluded, %d rescued, %d members removed, %d attributes removed, %d nodes pruned\n",
		st.Muted.Render("stats:  "),
		report.ExcludedParticles, report.Rescued, report.RemovedMembers,
		report.RemovedAttributes, report.PrunedNodes)
}
