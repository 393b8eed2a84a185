package cli

import (
	"fmt"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

var treeCmd = &cobra.Command{
	Use:   "tree <content-file>",
	Short: "Print the particle hierarchy",
	Args:  cobra.ExactArgs(1),
	RunE:  runTree,
}

func init() {
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	if err := openLibrary(cmd, args); err != nil {
		return err
	}

	particles, err := libraryService.Particles()
	if err != nil {
		return fmt.Errorf("failed to list particles: %w", err)
	}
	if len(particles) == 0 {
		cmd.Println("No particles found.")
		return nil
	}

	cmd.Print(renderTree(particles))
	return nil
}

// renderTree draws the particles below the first one, which is the index.
func renderTree(particles []domain.ParticleInfo) string {
	byKey := make(map[string]*domain.ParticleInfo, len(particles))
	for i := range particles {
		byKey[particles[i].Key] = &particles[i]
	}

	root := &particles[0]
	tree := gotree.New(treeLabel(root))
	addChildren(tree, root, byKey)
	return tree.Print()
}

func addChildren(tree gotree.Tree, p *domain.ParticleInfo, byKey map[string]*domain.ParticleInfo) {
	for _, key := range p.Children {
		child, ok := byKey[key]
		if !ok {
			continue
		}
		addChildren(tree.Add(treeLabel(child)), child, byKey)
	}
}

func treeLabel(p *domain.ParticleInfo) string {
	return fmt.Sprintf("%s [%s]", p.Name, p.Type)
}
