package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/libdoc-cli/internal/core/domain"
)

var (
	particlesType string
	particlesJSON bool
	particleJSON  bool
)

var particlesCmd = &cobra.Command{
	Use:   "particles <content-file>",
	Short: "List the documentation particles of a content file",
	Long: `List every particle of the documentation model in document order,
starting with the index. Each line shows the key, the object type and the
file the particle is rendered to.`,
	Args: cobra.ExactArgs(1),
	RunE: runParticles,
}

var particleCmd = &cobra.Command{
	Use:   "particle <content-file> <key>",
	Short: "Show one particle",
	Args:  cobra.ExactArgs(2),
	RunE:  runParticle,
}

func init() {
	particlesCmd.Flags().StringVarP(&particlesType, "type", "t", "", "only particles of this object type")
	particlesCmd.Flags().BoolVar(&particlesJSON, "json", false, "output particles as JSON")
	particleCmd.Flags().BoolVar(&particleJSON, "json", false, "output the particle as JSON")
	rootCmd.AddCommand(particlesCmd)
	rootCmd.AddCommand(particleCmd)
}

func runParticles(cmd *cobra.Command, args []string) error {
	if err := openLibrary(cmd, args); err != nil {
		return err
	}

	particles, err := libraryService.Particles()
	if err != nil {
		return fmt.Errorf("failed to list particles: %w", err)
	}
	particles = filterParticles(particles, particlesType)

	if particlesJSON {
		return printJSON(cmd, particles)
	}

	if len(particles) == 0 {
		cmd.Println("No particles found.")
		return nil
	}
	for i := range particles {
		p := &particles[i]
		cmd.Printf("%s%-40s %-16s %s\n",
			strings.Repeat("  ", p.Depth), p.Key, p.Type, joinPath(p.Path, p.Filename))
	}
	return nil
}

func runParticle(cmd *cobra.Command, args []string) error {
	if err := openLibrary(cmd, args); err != nil {
		return err
	}

	p, err := libraryService.Particle(args[1])
	if err != nil {
		return fmt.Errorf("failed to get particle: %w", err)
	}
	if particleJSON {
		return printJSON(cmd, p)
	}

	cmd.Printf("%s (%s)\n", p.Name, p.Type)
	cmd.Printf("  Key:  %s\n", p.Key)
	cmd.Printf("  File: %s\n", joinPath(p.Path, p.Filename))
	if p.Declaration != "" {
		cmd.Println()
		cmd.Println(p.Declaration)
	}
	if p.Doc != "" {
		cmd.Println()
		cmd.Println(p.Doc)
	}
	if p.Table != nil && len(p.Table.Rows) > 0 {
		cmd.Println()
		cmd.Println("Parameters:")
		for _, line := range p.Table.Lines() {
			cmd.Printf("  %s\n", line)
		}
	}
	if p.Source != nil {
		cmd.Println()
		cmd.Println("Source:")
		if p.Source.Declaration != "" {
			cmd.Printf("  %s\n", p.Source.DclFilename)
		}
		if p.Source.Implementation != "" {
			cmd.Printf("  %s\n", p.Source.ImpFilename)
		}
	}
	if p.Kinematics != nil {
		cmd.Println()
		cmd.Printf("Kinematics %s:\n", p.Kinematics.ID)
		for _, image := range p.Kinematics.Images {
			cmd.Printf("  %s\n", image)
		}
	}
	if len(p.TOC) > 0 {
		cmd.Println()
		cmd.Println("Contents:")
		for _, ref := range p.TOC {
			cmd.Printf("  %s\n", ref)
		}
	}
	return nil
}

func filterParticles(particles []domain.ParticleInfo, objectType string) []domain.ParticleInfo {
	if objectType == "" {
		return particles
	}
	result := make([]domain.ParticleInfo, 0, len(particles))
	for i := range particles {
		if strings.EqualFold(particles[i].Type, objectType) {
			result = append(result, particles[i])
		}
	}
	return result
}

func joinPath(dir, file string) string {
	if dir == "" {
		return file
	}
	return dir + "/" + file
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
