package cmd

import (
	"fmt"
	"os"

	"github.com/pders01/capsule/internal/capsule"
	"github.com/pders01/capsule/internal/config"
	"github.com/spf13/cobra"
)

var applyRoot string

var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Restore state files from a capsule artifact",
	Long: `Validate a capsule artifact and rewrite the registry-backed state files
under the target root from its payload.

The artifact is fully validated before any file is written. State files
the artifact does not mention are left untouched; restoration overwrites,
it never deletes. There is no rollback across files.

Examples:
  capsule apply capsule.json
  capsule apply backup.json --root /var/lib/agent`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVar(&applyRoot, "root", "", "Target root directory (default from config)")
}

func runApply(cmd *cobra.Command, args []string) error {
	root := applyRoot
	if root == "" {
		root = config.GetStateDir()
	}
	if root == "" {
		root = "."
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}

	c, err := capsule.Decode(data)
	if err != nil {
		return err
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	applied, warnings := capsule.Apply(c, reg, root)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	fmt.Printf("✓ Applied %d state block(s) under %s\n", applied, root)

	return nil
}
