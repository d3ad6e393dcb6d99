package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pders01/capsule/internal/capsule"
	"github.com/pders01/capsule/internal/config"
	"github.com/spf13/cobra"
)

var (
	captureRoot string
	captureOut  string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture current state into a capsule artifact",
	Long: `Read every registry-backed state file present under the root directory
and write a single checksummed capsule artifact.

Missing state files are skipped silently; files that exist but fail to
parse are skipped with a warning. Capture never modifies the state files.

Examples:
  capsule capture
  capsule capture --root /var/lib/agent --out backup.json`,
	RunE: runCapture,
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().StringVar(&captureRoot, "root", "", "Root directory of the state files (default from config)")
	captureCmd.Flags().StringVar(&captureOut, "out", "", "Output artifact file (default from config)")
}

func runCapture(cmd *cobra.Command, args []string) error {
	root := captureRoot
	if root == "" {
		root = config.GetStateDir()
	}
	if root == "" {
		root = "."
	}

	out := captureOut
	if out == "" {
		out = config.GetDefaultOutput()
	}
	if out == "" {
		out = "capsule.json"
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	state, warnings := capsule.Collect(reg, root)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: failed to collect %s\n", w)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	c, err := capsule.Produce(state, absRoot)
	if err != nil {
		return err
	}

	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}

	fmt.Printf("✓ Capsule captured: %s\n", out)
	fmt.Printf("  Checksum: %s\n", c.Checksum)
	fmt.Printf("  Blocks:   %d\n", len(c.State))

	return nil
}
