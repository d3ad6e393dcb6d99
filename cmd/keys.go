package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/capsule/internal/config"
	"github.com/spf13/cobra"
)

var (
	keysRoot string
	keysJSON bool
	keysToon bool
)

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List registry keys and their backing files",
	Long: `List every logical key in the registry, its backing file path, and
whether the file currently exists under the root directory.

Examples:
  capsule keys
  capsule keys --root /var/lib/agent --json`,
	RunE: runKeys,
}

func init() {
	rootCmd.AddCommand(keysCmd)

	keysCmd.Flags().StringVar(&keysRoot, "root", "", "Root directory of the state files (default from config)")
	keysCmd.Flags().BoolVar(&keysJSON, "json", false, "Output as JSON")
	keysCmd.Flags().BoolVar(&keysToon, "toon", false, "Output in LLM-friendly toon format")
}

type keyInfo struct {
	Key     string `json:"key"`
	Path    string `json:"path"`
	Present bool   `json:"present"`
}

func runKeys(cmd *cobra.Command, args []string) error {
	root := keysRoot
	if root == "" {
		root = config.GetStateDir()
	}
	if root == "" {
		root = "."
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	var infos []keyInfo
	for _, key := range reg.Keys() {
		rel := reg[key]
		_, err := os.Stat(filepath.Join(root, rel))
		infos = append(infos, keyInfo{Key: key, Path: rel, Present: err == nil})
	}

	if keysJSON {
		output, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if keysToon {
		output, err := gotoon.Encode(infos)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	present := 0
	fmt.Printf("Registry (%d keys, root: %s):\n\n", len(infos), root)
	for _, info := range infos {
		marker := " "
		if info.Present {
			marker = "✓"
			present++
		}
		fmt.Printf("  %s %-20s %s\n", marker, info.Key, info.Path)
	}
	fmt.Printf("\n%d of %d backing files present\n", present, len(infos))

	return nil
}
