package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/alpkeskin/gotoon"
	"github.com/pders01/capsule/internal/capsule"
	"github.com/spf13/cobra"
)

var (
	inspectJSON bool
	inspectToon bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Validate and summarize a capsule artifact",
	Long: `Parse a capsule artifact, verify its identity marker and checksum, and
print a summary of its contents. Validation is all-or-nothing: a capsule
that fails any check is rejected outright.

Examples:
  capsule inspect capsule.json
  capsule inspect capsule.json --json
  capsule inspect capsule.json --toon`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Output as JSON")
	inspectCmd.Flags().BoolVar(&inspectToon, "toon", false, "Output in LLM-friendly toon format")
}

type capsuleSummary struct {
	Magic      string      `json:"magic"`
	Version    string      `json:"version"`
	CreatedAt  string      `json:"created_at"`
	SourceRoot string      `json:"source_root"`
	Checksum   string      `json:"checksum"`
	Blocks     []blockInfo `json:"blocks"`
}

type blockInfo struct {
	Key   string `json:"key"`
	Bytes int    `json:"bytes"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read artifact: %w", err)
	}

	c, err := capsule.Decode(data)
	if err != nil {
		return err
	}

	summary := summarize(c)

	if inspectJSON {
		output, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(output))
		return nil
	}

	if inspectToon {
		output, err := gotoon.Encode(summary)
		if err != nil {
			return fmt.Errorf("failed to encode Toon: %w", err)
		}
		fmt.Println(output)
		return nil
	}

	fmt.Println("Capsule Artifact")
	fmt.Println("━━━━━━━━━━━━━━━━")
	fmt.Println()
	fmt.Printf("Magic:       %s\n", summary.Magic)
	fmt.Printf("Version:     %s\n", summary.Version)
	fmt.Printf("Created:     %s\n", summary.CreatedAt)
	fmt.Printf("Source root: %s\n", summary.SourceRoot)
	fmt.Printf("Checksum:    %s\n", summary.Checksum)
	fmt.Println()

	if len(summary.Blocks) == 0 {
		fmt.Println("No state blocks")
		return nil
	}

	fmt.Printf("State blocks (%d):\n", len(summary.Blocks))
	for _, b := range summary.Blocks {
		fmt.Printf("  %-20s %6d bytes\n", b.Key, b.Bytes)
	}

	return nil
}

func summarize(c *capsule.Capsule) capsuleSummary {
	summary := capsuleSummary{
		Magic:      c.Magic,
		Version:    c.Version,
		CreatedAt:  c.CreatedTime().Format("2006-01-02 15:04:05 UTC"),
		SourceRoot: c.SourceRoot,
		Checksum:   c.Checksum,
	}

	for key, value := range c.State {
		size := 0
		if canonical, err := capsule.Canonical(value); err == nil {
			size = len(canonical)
		}
		summary.Blocks = append(summary.Blocks, blockInfo{Key: key, Bytes: size})
	}
	sort.Slice(summary.Blocks, func(i, j int) bool {
		return summary.Blocks[i].Key < summary.Blocks[j].Key
	})

	return summary
}
