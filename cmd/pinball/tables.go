package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List the tables",
	Long:  `Shows the tables in play order, with their speed relative to real time.`,
	Args:  cobra.NoArgs,
	Run:   runTables,
}

func runTables(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig()
	if err != nil {
		fail("%v", err)
	}
	src, err := loadTables(cfg)
	if err != nil {
		fail("%v", err)
	}

	fmt.Println("Tables:")
	fmt.Println()
	fmt.Printf("  %-3s  %-20s  %-6s  %s\n", "#", "Name", "Speed", "File")
	fmt.Printf("  %-3s  %-20s  %-6s  %s\n", "-", "----", "-----", "----")
	for level := 1; level <= src.NumberOfLevels(); level++ {
		t, err := src.Table(level)
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("  %-3d  %-20s  %-6.2f  %s\n", level, t.Name, t.Layout.TargetTimeRatio(), t.File)
	}
	fmt.Println()
	fmt.Println("Run 'pinball play --table <#>' to start on a table.")
}
