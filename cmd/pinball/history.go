package main

import (
	"fmt"
	"slices"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history <table>",
	Short: "Chart recent scores on a table",
	Long: `Plot the scores of the most recent games on a table, oldest first.

Examples:
  pinball history 1
  pinball history 2 --limit 100`,
	Args: cobra.ExactArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 50, "Number of games to plot")
}

func runHistory(_ *cobra.Command, args []string) {
	e, err := setup()
	if err != nil {
		fail("%v", err)
	}
	defer e.store.Close()

	level := parseLevel(args[0], e.tables.NumberOfLevels())
	games, err := e.store.RecentGames(level, flagHistoryLimit)
	if err != nil {
		fail("%v", err)
	}
	if len(games) < 2 {
		fmt.Printf("Not enough games on %s to chart yet.\n", e.tables.Name(level))
		return
	}

	data := make([]float64, len(games))
	for i, g := range games {
		data[i] = float64(g.Score)
	}
	slices.Reverse(data)

	width, _ := terminalSize()
	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(min(width-12, 80)),
		asciigraph.Caption(fmt.Sprintf("%s - last %d games", e.tables.Name(level), len(games))),
	)
	fmt.Println(graph)
	fmt.Println()

	if stats, err := e.store.LevelStats(level); err == nil && stats.GamesCount > 0 {
		fmt.Printf("Best: %d  Average: %.0f over %d limited-ball games\n", stats.HighScore, stats.AvgScore, stats.GamesCount)
	}
}
