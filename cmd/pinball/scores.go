package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-pinball/internal/platform/tui"
	"github.com/vovakirdan/tui-pinball/internal/scores"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [table]",
	Short: "Show high scores and recent games",
	Long: `Display the five best scores and recent games of a table.

Without a table number an interactive scoreboard opens (tab switches
tables). When output is not a terminal every table is printed.

Examples:
  pinball scores
  pinball scores 2`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func runScores(_ *cobra.Command, args []string) {
	e, err := setup()
	if err != nil {
		fail("%v", err)
	}
	defer e.store.Close()

	if len(args) == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
		width, height := terminalSize()
		if err := tui.RunScoreboard(e.store, e.tables, 1, width, height); err != nil {
			fail("%v", err)
		}
		return
	}

	levels := make([]int, 0, e.tables.NumberOfLevels())
	if len(args) == 1 {
		level := parseLevel(args[0], e.tables.NumberOfLevels())
		levels = append(levels, level)
	} else {
		for level := 1; level <= e.tables.NumberOfLevels(); level++ {
			levels = append(levels, level)
		}
	}

	ledger := scores.NewLedger(e.store)
	for i, level := range levels {
		if i > 0 {
			fmt.Println()
		}
		list, err := ledger.Load(level)
		if err != nil {
			fail("%v", err)
		}
		fmt.Printf("High Scores - %s\n", e.tables.Name(level))
		fmt.Println()
		for rank, score := range list {
			fmt.Printf("  #%d  %d\n", rank+1, score)
		}

		games, err := e.store.RecentGames(level, 10)
		if err != nil {
			fail("%v", err)
		}
		if len(games) == 0 {
			fmt.Println()
			fmt.Printf("No games recorded yet. Play 'pinball play --table %d' to set one!\n", level)
			continue
		}

		fmt.Println()
		fmt.Printf("  %-10s  %-9s  %-8s  %s\n", "Score", "Balls", "Time", "Date")
		fmt.Printf("  %-10s  %-9s  %-8s  %s\n", "-----", "-----", "----", "----")
		for _, g := range games {
			balls := "limited"
			if g.Unlimited {
				balls = "unlimited"
			}
			fmt.Printf("  %-10d  %-9s  %-8s  %s\n", g.Score, balls, g.Duration.Round(time.Second), g.CreatedAt.Local().Format("2006-01-02 15:04"))
		}

		if stats, err := e.store.LevelStats(level); err == nil && stats.GamesCount > 0 {
			fmt.Println()
			fmt.Printf("Games: %d  Best: %d  Average: %.0f\n", stats.GamesCount, stats.HighScore, stats.AvgScore)
		}
	}
}

// parseLevel parses a 1-based table number or exits.
func parseLevel(arg string, n int) int {
	level, err := strconv.Atoi(arg)
	if err != nil || level < 1 || level > n {
		fail("invalid table %q, expected 1 to %d (see 'pinball tables')", arg, n)
	}
	return level
}
