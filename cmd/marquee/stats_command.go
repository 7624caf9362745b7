package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show bot usage totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := ctx.openStore()
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer users.Close()

			totalUsers, err := users.TotalUsers(cmd.Context())
			if err != nil {
				return fmt.Errorf("count users: %w", err)
			}
			totalPosts, err := users.TotalPosts(cmd.Context())
			if err != nil {
				return fmt.Errorf("count posts: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, line := range renderSectionHeader("Marquee stats", shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Metric", "Value"},
				[][]string{
					{"Users", fmt.Sprint(totalUsers)},
					{"Posts", fmt.Sprint(totalPosts)},
				},
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

const (
	ansiReset = "\x1b[0m"
	ansiBlue  = "\x1b[34m"
)

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}
