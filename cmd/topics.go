package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tutiful/papergen/internal/paper"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the supported topics and their default question counts",
	Run: func(cmd *cobra.Command, args []string) {
		dist := paper.DefaultDistribution()

		names := make([]string, 0, len(dist))
		for t := range dist {
			names = append(names, t)
		}
		sort.Strings(names)

		total := 0
		for _, t := range names {
			fmt.Printf("%-36s %d\n", t, dist[t])
			total += dist[t]
		}
		fmt.Printf("%-36s %d\n", "TOTAL", total)
	},
}
