package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show all-time totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			if reset {
				app.Store.ResetAllTime()
				fmt.Println("All-time scores reset.")
				return nil
			}
			players := app.Store.Players()
			sort.SliceStable(players, func(i, j int) bool {
				return players[i].AllTimeScore > players[j].AllTimeScore
			})
			for i, p := range players {
				fmt.Printf("%2d. %-20s %d\n", i+1, p.Name, p.AllTimeScore)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Reset every player's all-time score to 0")
	return cmd
}
