package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bulbousnub/wats-go/internal/model"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player roster commands",
	}

	cmd.AddCommand(newPlayerListCmd())
	cmd.AddCommand(newPlayerAddCmd())
	cmd.AddCommand(newPlayerRemoveCmd())
	cmd.AddCommand(newPlayerActivateCmd())

	return cmd
}

func newPlayerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all players",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range app.Store.Players() {
				state := "active"
				if !p.IsActive {
					state = "inactive"
				}
				fmt.Printf("%-20s %8d  %s\n", p.Name, p.AllTimeScore, state)
			}
			return nil
		},
	}
}

func newPlayerAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a player, or re-activate an existing one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.AddPlayer(args[0])
			return nil
		},
	}
}

func newPlayerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"deactivate"},
		Short:   "Deactivate a player (history is kept)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := findPlayerByName(args[0])
			if err != nil {
				return err
			}
			app.Store.RemovePlayer(p.ID)
			return nil
		},
	}
}

func newPlayerActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <name>",
		Short: "Re-activate a previously removed player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := findPlayerByName(args[0])
			if err != nil {
				return err
			}
			app.Store.SetActive(p.ID, true)
			return nil
		},
	}
}

func findPlayerByName(name string) (model.Player, error) {
	for _, p := range app.Store.Players() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return model.Player{}, fmt.Errorf("%w: %q", model.ErrPlayerNotFound, name)
}
