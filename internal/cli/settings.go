package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View or change settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("bonus-fastest:  %t\n", app.Store.BonusFastestEnabled())
			fmt.Printf("bonus-wildcard: %t\n", app.Store.BonusWildcardEnabled())
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <bonus-fastest|bonus-wildcard> <true|false>",
		Short: "Toggle a bonus button",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("invalid value %q", args[1])
			}
			switch args[0] {
			case "bonus-fastest":
				app.Store.SetBonusFastest(enabled)
			case "bonus-wildcard":
				app.Store.SetBonusWildcard(enabled)
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}
			return nil
		},
	})

	return cmd
}
