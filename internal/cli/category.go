package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCategoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Category list commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List categories in play order",
		RunE: func(cmd *cobra.Command, args []string) error {
			for i, c := range app.Store.Categories() {
				fmt.Printf("%2d. %s\n", i+1, c)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <label>",
		Short: "Append a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.AddCategory(args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <number>",
		Short: "Remove the category at the given position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[0])
			}
			app.Store.RemoveCategory(n - 1)
			return nil
		},
	})

	return cmd
}
