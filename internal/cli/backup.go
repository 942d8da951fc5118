package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bulbousnub/wats-go/internal/store"
)

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or import all app data as a single JSON file",
	}

	cmd.AddCommand(newBackupExportCmd())
	cmd.AddCommand(newBackupImportCmd())

	return cmd
}

func newBackupExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [dest]",
		Short: "Copy the data file to dest (default " + store.BackupFileName + ".json)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := store.BackupFileName + ".json"
			if len(args) == 1 {
				dest = args[0]
			}
			if err := copyFile(app.Store.ExportPath(), dest); err != nil {
				return fmt.Errorf("exporting backup: %w", err)
			}
			fmt.Printf("Exported to %s\n", dest)
			return nil
		},
	}
}

func newBackupImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace all app data from a backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.Import(args[0]); err != nil {
				return err
			}
			fmt.Println("Backup imported.")
			return nil
		},
	}
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
