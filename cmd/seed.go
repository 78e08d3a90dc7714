package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itemo/store"
)

var seedCmd = &cobra.Command{
	Use:   "seed <file>",
	Short: "Load members and courts from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		f, err := store.ReadSeedFile(args[0])
		if err != nil {
			return err
		}

		db, err := store.Open(cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer store.Close(db)

		members, courts, err := store.Seed(cmd.Context(), db, f)
		if err != nil {
			return err
		}
		cmd.Printf("seeded %d members, %d courts\n", members, courts)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
