package cmd

import (
	"github.com/spf13/cobra"

	"github.com/itemo/auth"
)

var tokenCmd = &cobra.Command{
	Use:   "token <member-id>",
	Short: "Issue an access token for a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ValidateServe(); err != nil {
			return err
		}

		token, err := auth.NewT(auth.WithSecret(cfg.Auth.Secret), auth.WithTTL(cfg.Auth.TokenTTL)).Create(args[0])
		if err != nil {
			return err
		}
		cmd.Println(token)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
