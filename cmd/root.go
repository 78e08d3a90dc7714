package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/itemo/config"
)

var (
	cfgfile string

	rootCmd = &cobra.Command{
		Use:   "itemo",
		Short: "Tennis club assistant server and terminal client",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return config.Init(viper.GetViper(), cfgfile)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgfile, "config", "", "config file (default ./itemo.yaml or $HOME/itemo.yaml)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
