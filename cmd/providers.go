package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/moviescope/pkg/providers"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Validate and print the configured movie providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		registry, err := providers.NewRegistry(cfg.Providers...)
		if err != nil {
			return err
		}
		delimiter, _ := cmd.Flags().GetString("delimiter")
		printProviders(os.Stdout, registry, delimiter)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.Flags().StringP("delimiter", "d", " ", "Delimiter character to use for txt output format")
}

func printProviders(w io.Writer, registry *providers.Registry, delimiter string) {
	for _, p := range registry.All() {
		fmt.Fprintln(w, p.Name+delimiter+p.BaseURL+delimiter+p.Host)
	}
}
