package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sw33tLie/moviescope/internal/server"
	"github.com/sw33tLie/moviescope/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the movie price comparison API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}
		proxy, _ := rootCmd.PersistentFlags().GetString("proxy")

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, proxy)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			a.Close(shutdownCtx)
		}()

		utils.Log.Infof("Comparing %d providers", a.registry.Len())
		srv := server.New(server.Config{
			Engine: a.engine,
			Hosts:  a.registry.Hosts(),
			Prober: a.transport,
			Log:    utils.Log,
		})
		return srv.Start(ctx, cfg.Listen)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", "", "HTTP listen address (default from server.listen, :8080)")
}
