package cmd

import (
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tutiful/papergen/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the paper generation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		verbose, _ := cmd.Flags().GetBool("verbose")

		log, err := buildLogger(verbose)
		if err != nil {
			return err
		}
		defer log.Sync()

		d, err := buildDeps(cmd.Context(), cmd, log)
		if err != nil {
			return err
		}
		defer d.Close()

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.New(d.service, d.provider, log).Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		log.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().BoolP("verbose", "v", false, "Verbose logging")
}
