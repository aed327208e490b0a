package bridge

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mindis/avrobridge/internal/config"
)

func NewCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "bridge",
		Short: "Manages the bridging of avro records into transfer-safe output",
	}
	cmd.AddCommand(newRunCommand())
	return cmd
}

func newRunCommand() *cobra.Command {
	var configPath string
	var listenAddr string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Runs a bridge. Records are read from the source, converted and preserved.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			c, err := config.NewFromFile(configPath)
			if err != nil {
				return err
			}

			logger, err := config.NewLogger(c.Global)
			if err != nil {
				return err
			}
			defer logger.Sync()
			l := logger.Named("bridge.run")

			rid := uuid.Must(uuid.NewUUID())
			l.Info("starting bridge!",
				zap.String("run_id", rid.String()),
				zap.String("name", c.Bridge.Name))

			b, err := config.InitializeBridge(c, l, rid)
			if err != nil {
				return err
			}
			defer b.Close(ctx)

			if listenAddr != "" {
				srv := &http.Server{Addr: listenAddr, Handler: b.Routes()}
				go func() {
					if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
						l.Error("stats server failed", zap.Error(err))
					}
				}()
				defer srv.Shutdown(context.Background())
			}

			return b.Run(ctx, rid)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config file")
	cmd.MarkFlagRequired("config")
	cmd.Flags().StringVar(&listenAddr, "listen", "", "Address to serve health and stats on (e.g. :8080)")

	return cmd
}
