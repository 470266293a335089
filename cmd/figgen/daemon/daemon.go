package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jub0bs/cors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/figgen/figgen-cli/cmd/feedback"
	"github.com/figgen/figgen-cli/cmd/figgen/internal/servicelocator"
	"github.com/figgen/figgen-cli/cmd/figgen/version"
	"github.com/figgen/figgen-cli/internal/api"
	"github.com/figgen/figgen-cli/internal/httprecover"
	"github.com/figgen/figgen-cli/pkg/render"
)

const shutdownTimeout = 30 * time.Second

var defaultOrigins = []string{
	"http://localhost:*",
	"https://localhost:*",
}

func NewDaemonCmd(daemonVersion string) *cobra.Command {
	var (
		origins   []string
		heartbeat time.Duration
	)
	daemonCmd := &cobra.Command{
		Use:   "daemon",
		Short: "Run an HTTP server exposing documents and generation to the UI panel",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			daemonPort, _ := cmd.Flags().GetString("port")
			if err := httpHandler(cmd.Context(), daemonPort, daemonVersion, append(defaultOrigins, origins...), heartbeat); err != nil {
				feedback.Fatal(err.Error(), feedback.ErrGeneric)
			}
		},
	}
	daemonCmd.Flags().String("port", version.DefaultPort, "The TCP port the daemon will listen to")
	daemonCmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "Additional origins allowed to call the API")
	daemonCmd.Flags().DurationVar(&heartbeat, "heartbeat", 30*time.Second, "Interval of the heartbeat sent on idle event streams")
	return daemonCmd
}

func newCORSMiddleware(origins []string) (*cors.Middleware, error) {
	return cors.NewMiddleware(
		cors.Config{
			Origins: origins,
			Methods: []string{
				http.MethodGet,
				http.MethodPost,
				http.MethodPut,
				http.MethodOptions,
				http.MethodDelete,
			},
			RequestHeaders: []string{
				"Accept",
				"Authorization",
				"Content-Type",
			},
			MaxAgeInSeconds: 86400,
			ResponseHeaders: []string{},
		},
	)
}

func httpHandler(ctx context.Context, daemonPort, daemonVersion string, origins []string, heartbeat time.Duration) error {
	if heartbeat <= 0 {
		return fmt.Errorf("invalid heartbeat interval %s", heartbeat)
	}
	apiSrv := api.NewHTTPRouter(
		daemonVersion,
		servicelocator.GetPresetRegistry(),
		servicelocator.GetDocumentStore(),
		servicelocator.GetCoordinator(),
		servicelocator.GetGenerateDefaults(),
		render.WithHeartbeat(heartbeat),
	)

	corsMiddleware, err := newCORSMiddleware(origins)
	if err != nil {
		return err
	}

	address := net.JoinHostPort("127.0.0.1", daemonPort)
	httpSrv := http.Server{
		Addr:              address,
		Handler:           httprecover.RecoverPanic(corsMiddleware.Wrap(apiSrv)),
		ReadHeaderTimeout: 60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Starting HTTP server", slog.String("address", address))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down HTTP server", slog.String("address", address))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		slog.Info("HTTP server shut down", slog.String("address", address))
		return nil
	})
	return g.Wait()
}
