package cli

import (
	"github.com/spf13/cobra"

	"github.com/Bh3ky/themambacode/internal/server"
	"github.com/Bh3ky/themambacode/pkg/pipeline"
)

// newServeCmd creates the serve command running the HTTP preview server.
func newServeCmd() *cobra.Command {
	var (
		addr     string
		noCache  bool
		redisURL string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP preview server",
		Long:  `Serve renders over HTTP: GET /healthz, GET /styles, and POST /render with a multipart image upload. A shared redis cache lets several instances reuse each other's renders.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			c, err := buildCache(ctx, noCache, redisURL)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(c, nil, logger)
			defer runner.Close()

			printInfo("Serving on %s", addr)
			return server.New(runner, logger).Serve(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8420", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&redisURL, "cache-redis", "", "redis URL for a shared artifact cache")

	return cmd
}
