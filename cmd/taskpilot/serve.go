package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/projectnexus/taskpilot/internal/config"
	"github.com/projectnexus/taskpilot/internal/web"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	Long: `Run the dashboard HTTP server.

Exposes the chat conversation at POST /api/chat and the workload,
priority, bottleneck, and allocation reports under /api/reports/.
The chat endpoint is stateless: clients echo back the prior message
and the pending decision token from each response.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		collab, err := buildCollaborators()
		if err != nil {
			return err
		}
		defer collab.close()

		port := servePort
		if port == 0 {
			port = collab.cfg.HTTP.Port
		}

		// Surface config edits in the log; applying them needs a restart.
		go func() {
			_ = config.Watch(context.Background(), func(cfg *config.Config) {
				collab.logger.Log("configuration file changed on disk; restart to apply")
			})
		}()

		server := web.NewServer(collab.conv, collab.combined)
		fmt.Printf("taskpilot dashboard listening on :%d\n", port)
		return server.Run(port)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to http.port from config)")
}
