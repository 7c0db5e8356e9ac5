package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/neboloop/webmcp/internal/logging"
	"github.com/neboloop/webmcp/internal/mcp"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// RunServer starts the MCP server on stdio and, when configured, on the
// streamable HTTP transport. Blocks until the client disconnects or a
// signal arrives; the browser session is torn down before exit.
func RunServer() {
	if !verbose {
		logging.Disable()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Infof("[CLI] Received signal: %v - shutting down", sig)
		cancel()
	}()

	srv := mcp.NewServer(ServerConfig)

	var httpServer *http.Server
	if ServerConfig.HTTP.Addr != "" {
		httpServer = &http.Server{
			Addr:    ServerConfig.HTTP.Addr,
			Handler: mcp.NewRouter(srv),
		}
		go func() {
			logging.Infof("[CLI] Serving MCP over HTTP on %s", ServerConfig.HTTP.Addr)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
				cancel()
			}
		}()
	}

	// Stdio serving blocks until the client closes the stream or ctx is
	// cancelled.
	err := srv.Run(ctx)

	if httpServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = httpServer.Shutdown(shutdownCtx)
		shutdownCancel()
	}

	// Close the browser before exit, whatever ended the serve loop.
	if terr := srv.Sessions().Teardown(); terr != nil {
		logging.Errorf("[CLI] Session teardown: %v", terr)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// VersionCmd creates the version command
func VersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the webmcp version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("webmcp %s\n", Version)
		},
	}
}
