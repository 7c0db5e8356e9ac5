package cli

import (
	"github.com/spf13/cobra"

	"github.com/neboloop/webmcp/internal/browser"
	"github.com/neboloop/webmcp/internal/config"
)

// Shared CLI flags
var (
	httpAddr  string
	driverArg string
	headed    bool
	cdpURL    string
	verbose   bool
)

// ServerConfig holds the loaded configuration (set by main)
var ServerConfig *config.Config

// SetupRootCmd configures the root command with all subcommands and flags
func SetupRootCmd(c *config.Config) *cobra.Command {
	ServerConfig = c

	rootCmd := &cobra.Command{
		Use:   "webmcp",
		Short: "webmcp - browser automation MCP server",
		Long: `webmcp exposes browser automation (navigate, click, fill, select, hover,
screenshot, evaluate) as MCP tools, with console logs and screenshots
published as MCP resources.

Just type 'webmcp' to serve on stdio. Use --http to also serve the
streamable HTTP transport.`,
		Run: func(cmd *cobra.Command, args []string) {
			applyFlagOverrides(cmd)
			RunServer()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.Flags().StringVar(&httpAddr, "http", "", "also serve MCP over streamable HTTP on this address (e.g. :8931)")
	rootCmd.Flags().StringVar(&driverArg, "driver", "", "browser driver: playwright or cdp (default from config)")
	rootCmd.Flags().BoolVar(&headed, "headed", false, "run the browser with a visible window")
	rootCmd.Flags().StringVar(&cdpURL, "cdp-url", "", "attach the cdp driver to a running browser at this DevTools URL")

	rootCmd.AddCommand(VersionCmd())

	return rootCmd
}

// applyFlagOverrides folds command-line flags into the loaded config.
func applyFlagOverrides(cmd *cobra.Command) {
	if httpAddr != "" {
		ServerConfig.HTTP.Addr = httpAddr
	}
	if driverArg != "" {
		ServerConfig.Browser.Driver = driverArg
	}
	if headed {
		ServerConfig.Browser.Headless = false
	}
	if cdpURL != "" {
		ServerConfig.Browser.CDPUrl = cdpURL
		if driverArg == "" {
			ServerConfig.Browser.Driver = browser.DriverCDP
		}
	}
}
