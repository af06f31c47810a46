package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/biowatch/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the watcher and the MCP server",
	Long: `Starts polling in the background and serves the corpus over the Model
Context Protocol, so a reasoning agent can call the "retrieve" and "stats"
tools and read recent changes from the biowatch://changes resource.

By default the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  biowatch mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  biowatch mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "biowatch": {
        "command": "/path/to/biowatch",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	eng, err := loadEngine()
	if err != nil {
		return err
	}

	defer closeEngine(eng)

	server, err := mcp.NewServer(&mcp.Ports{
		Retrieval: eng.Retrieval,
		Watcher:   eng.Watcher,
		Changes:   eng.Changes,
		Journal:   eng.Journal,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := eng.Watcher.Start(ctx); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s%s\n", addr, mcp.EndpointPath)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
