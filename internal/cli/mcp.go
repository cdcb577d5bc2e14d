package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/spf13/cobra"
)

var mcpPort int

var serveMCPCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Start the MCP server",
	Long: `Serves the corpus tools search_corpus, ask_corpus and project_answers over the
Model Context Protocol.

By default the server speaks JSON-RPC over stdio. Use --port to serve streamable HTTP.

Examples:
  qactl serve-mcp
  qactl serve-mcp --port 8090`,
	Args: cobra.NoArgs,
	RunE: runServeMCP,
}

func init() {
	serveMCPCmd.Flags().IntVarP(&mcpPort, "port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveMCPCmd)
}

func runServeMCP(cmd *cobra.Command, _ []string) error {
	a, err := requireApp()
	if err != nil {
		return err
	}
	server, err := a.MCPServer()
	if err != nil {
		return err
	}

	if mcpPort <= 0 {
		return server.RunStdio(cmd.Context())
	}

	httpServer := &http.Server{
		Addr:        fmt.Sprintf(":%d", mcpPort),
		Handler:     server.Handler(),
		ReadTimeout: config.ReadTimeout,
		IdleTimeout: config.IdleTimeout,
	}
	go func() {
		<-cmd.Context().Done()
		ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
		defer cancel()
		httpServer.Shutdown(ctx)
	}()
	fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", httpServer.Addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
