package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/docket/internal/server"
)

var serveDoc documentFlags

var serveCmd = &cobra.Command{
	Use:     "serve [layout]",
	Aliases: []string{"s"},
	Short:   "Start the live preview server",
	Long: `Start a preview server that renders the layout, watches the layout and data
files and reloads connected browsers after every change. Without a layout
the default layout of the document type is previewed.

Examples:
  docket serve                                   # Default invoice layout
  docket serve invoice.json -d order.json --open
  docket serve docket.yaml -t delivery_docket -p 9000`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to serve on")
	serveCmd.Flags().String("host", "localhost", "Host to bind to")
	serveCmd.Flags().Bool("open", false, "Open the preview in a browser")
	serveCmd.Flags().Duration("debounce", 300*time.Millisecond, "Delay between the last change and the re-render")
	addDocumentFlags(serveCmd, &serveDoc)

	_ = viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("server.open", serveCmd.Flags().Lookup("open"))
	_ = viper.BindPFlag("preview.debounce", serveCmd.Flags().Lookup("debounce"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Document.Layout = args[0]
	}
	if err := serveDoc.apply(cfg); err != nil {
		return err
	}

	logger := newLogger(cfg)
	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info(context.Background(), "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, err, "Error during server shutdown")
		}
	}()

	target := "the default " + cfg.DocumentType().Title() + " layout"
	if cfg.Document.Layout != "" {
		target = cfg.Document.Layout
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Previewing %s at http://%s:%d\n", target, cfg.Server.Host, cfg.Server.Port)

	return srv.Start(ctx)
}
