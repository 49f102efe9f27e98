package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jjenkins/fieldservice/internal/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	Long:  `Start the web server that serves the HTML pages and the JSON API.`,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Address to listen on (overrides http.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	boot, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	e, err := setup(boot)
	if err != nil {
		return err
	}
	defer e.Close()

	addr := e.cfg.HTTP.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	app := fiber.New(fiber.Config{
		AppName:      "fieldservice",
		BodyLimit:    e.cfg.HTTP.BodyLimit,
		ErrorHandler: handlers.ErrorHandler(e.logger),
	})

	app.Use(recover.New())
	app.Use(logger.New())

	handlers.Register(app, e.svc, e.logger)

	ctx, stop := signalContext(e.logger)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("starting server", zap.String("addr", addr), zap.String("store", e.cfg.Store.Backend))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	e.logger.Info("server stopped")
	return nil
}
