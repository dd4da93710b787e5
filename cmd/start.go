package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"print-exporter/core/loader"
	"print-exporter/core/logger"
	"print-exporter/core/metrics"
	"print-exporter/core/middleware/auth"
	"print-exporter/core/middleware/rayid"

	"print-exporter/feature/catalog"
	"print-exporter/feature/export"
	"print-exporter/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "print-exporter/docs/swagger"
)

// @title Print Exporter API
// @version 1.0
// @description API for exporting game items as print-ready meshes.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the print exporter server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration and connect collaborators
		rt, err := newRuntime(true)
		if err != nil {
			log.Fatalf("Failed to initialize: %v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := rt.withPipeline(); err != nil {
			logg.Fatal("Failed to wire export pipeline", zap.Error(err))
		}
		if err := rt.converter.Available(); err != nil {
			logg.Warn("Converter not available, exports will fail", zap.Error(err))
		}

		exporter, err := rt.exportService()
		if err != nil {
			logg.Fatal("Failed to create export service", zap.Error(err))
		}

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             rt.cfg.Server.BodyLimit(),
		})

		// 3. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(export.NewFeature(exporter))
		mgr.Register(catalog.NewFeature(rt.cfg.Catalog, rt.store, logg))
		mgr.Register(integrity.NewFeature(rt.client, rt.cfg.Storage.Bucket, logg, rt.db, rt.archive, rt.converter, rt.cfg.Converter.Path))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Export deadline, conversion included
		timeout := time.Duration(rt.cfg.Server.ExportTimeout()) * time.Second
		app.Use(func(c *fiber.Ctx) error {
			ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
			defer cancel()
			c.SetUserContext(ctx)
			return c.Next()
		})

		// 4. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 5. Auth (Protect API), scrapes stay open
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: []string{"/metrics"}}))
		metrics.Register(app, "/metrics")

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
