package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"catalog-sync/core/loader"
	"catalog-sync/core/logger"
	"catalog-sync/core/middleware/auth"
	"catalog-sync/core/middleware/rayid"
	"catalog-sync/feature/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the catalog sync server",
	Long:  `Starts the HTTP server exposing the sync engine's operational API.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration and Logger
		cfg, logg, err := loadConfigAndLogger()
		if err != nil {
			log.Fatalf("Failed to bootstrap: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 2. Wire the sync service
		svc, err := buildService(context.Background(), cfg, logg)
		if err != nil {
			logg.Fatal("Failed to wire sync service", zap.Error(err))
		}

		// 3. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 4. Initialize Feature Loader
		mgr := loader.NewManager()
		mgr.Register(sync.NewFeature(svc))

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

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
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
