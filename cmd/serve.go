package cmd

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"crdb-admin/core/loader"
	"crdb-admin/core/logger"
	"crdb-admin/core/middleware"
	"crdb-admin/feature/info"
	"crdb-admin/feature/parameter"
	"crdb-admin/feature/privilege"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only HTTP facade",
	Long:  "serve exposes check-mode evaluation of the privilege and parameter modules and the info facts over HTTP. The facade never mutates the cluster.",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, log, cfg, err := setup()
		if err != nil {
			return err
		}
		defer conn.Close()

		app := fiber.New(fiber.Config{DisableStartupMessage: true})
		app.Use(middleware.RequestID())
		app.Use(func(c *fiber.Ctx) error {
			err := c.Next()
			logger.WithRequestID(log, c).Info("request",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", c.Response().StatusCode()))
			return err
		})
		app.Use(middleware.APIKey(cfg.Server.APIKey))

		loader.NewManager(log).Load(app,
			privilege.NewHandler(privilege.NewService(conn, log), log),
			parameter.NewHandler(parameter.NewService(conn, log), log),
			info.NewHandler(info.NewService(conn, log), log),
		)

		log.Info("facade listening", zap.Int("port", cfg.Server.Port))
		return app.Listen(fmt.Sprintf(":%d", cfg.Server.Port))
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
