package info

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"crdb-admin/core/logger"
)

// Handler exposes fact gathering over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler returns an info handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// Name is the route prefix the loader mounts the handler under.
func (h *Handler) Name() string { return "info" }

// Register mounts the routes.
func (h *Handler) Register(router fiber.Router) {
	router.Get("/", h.gather)
}

// gather handles GET /info?gather=cluster,databases&sizes=true.
func (h *Handler) gather(c *fiber.Ctx) error {
	log := logger.WithRequestID(h.logger, c)

	var req Request
	if raw := c.Query("gather"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			req.Gather = append(req.Gather, Subset(strings.TrimSpace(s)))
		}
	}
	req.IncludeSizes = c.QueryBool("sizes")

	result, err := h.service.Gather(c.UserContext(), req)
	if err != nil {
		log.Error("info gather failed", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
