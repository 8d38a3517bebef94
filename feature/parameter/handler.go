package parameter

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"crdb-admin/core/logger"
)

// Handler exposes check-mode parameter evaluation over HTTP.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler returns a parameter handler.
func NewHandler(service *Service, l *zap.Logger) *Handler {
	return &Handler{service: service, logger: l}
}

// Name is the route prefix the loader mounts the handler under.
func (h *Handler) Name() string { return "parameter" }

// Register mounts the routes.
func (h *Handler) Register(router fiber.Router) {
	router.Post("/check", h.check)
	router.Get("/profiles", h.profiles)
}

func (h *Handler) check(c *fiber.Ctx) error {
	log := logger.WithRequestID(h.logger, c)

	var req Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := h.service.Reconcile(c.UserContext(), req, true)
	if err != nil {
		log.Error("parameter check failed", zap.Error(err))
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

func (h *Handler) profiles(c *fiber.Ctx) error {
	return c.JSON(Profiles(nil))
}
