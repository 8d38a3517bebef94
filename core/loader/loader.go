package loader

import (
	"go.uber.org/zap"

	"github.com/gofiber/fiber/v2"
)

// Feature is an HTTP-exposed module: it mounts its routes under the
// router the manager hands it.
type Feature interface {
	Name() string
	Register(router fiber.Router)
}

// Manager mounts features onto the fiber app.
type Manager struct {
	logger *zap.Logger
}

// NewManager returns a feature manager.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Load mounts every feature under its own path prefix.
func (m *Manager) Load(app *fiber.App, features ...Feature) {
	for _, f := range features {
		f.Register(app.Group("/" + f.Name()))
		m.logger.Info("feature loaded", zap.String("feature", f.Name()))
	}
}
