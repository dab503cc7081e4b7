// Package dashboard provides the read-only summary endpoint.
package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/config"
	dashboardcontroller "github.com/GoUserAdmin/GoUserAdmin/internal/db/controller/dashboard"
	"github.com/GoUserAdmin/GoUserAdmin/internal/web/handler"
)

// Path is the path of the dashboard endpoint.
const Path = handler.APIRootPath + "dashboard"

// Service provides the dashboard handler.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	app.Get(Path, s.Get)
}

// Get returns entity totals and the most frequent assignments.
func (s *Service) Get(c *fiber.Ctx) error {
	summary, err := dashboardcontroller.Get(s.db)
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.JSON(summary)
}
