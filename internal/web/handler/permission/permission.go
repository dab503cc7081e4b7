// Package permission provides REST handlers for managing permissions.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/config"
	permissioncontroller "github.com/GoUserAdmin/GoUserAdmin/internal/db/controller/permission"
	"github.com/GoUserAdmin/GoUserAdmin/internal/web/handler"
)

const (
	// Path is the base path for permission management.
	Path = handler.APIRootPath + "permissions"

	// RouteByID matches a single permission by id.
	RouteByID = Path + "/:id"
)

// Service provides CRUD handlers for permissions.
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

	app.Get(Path, s.List)
	app.Get(RouteByID, s.Get)
	app.Post(Path, s.Create)
	app.Put(RouteByID, s.Update)
	app.Delete(RouteByID, s.Delete)
}

// List returns every permission.
func (s *Service) List(c *fiber.Ctx) error {
	permissions, err := permissioncontroller.GetAll(s.db)
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.JSON(permissions)
}

// Get returns a single permission by id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidID})
	}

	p, err := permissioncontroller.GetByID(s.db, id)
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.JSON(p)
}

// Create adds a new permission with the requested granting groups.
func (s *Service) Create(c *fiber.Ctx) error {
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidBody})
	}

	p, err := permissioncontroller.Create(s.db, permissioncontroller.CreateInput{
		Name:     req.Name,
		GroupIDs: req.GroupIDs,
	})
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(p)
}

// Update overwrites a permission's name and granting group set.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidID})
	}

	var req request
	if err = c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidBody})
	}

	found, err := permissioncontroller.Update(s.db, id, permissioncontroller.UpdateInput{
		Name:     req.Name,
		GroupIDs: req.GroupIDs,
	})
	if err != nil {
		return handler.RespondError(c, err)
	}

	if !found {
		return c.SendStatus(fiber.StatusNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete removes a permission and its group grants.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidID})
	}

	found, err := permissioncontroller.Delete(s.db, id)
	if err != nil {
		return handler.RespondError(c, err)
	}

	if !found {
		return c.SendStatus(fiber.StatusNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, fiber.ErrBadRequest
	}

	return uint(id), nil
}
