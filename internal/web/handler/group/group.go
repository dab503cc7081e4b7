// Package group provides REST handlers for managing groups.
package group

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/config"
	groupcontroller "github.com/GoUserAdmin/GoUserAdmin/internal/db/controller/group"
	"github.com/GoUserAdmin/GoUserAdmin/internal/web/handler"
)

const (
	// Path is the base path for group management.
	Path = handler.APIRootPath + "groups"

	// RouteByID matches a single group by id.
	RouteByID = Path + "/:id"
)

// Service provides CRUD handlers for groups.
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

// List returns every group.
func (s *Service) List(c *fiber.Ctx) error {
	groups, err := groupcontroller.GetAll(s.db)
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.JSON(groups)
}

// Get returns a single group by id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidID})
	}

	g, err := groupcontroller.GetByID(s.db, id)
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.JSON(g)
}

// Create adds a new group with the requested permission grants and user
// memberships. At least one permission is required.
func (s *Service) Create(c *fiber.Ctx) error {
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidBody})
	}

	g, err := groupcontroller.Create(s.db, groupcontroller.CreateInput{
		Name:          req.Name,
		PermissionIDs: req.PermissionIDs,
		UserIDs:       req.UserIDs,
	})
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(g)
}

// Update overwrites a group's name and both association sets.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidID})
	}

	var req request
	if err = c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidBody})
	}

	found, err := groupcontroller.Update(s.db, id, groupcontroller.UpdateInput{
		Name:          req.Name,
		PermissionIDs: req.PermissionIDs,
		UserIDs:       req.UserIDs,
	})
	if err != nil {
		return handler.RespondError(c, err)
	}

	if !found {
		return c.SendStatus(fiber.StatusNotFound)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete removes a group, its memberships and its grants.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidID})
	}

	found, err := groupcontroller.Delete(s.db, id)
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
