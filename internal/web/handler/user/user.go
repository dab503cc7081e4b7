// Package user provides REST handlers for managing users.
package user

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/config"
	usercontroller "github.com/GoUserAdmin/GoUserAdmin/internal/db/controller/user"
	"github.com/GoUserAdmin/GoUserAdmin/internal/web/handler"
)

const (
	// Path is the base path for user management.
	Path = handler.APIRootPath + "users"

	// RouteByID matches a single user by id.
	RouteByID = Path + "/:id"
)

// Service provides CRUD handlers for users.
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

// List returns every user.
func (s *Service) List(c *fiber.Ctx) error {
	users, err := usercontroller.GetAll(s.db)
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.JSON(users)
}

// Get returns a single user by id.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidID})
	}

	u, err := usercontroller.GetByID(s.db, id)
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.JSON(u)
}

// Create adds a new user with the requested group memberships.
func (s *Service) Create(c *fiber.Ctx) error {
	var req request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidBody})
	}

	u, err := usercontroller.Create(s.db, usercontroller.CreateInput{
		FullName: req.FullName,
		Email:    req.Email,
		GroupIDs: req.GroupIDs,
	})
	if err != nil {
		return handler.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(u)
}

// Update overwrites a user's fields and group set.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidID})
	}

	var req request
	if err = c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidBody})
	}

	found, err := usercontroller.Update(s.db, id, usercontroller.UpdateInput{
		FullName: req.FullName,
		Email:    req.Email,
		GroupIDs: req.GroupIDs,
	})
	if err != nil {
		return handler.RespondError(c, err)
	}

	if !found {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("User with ID %d not found.", id),
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete removes a user and their memberships.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": handler.ErrMsgInvalidID})
	}

	found, err := usercontroller.Delete(s.db, id)
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
