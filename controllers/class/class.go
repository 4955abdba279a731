package class

import (
	"errors"

	"markiz-admin/database"
	"markiz-admin/logger"
	"markiz-admin/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Controller exposes the destructive class operation. Regular class and
// halaqa management happens through direct assignment on the student rows;
// only the cascading delete needs a dedicated endpoint.
type Controller struct {
	DB     *gorm.DB
	Logger *logger.AsyncLogger
}

func NewController(db *gorm.DB, asyncLogger *logger.AsyncLogger) *Controller {
	return &Controller{DB: db, Logger: asyncLogger}
}

func respond(c *fiber.Ctx, status int, message string, data interface{}) error {
	return c.Status(status).JSON(types.ApiResponse{
		Message: message,
		Status:  status,
		Data:    data,
	})
}

// Delete purges a class and everything scoped to it in one transaction.
func (cc *Controller) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return respond(c, fiber.StatusBadRequest, "you must provide ID", nil)
	}

	if err := database.PurgeClass(cc.DB, uint(id)); err != nil {
		if errors.Is(err, database.ErrClassNotFound) {
			return respond(c, fiber.StatusNotFound, "class not found", nil)
		}
		logger.Error("Failed to purge class", err)
		return respond(c, fiber.StatusInternalServerError, "Oops! something went wrong please try again!", nil)
	}

	logger.Success("Class purged with its exams, schedules and halaqas")
	return respond(c, fiber.StatusOK, "class successfully deleted", nil)
}
