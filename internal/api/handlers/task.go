package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"task-manager/internal/middleware"
	"task-manager/internal/models"
	"task-manager/internal/service"
)

type TaskService interface {
	Create(ctx context.Context, userID string, in service.NewTask) (*models.Task, error)
	List(ctx context.Context, userID string, page, limit int) ([]models.Task, error)
	Get(ctx context.Context, id, userID string) (*models.Task, error)
	Update(ctx context.Context, id, userID string, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id, userID string) error
	Search(ctx context.Context, userID, title string) ([]models.Task, error)
	Filter(ctx context.Context, userID string, status models.Status, priority models.Priority) ([]models.Task, error)
}

type TaskHandler struct {
	tasks    TaskService
	validate *validator.Validate
}

func NewTaskHandler(tasks TaskService, validate *validator.Validate) *TaskHandler {
	return &TaskHandler{tasks: tasks, validate: validate}
}

type createTaskRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     string `json:"dueDate" validate:"omitempty,duedate"`
}

// Pointers tell an absent field apart from an empty one.
type updateTaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,min=1"`
	Description *string `json:"description"`
	Status      *string `json:"status" validate:"omitnil,oneof=pending in-progress completed"`
	Priority    *string `json:"priority" validate:"omitnil,oneof=low medium high"`
	DueDate     *string `json:"dueDate" validate:"omitnil,duedate"`
}

type filterTasksQuery struct {
	Status   string `query:"status" validate:"omitempty,oneof=pending in-progress completed"`
	Priority string `query:"priority" validate:"omitempty,oneof=low medium high"`
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	in := service.NewTask{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.Status(req.Status),
		Priority:    models.Priority(req.Priority),
	}
	if req.DueDate != "" {
		due, _ := parseDueDate(req.DueDate)
		in.DueDate = &due
	}

	task, err := h.tasks.Create(c.UserContext(), middleware.UserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// List handles GET /tasks?page=&limit=.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", service.DefaultPage)
	limit := c.QueryInt("limit", service.DefaultLimit)

	tasks, err := h.tasks.List(c.UserContext(), middleware.UserID(c), page, limit)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c *fiber.Ctx) error {
	task, err := h.tasks.Get(c.UserContext(), c.Params("id"), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(task)
}

// Update handles PUT /tasks/:id. Only the fields present in the body change.
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var req updateTaskRequest
	if err := bindBody(c, h.validate, &req); err != nil {
		return err
	}

	patch := models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := models.Status(*req.Status)
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := models.Priority(*req.Priority)
		patch.Priority = &priority
	}
	if req.DueDate != nil {
		due, _ := parseDueDate(*req.DueDate)
		patch.DueDate = &due
	}

	task, err := h.tasks.Update(c.UserContext(), c.Params("id"), middleware.UserID(c), patch)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(task)
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	if err := h.tasks.Delete(c.UserContext(), c.Params("id"), middleware.UserID(c)); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Search handles GET /tasks/search?title=.
func (h *TaskHandler) Search(c *fiber.Ctx) error {
	tasks, err := h.tasks.Search(c.UserContext(), middleware.UserID(c), c.Query("title"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

// Filter handles GET /tasks/filter?status=&priority=.
func (h *TaskHandler) Filter(c *fiber.Ctx) error {
	var q filterTasksQuery
	if err := bindQuery(c, h.validate, &q); err != nil {
		return err
	}

	tasks, err := h.tasks.Filter(c.UserContext(), middleware.UserID(c), models.Status(q.Status), models.Priority(q.Priority))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}
