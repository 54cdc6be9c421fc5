package handlers

import (
	"dataset-assistant/internal/application/port/output"
	"dataset-assistant/internal/domain/entity"
	"dataset-assistant/internal/transport/http/middleware"
	"dataset-assistant/internal/usecase/assistant"

	"github.com/gofiber/fiber/v2"
)

const MessageUnknownTask = "Unknown task."

type TaskHandler struct {
	registry output.TaskRegistry
	samples  *assistant.Samples
	logger   output.LoggerPort
}

func NewTaskHandler(registry output.TaskRegistry, samples *assistant.Samples, logger output.LoggerPort) *TaskHandler {
	return &TaskHandler{
		registry: registry,
		samples:  samples,
		logger:   logger,
	}
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.registry.List())
}

func (h *TaskHandler) Describe(c *fiber.Ctx) error {
	task, ok := h.registry.Get(entity.TaskName(c.Params("name")))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(entity.Fail[any](MessageUnknownTask, nil))
	}
	return c.JSON(task.Info())
}

func (h *TaskHandler) Run(c *fiber.Ctx) error {
	name := entity.TaskName(c.Params("name"))
	task, ok := h.registry.Get(name)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(entity.Fail[any](MessageUnknownTask, nil))
	}

	payload, err := readPayload(c, task.Info().InputSchema)
	if err != nil {
		h.logger.Warn("Unreadable request body",
			"task", name.String(),
			"requestId", middleware.RequestIDFrom(c.UserContext()),
			"error", err.Error(),
		)
		return c.Status(fiber.StatusBadRequest).JSON(entity.Fail[any](entity.MessageInvalidInput, err))
	}

	result := task.InvokePayload(c.UserContext(), h.samples.Fill(name, payload))
	return c.Status(statusFor(result)).JSON(result)
}

func statusFor(result entity.Result[any]) int {
	failure, ok := result.(entity.Failure[any])
	if !ok {
		return fiber.StatusOK
	}
	if kind, _ := entity.KindOf(failure.Err); kind == entity.ErrKindValidation {
		return fiber.StatusBadRequest
	}
	return fiber.StatusBadGateway
}
