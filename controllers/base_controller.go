package controllers

import (
	"mfg-ops-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type BaseAPIController struct{}

func (c *BaseAPIController) BodyParser(ctx *fiber.Ctx, out interface{}) error {
	if err := ctx.BodyParser(out); err != nil {
		log.WithError(err).Error("ошибка распознавания запроса")
		return errors.New("не удалось получить данные из запроса")
	}
	return nil
}

func (c *BaseAPIController) GetID(ctx *fiber.Ctx) (string, error) {
	return c.GetPathParam(ctx, "id")
}

func (c *BaseAPIController) GetPathParam(ctx *fiber.Ctx, name string) (string, error) {
	value := ctx.Params(name, "")
	if value == "" {
		return "", errors.Errorf("не указан параметр %s", name)
	}
	if _, err := uuid.Parse(value); err != nil {
		return "", errors.Errorf("некорректный идентификатор %s", name)
	}
	return value, nil
}

// StatusByError - http статус по типу ошибки обработчика
func StatusByError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrInvalidState):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
