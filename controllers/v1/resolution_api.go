package apiv1

import (
	"time"

	"mfg-ops-backend/controllers"
	resolutionhandler "mfg-ops-backend/lib/resolution"
	"mfg-ops-backend/middleware"
	apimodels "mfg-ops-backend/models/api"
	orgapimodels "mfg-ops-backend/models/api/org"

	"github.com/gofiber/fiber/v2"
)

type resolutionApiController struct {
	controllers.BaseAPIController
}

func InitResolutionApiRouters(app *fiber.App) {
	controller := resolutionApiController{}
	app.Route("positions/:id/resolve", func(router fiber.Router) {
		router.Get("", controller.resolvePosition)
	})
	app.Route("resolve", func(router fiber.Router) {
		router.Post("work_item", controller.resolveWorkItem)
		router.Post("batch", controller.resolveBatch)
	})
}

// @Summary Фактический исполнитель должности
// @Tags Разрешение исполнителя
// @Description Фактический исполнитель с учётом делегирования, опционально на момент времени
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"position ID"
// @Param	at					query	string	false	"момент времени в формате RFC3339"
// @Success 200 {object} apimodels.Response{data=orgapimodels.EffectiveAssignment}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/positions/{id}/resolve [get]
func (c *resolutionApiController) resolvePosition(ctx *fiber.Ctx) error {
	positionID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	atParam := ctx.Query("at", "")
	var rec *orgapimodels.EffectiveAssignment
	if atParam == "" {
		rec, err = resolutionhandler.Instance.Resolve(ctx.Context(), companyID, positionID)
	} else {
		at, parseErr := time.Parse(time.RFC3339, atParam)
		if parseErr != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError("некорректный формат параметра at, ожидается RFC3339"))
		}
		rec, err = resolutionhandler.Instance.ResolveAt(ctx.Context(), companyID, positionID, at)
	}
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	if rec == nil {
		// должность вакантна
		return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(rec))
}

// @Summary Контекст назначения рабочего элемента
// @Tags Разрешение исполнителя
// @Description Фактический исполнитель рабочего элемента с цепочкой делегирования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 orgapimodels.WorkItemRef	true	"request body"
// @Success 200 {object} apimodels.Response{data=orgapimodels.WorkItemAssignmentContext}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/resolve/work_item [post]
func (c *resolutionApiController) resolveWorkItem(ctx *fiber.Ctx) error {
	var payload orgapimodels.WorkItemRef
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	result := resolutionhandler.Instance.ResolveWorkItem(ctx.Context(), companyID, payload)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Пакетное разрешение исполнителей
// @Tags Разрешение исполнителя
// @Description Фактические исполнители списка рабочих элементов, порядок сохраняется
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 orgapimodels.BatchResolveData	true	"request body"
// @Success 200 {object} apimodels.Response{data=[]orgapimodels.WorkItemAssignmentContext}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/resolve/batch [post]
func (c *resolutionApiController) resolveBatch(ctx *fiber.Ctx) error {
	var payload orgapimodels.BatchResolveData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	result := resolutionhandler.Instance.ResolveMany(ctx.Context(), companyID, payload.Items)
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}
