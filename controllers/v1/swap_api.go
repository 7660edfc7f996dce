package apiv1

import (
	"mfg-ops-backend/controllers"
	swaphandler "mfg-ops-backend/lib/swap"
	"mfg-ops-backend/middleware"
	apimodels "mfg-ops-backend/models/api"
	orgapimodels "mfg-ops-backend/models/api/org"

	"github.com/gofiber/fiber/v2"
)

type swapApiController struct {
	controllers.BaseAPIController
}

func InitSwapApiRouters(app *fiber.App) {
	controller := swapApiController{}
	app.Route("swaps", func(router fiber.Router) {
		router.Get(":id", controller.swapGet)
		router.Post("list", controller.swapList)
		router.Use(middleware.CompanyAdminRequired())
		router.Post("", controller.swapRun)
	})
}

// @Summary Ротация занимающих должности
// @Tags Ротация
// @Description Атомарный обмен сотрудников между двумя должностями с переназначением рабочих элементов
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 orgapimodels.SwapData	true	"request body"
// @Success 200 {object} apimodels.Response{data=orgapimodels.SwapView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/swaps [post]
func (c *swapApiController) swapRun(ctx *fiber.Ctx) error {
	var payload orgapimodels.SwapData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	requestedBy := middleware.GetUserID(ctx)
	view, err := swaphandler.Instance.Swap(ctx.Context(), companyID, payload, requestedBy)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Получение ротации по ИД
// @Tags Ротация
// @Description Состояние и детали переназначения
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"swap ID"
// @Success 200 {object} apimodels.Response{data=orgapimodels.SwapView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/swaps/{id} [get]
func (c *swapApiController) swapGet(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	view, err := swaphandler.Instance.Get(companyID, id)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary Список ротаций
// @Tags Ротация
// @Description Список ротаций компании, от новых к старым
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]orgapimodels.SwapView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/swaps/list [post]
func (c *swapApiController) swapList(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	list, rowCount, err := swaphandler.Instance.List(companyID, payload)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}
