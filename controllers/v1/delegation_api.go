package apiv1

import (
	"mfg-ops-backend/controllers"
	delegationhandler "mfg-ops-backend/lib/delegation"
	"mfg-ops-backend/middleware"
	apimodels "mfg-ops-backend/models/api"
	orgapimodels "mfg-ops-backend/models/api/org"

	"github.com/gofiber/fiber/v2"
)

type delegationApiController struct {
	controllers.BaseAPIController
}

func InitDelegationApiRouters(app *fiber.App) {
	controller := delegationApiController{}
	app.Route("delegations", func(router fiber.Router) {
		router.Use(middleware.CompanyAdminRequired())
		router.Post("", controller.delegationActivate)
		router.Put(":id/revoke", controller.delegationRevoke)
	})
	app.Route("positions/:id/delegations", func(router fiber.Router) {
		router.Get("", controller.delegationList)
	})
}

// @Summary Активация делегирования
// @Tags Делегирование
// @Description Временная передача полномочий должности другому сотруднику
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 orgapimodels.DelegationData	true	"request body"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/delegations [post]
func (c *delegationApiController) delegationActivate(ctx *fiber.Ctx) error {
	var payload orgapimodels.DelegationData
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	actor := middleware.GetUserID(ctx)
	id, err := delegationhandler.Instance.Activate(companyID, payload, actor)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

// @Summary Отзыв делегирования
// @Tags Делегирование
// @Description Досрочный отзыв активного делегирования
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"delegation ID"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/delegations/{id}/revoke [put]
func (c *delegationApiController) delegationRevoke(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	actor := middleware.GetUserID(ctx)
	err = delegationhandler.Instance.Revoke(companyID, id, actor)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Список делегирований должности
// @Tags Делегирование
// @Description Все делегирования должности, от новых к старым
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"position ID"
// @Success 200 {object} apimodels.Response{data=[]orgapimodels.DelegationView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/positions/{id}/delegations [get]
func (c *delegationApiController) delegationList(ctx *fiber.Ctx) error {
	positionID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	list, err := delegationhandler.Instance.ListByPosition(companyID, positionID)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(list))
}
