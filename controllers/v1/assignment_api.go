package apiv1

import (
	"fmt"
	"time"

	"mfg-ops-backend/controllers"
	assignmenthandler "mfg-ops-backend/lib/assignment"
	xlsexport "mfg-ops-backend/lib/export/xls"
	"mfg-ops-backend/middleware"
	apimodels "mfg-ops-backend/models/api"
	orgapimodels "mfg-ops-backend/models/api/org"

	"github.com/gofiber/fiber/v2"
)

type assignmentApiController struct {
	controllers.BaseAPIController
}

func InitAssignmentApiRouters(app *fiber.App) {
	controller := assignmentApiController{}
	app.Route("positions/:id/assignments", func(router fiber.Router) {
		router.Post("history", controller.assignmentHistory)
		router.Get("export", controller.assignmentExport)
		router.Use(middleware.CompanyAdminRequired())
		router.Post("", controller.assignmentCreate)
	})
	app.Route("assignments", func(router fiber.Router) {
		router.Use(middleware.CompanyAdminRequired())
		router.Put(":id/end", controller.assignmentEnd)
	})
}

// @Summary Назначение сотрудника на должность
// @Tags Назначения
// @Description Завершает текущее активное назначение и создаёт новое
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"position ID"
// @Param	body body	 orgapimodels.AssignmentData	true	"request body"
// @Success 200 {object} apimodels.Response{data=orgapimodels.AssignmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/positions/{id}/assignments [post]
func (c *assignmentApiController) assignmentCreate(ctx *fiber.Ctx) error {
	positionID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload orgapimodels.AssignmentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	actor := middleware.GetUserID(ctx)
	view, err := assignmenthandler.Instance.Assign(companyID, positionID, payload, actor)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(view))
}

// @Summary История назначений должности
// @Tags Назначения
// @Description Полная история назначений, от новых к старым
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"position ID"
// @Param	body body	 apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]orgapimodels.AssignmentView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/positions/{id}/assignments/history [post]
func (c *assignmentApiController) assignmentHistory(ctx *fiber.Ctx) error {
	positionID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload apimodels.Pagination
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	list, rowCount, err := assignmenthandler.Instance.GetHistory(companyID, positionID, payload)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Завершение назначения
// @Tags Назначения
// @Description Завершает назначение, должность становится вакантной
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"assignment ID"
// @Param	body body	 orgapimodels.EndAssignmentData	true	"request body"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/assignments/{id}/end [put]
func (c *assignmentApiController) assignmentEnd(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	var payload orgapimodels.EndAssignmentData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	actor := middleware.GetUserID(ctx)
	err = assignmenthandler.Instance.End(companyID, id, payload.EndAt, actor)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary История назначений. Выгрузить в Excel
// @Tags Назначения
// @Description История назначений должности. Выгрузить в Excel
// @Param   Authorization		header		string	true	"Authorization token"
// @Param   id          		path    string  true	"position ID"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/positions/{id}/assignments/export [get]
func (c *assignmentApiController) assignmentExport(ctx *fiber.Ctx) error {
	positionID, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	list, _, err := assignmenthandler.Instance.GetHistory(companyID, positionID, apimodels.Pagination{Page: 1, Limit: 100})
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	data, err := xlsexport.Instance.ExportAssignmentHistory(list)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	fileName := fmt.Sprintf("assignments-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
