package apiv1

import (
	"fmt"
	"time"

	"mfg-ops-backend/controllers"
	audithandler "mfg-ops-backend/lib/audit"
	xlsexport "mfg-ops-backend/lib/export/xls"
	resolutionmonitor "mfg-ops-backend/lib/resolution/monitor"
	"mfg-ops-backend/middleware"
	apimodels "mfg-ops-backend/models/api"

	"github.com/gofiber/fiber/v2"
)

type monitorApiController struct {
	controllers.BaseAPIController
}

func InitMonitorApiRouters(app *fiber.App) {
	controller := monitorApiController{}
	app.Route("monitor", func(router fiber.Router) {
		router.Get("stats", controller.monitorStats)
	})
	app.Route("audit", func(router fiber.Router) {
		router.Post("list", controller.auditList)
		router.Get("export", controller.auditExport)
	})
}

// @Summary Метрики разрешения исполнителей
// @Tags Мониторинг
// @Description Статистика по последним операциям разрешения
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200 {object} apimodels.Response{data=orgapimodels.MonitorStatsView}
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/monitor/stats [get]
func (c *monitorApiController) monitorStats(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(resolutionmonitor.Instance.Stats()))
}

// @Summary Журнал аудита
// @Tags Мониторинг
// @Description Журнал изменений журнала назначений, от новых к старым
// @Param   Authorization		header		string	true	"Authorization token"
// @Param	body body	 apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]orgapimodels.AuditEntryView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/audit/list [post]
func (c *monitorApiController) auditList(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	companyID := middleware.GetUserCompany(ctx)
	page, limit := payload.GetPage()
	list, rowCount, err := audithandler.Instance.List(companyID, page, limit)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Журнал аудита. Выгрузить в Excel
// @Tags Мониторинг
// @Description Журнал аудита. Выгрузить в Excel
// @Param   Authorization		header		string	true	"Authorization token"
// @Success 200
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/org/audit/export [get]
func (c *monitorApiController) auditExport(ctx *fiber.Ctx) error {
	companyID := middleware.GetUserCompany(ctx)
	list, _, err := audithandler.Instance.List(companyID, 1, 1000)
	if err != nil {
		return ctx.Status(controllers.StatusByError(err)).JSON(apimodels.NewError(err.Error()))
	}
	data, err := xlsexport.Instance.ExportAuditLog(list)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(apimodels.NewError(err.Error()))
	}
	fileName := fmt.Sprintf("audit-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set("Content-Type", "application/vnd.ms-excel")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}
