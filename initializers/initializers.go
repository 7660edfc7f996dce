package initializers

import (
	"context"
	"time"

	"mfg-ops-backend/config"
	"mfg-ops-backend/fiberlog"
	assignmenthandler "mfg-ops-backend/lib/assignment"
	audithandler "mfg-ops-backend/lib/audit"
	delegationhandler "mfg-ops-backend/lib/delegation"
	delegationexpireworker "mfg-ops-backend/lib/delegation/worker"
	departmentprovider "mfg-ops-backend/lib/dicts/department"
	positionprovider "mfg-ops-backend/lib/dicts/position"
	xlsexport "mfg-ops-backend/lib/export/xls"
	notifyhandler "mfg-ops-backend/lib/notify"
	orgevents "mfg-ops-backend/lib/org-events"
	resolutionhandler "mfg-ops-backend/lib/resolution"
	resolutionmonitor "mfg-ops-backend/lib/resolution/monitor"
	swaphandler "mfg-ops-backend/lib/swap"
	workitemhandler "mfg-ops-backend/lib/work-item"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitSmtp()
	orgevents.NewHandler()
	audithandler.NewHandler()
	departmentprovider.NewHandler()
	positionprovider.NewHandler()
	assignmenthandler.NewHandler()
	delegationhandler.NewHandler()
	resolutionmonitor.NewHandler(time.Duration(config.Conf.Assignment.ResolveSlaMs) * time.Millisecond)
	resolutionhandler.NewHandler(config.Conf.Assignment.BatchParallelism)
	workitemhandler.NewHandler(time.Duration(config.Conf.Assignment.ResolveSlaMs) * time.Millisecond)
	swaphandler.NewHandler(time.Duration(config.Conf.Assignment.ReassignTimeoutSec) * time.Second)
	notifyhandler.NewHandler(config.Conf.Smtp.User, config.Conf.Smtp.OpsEmail)
	xlsexport.NewHandler()
	go initWorkers(ctx)
}

func initWorkers(ctx context.Context) {
	// Задача перевода просроченных делегирований в статус expired
	delegationexpireworker.StartWorker(ctx)
}
