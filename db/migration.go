package db

import (
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Department{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Department")
	}
	if err := DB.AutoMigrate(&dbmodels.Position{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Position")
	}
	if err := DB.AutoMigrate(&dbmodels.PositionAssignment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры PositionAssignment")
	}
	if err := DB.AutoMigrate(&dbmodels.Delegation{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Delegation")
	}
	if err := DB.AutoMigrate(&dbmodels.OccupantSwapRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры OccupantSwapRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.OrgAuditLogEntry{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры OrgAuditLogEntry")
	}
	if err := DB.AutoMigrate(&dbmodels.ProjectTask{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ProjectTask")
	}
	if err := DB.AutoMigrate(&dbmodels.Project{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Project")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalRequest{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры ApprovalRequest")
	}
	if err := DB.AutoMigrate(&dbmodels.QualityCheck{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры QualityCheck")
	}
	if err := DB.AutoMigrate(&dbmodels.SafetyInspection{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры SafetyInspection")
	}
	if err := createOrgIndexes(); err != nil {
		return err
	}
	log.Info("Миграция прошла успешно")
	return nil
}

// Частичные и составные индексы, которые gorm не умеет описывать тегами.
func createOrgIndexes() error {
	statements := []string{
		// не более одного активного назначения на должность
		"CREATE UNIQUE INDEX IF NOT EXISTS uidx_position_assignments_active ON position_assignments (position_id) WHERE status = 'active'",
		"CREATE UNIQUE INDEX IF NOT EXISTS uidx_departments_company_code ON departments (company_id, code)",
		"CREATE UNIQUE INDEX IF NOT EXISTS uidx_positions_company_code ON positions (company_id, code)",
	}
	for _, stmt := range statements {
		if err := DB.Exec(stmt).Error; err != nil {
			return errors.Wrap(err, "ошибка создания индекса")
		}
	}
	return nil
}
