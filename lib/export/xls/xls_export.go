package xlsexport

import (
	"bytes"

	orgapimodels "mfg-ops-backend/models/api/org"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

type Provider interface {
	ExportAssignmentHistory(list []orgapimodels.AssignmentView) (*bytes.Buffer, error)
	ExportAuditLog(list []orgapimodels.AuditEntryView) (*bytes.Buffer, error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{}
}

type impl struct{}

var historyHeaders = []string{"Сотрудник", "Тип назначения", "Дата начала", "Дата окончания", "Статус", "Основание", "Кем создано"}

func (i impl) ExportAssignmentHistory(list []orgapimodels.AssignmentView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, historyHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		row, err = writeHistoryData(f, sheet, list, row)
		if err != nil {
			return nil, errors.Wrap(err, "ошибка формирования таблицы с данными в xlsx")
		}
	}
	f.SetSheetName(sheet, "История назначений")
	return f.WriteToBuffer()
}

func writeHistoryData(f *excelize.File, sheet string, list []orgapimodels.AssignmentView, row int) (int, error) {
	if err := applyDataCellStyle(f, sheet, 1, row+1, len(historyHeaders), len(list)+1); err != nil {
		return row, err
	}
	for _, item := range list {
		row++
		// "Сотрудник"
		col := 1
		if err := writeColumn(f, sheet, col, row, item.UserID); err != nil {
			return row, err
		}

		// "Тип назначения"
		col++
		if err := writeColumn(f, sheet, col, row, item.TypeName); err != nil {
			return row, err
		}

		// "Дата начала"
		col++
		if err := writeColumn(f, sheet, col, row, item.StartAt.Format("02.01.2006")); err != nil {
			return row, err
		}

		// "Дата окончания"
		col++
		if item.EndAt != nil {
			if err := writeColumn(f, sheet, col, row, item.EndAt.Format("02.01.2006")); err != nil {
				return row, err
			}
		}

		// "Статус"
		col++
		if err := writeColumn(f, sheet, col, row, string(item.Status)); err != nil {
			return row, err
		}

		// "Основание"
		col++
		if err := writeColumn(f, sheet, col, row, item.Reason); err != nil {
			return row, err
		}

		// "Кем создано"
		col++
		if err := writeColumn(f, sheet, col, row, item.CreatedBy); err != nil {
			return row, err
		}
	}
	return row, nil
}

var auditHeaders = []string{"Номер", "Дата", "Действие", "Инициатор", "Объект", "ИД объекта"}

func (i impl) ExportAuditLog(list []orgapimodels.AuditEntryView) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Error("ошибка закрытия файла")
		}
	}()
	sheet := "Sheet1"
	row := 0
	row, err := writeHeader(f, sheet, row, auditHeaders)
	if err != nil {
		return nil, errors.Wrap(err, "ошибка формирования заголовка в xlsx")
	}
	if len(list) != 0 {
		if err = applyDataCellStyle(f, sheet, 1, row+1, len(auditHeaders), len(list)+1); err != nil {
			return nil, err
		}
		for _, item := range list {
			row++
			col := 1
			if err = writeColumn(f, sheet, col, row, item.Sequence); err != nil {
				return nil, err
			}
			col++
			if err = writeColumn(f, sheet, col, row, item.CreatedAt); err != nil {
				return nil, err
			}
			col++
			if err = writeColumn(f, sheet, col, row, item.ActionName); err != nil {
				return nil, err
			}
			col++
			if err = writeColumn(f, sheet, col, row, item.Actor); err != nil {
				return nil, err
			}
			col++
			if err = writeColumn(f, sheet, col, row, item.ObjectType); err != nil {
				return nil, err
			}
			col++
			if err = writeColumn(f, sheet, col, row, item.ObjectID); err != nil {
				return nil, err
			}
		}
	}
	f.SetSheetName(sheet, "Журнал аудита")
	return f.WriteToBuffer()
}
