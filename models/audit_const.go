package models

type AuditAction string

const (
	AuditActionAssignmentCreated  AuditAction = "ASSIGNMENT_CREATED"
	AuditActionAssignmentEnded    AuditAction = "ASSIGNMENT_ENDED"
	AuditActionDelegationActivated AuditAction = "DELEGATION_ACTIVATED"
	AuditActionDelegationRevoked  AuditAction = "DELEGATION_REVOKED"
	AuditActionDelegationExpired  AuditAction = "DELEGATION_EXPIRED"
	AuditActionSwapInitiated      AuditAction = "SWAP_INITIATED"
	AuditActionSwapAssignments    AuditAction = "SWAP_ASSIGNMENTS_CHANGED"
	AuditActionSwapCompleted      AuditAction = "SWAP_COMPLETED"
	AuditActionSwapFailed         AuditAction = "SWAP_FAILED"
)

var auditActionHumanName = map[AuditAction]string{
	AuditActionAssignmentCreated:   "Создано назначение на должность",
	AuditActionAssignmentEnded:     "Завершено назначение на должность",
	AuditActionDelegationActivated: "Активировано делегирование",
	AuditActionDelegationRevoked:   "Отозвано делегирование",
	AuditActionDelegationExpired:   "Истекло делегирование",
	AuditActionSwapInitiated:       "Запущена ротация должностей",
	AuditActionSwapAssignments:     "Изменены назначения при ротации",
	AuditActionSwapCompleted:       "Ротация завершена",
	AuditActionSwapFailed:          "Ротация завершилась с ошибками",
}

func (a AuditAction) ToHuman() string {
	if human, exist := auditActionHumanName[a]; exist {
		return human
	}
	return string(a)
}
