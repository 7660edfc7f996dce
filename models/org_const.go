package models

type AssignmentType string

const (
	AssignmentTypePermanent AssignmentType = "permanent"
	AssignmentTypeTemporary AssignmentType = "temporary"
	AssignmentTypeActing    AssignmentType = "acting"
)

var assignmentTypeHumanName = map[AssignmentType]string{
	AssignmentTypePermanent: "Постоянное назначение",
	AssignmentTypeTemporary: "Временное назначение",
	AssignmentTypeActing:    "Исполняющий обязанности",
}

func (t AssignmentType) ToHuman() string {
	if human, exist := assignmentTypeHumanName[t]; exist {
		return human
	}
	return string(t)
}

func (t AssignmentType) IsValid() bool {
	_, exist := assignmentTypeHumanName[t]
	return exist
}

type AssignmentStatus string

const (
	AssignmentStatusActive    AssignmentStatus = "active"
	AssignmentStatusEnded     AssignmentStatus = "ended"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

type DelegationStatus string

const (
	DelegationStatusActive  DelegationStatus = "active"
	DelegationStatusRevoked DelegationStatus = "revoked"
	DelegationStatusExpired DelegationStatus = "expired"
)

type OrgUnitStatus string

const (
	OrgUnitStatusActive   OrgUnitStatus = "active"
	OrgUnitStatusInactive OrgUnitStatus = "inactive"
)

type SwapStatus string

const (
	SwapStatusPending             SwapStatus = "pending"
	SwapStatusValidating          SwapStatus = "validating"
	SwapStatusEndedOldAssignments SwapStatus = "ended_old_assignments"
	SwapStatusCreatedAssignments  SwapStatus = "created_new_assignments"
	SwapStatusReassigning         SwapStatus = "reassigning_work_items"
	SwapStatusCompleted           SwapStatus = "completed"
	SwapStatusPartialFailure      SwapStatus = "partial_failure"
	SwapStatusFailed              SwapStatus = "failed"
)

func (s SwapStatus) IsTerminal() bool {
	return s == SwapStatusCompleted || s == SwapStatusPartialFailure || s == SwapStatusFailed
}
