package orgapimodels

import (
	"time"

	"mfg-ops-backend/models"
	dbmodels "mfg-ops-backend/models/db"

	"github.com/pkg/errors"
)

// EffectiveAssignment - результат разрешения фактического исполнителя,
// вычисляется на лету и может кэшироваться
type EffectiveAssignment struct {
	PositionID         string    `json:"position_id"`
	UserID             string    `json:"user_id"`
	IsDelegated        bool      `json:"is_delegated"`
	DelegationID       string    `json:"delegation_id,omitempty"`
	DelegationReason   string    `json:"delegation_reason,omitempty"`
	SourceAssignmentID string    `json:"source_assignment_id,omitempty"`
	SourceUserID       string    `json:"source_user_id,omitempty"` // занимающий должность по журналу, без учёта делегирования
	ResolvedAt         time.Time `json:"resolved_at"`
	ResolutionTimeMs   int64     `json:"resolution_time_ms"`
}

type WorkItemRef struct {
	ItemType   models.WorkItemType `json:"item_type"`
	ItemID     string              `json:"item_id"`
	PositionID string              `json:"position_id"`
	UserID     string              `json:"user_id"` // исходный исполнитель, используется как fallback
}

func (r WorkItemRef) Validate() error {
	if !r.ItemType.IsValid() {
		return errors.New("неизвестный тип рабочего элемента")
	}
	if r.ItemID == "" {
		return errors.New("не указан рабочий элемент")
	}
	return nil
}

type WorkItemAssignmentContext struct {
	ItemType              models.WorkItemType             `json:"item_type"`
	ItemID                string                          `json:"item_id"`
	OriginalPositionID    string                          `json:"original_position_id"`
	OriginalUserID        string                          `json:"original_user_id"`
	EffectivePositionID   string                          `json:"effective_position_id"`
	EffectiveUserID       string                          `json:"effective_user_id"`
	EffectiveAssignmentID string                          `json:"effective_assignment_id,omitempty"`
	DelegationChain       []dbmodels.DelegationChainEntry `json:"delegation_chain"`
	ResolvedAt            time.Time                       `json:"resolved_at"`
	ResolutionTimeMs      int64                           `json:"resolution_time_ms"`
	UsedCache             bool                            `json:"used_cache"`
}

type BatchResolveData struct {
	Items []WorkItemRef `json:"items"`
}

func (b BatchResolveData) Validate() error {
	if len(b.Items) == 0 {
		return errors.New("пустой список рабочих элементов")
	}
	for _, item := range b.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	return nil
}
