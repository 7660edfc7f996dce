package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkItemType(t *testing.T) {
	t.Run(`every known type has open statuses`, func(t *testing.T) {
		for _, itemType := range []WorkItemType{
			WorkItemTypeTask,
			WorkItemTypeProject,
			WorkItemTypeApproval,
			WorkItemTypeQualityCheck,
			WorkItemTypeSafetyInspection,
		} {
			require.True(t, itemType.IsValid())
			require.NotEmpty(t, itemType.OpenStatuses())
			require.NotEqual(t, string(itemType), itemType.ToHuman())
		}
	})

	t.Run(`unknown type`, func(t *testing.T) {
		unknown := WorkItemType("shipment")
		require.False(t, unknown.IsValid())
		require.Empty(t, unknown.OpenStatuses())
		require.Equal(t, "shipment", unknown.ToHuman())
	})

	t.Run(`open statuses by type`, func(t *testing.T) {
		require.True(t, WorkItemTypeTask.IsOpenStatus(WorkItemStatusAssigned))
		require.True(t, WorkItemTypeTask.IsOpenStatus(WorkItemStatusInProgress))
		require.False(t, WorkItemTypeTask.IsOpenStatus(WorkItemStatusOnHold))
		require.True(t, WorkItemTypeProject.IsOpenStatus(WorkItemStatusOnHold))
		require.True(t, WorkItemTypeApproval.IsOpenStatus(WorkItemStatusPending))
		require.False(t, WorkItemTypeApproval.IsOpenStatus(WorkItemStatusAssigned))
	})

	t.Run(`terminal statuses are never open`, func(t *testing.T) {
		for itemType := range openStatusesByType {
			for _, status := range []WorkItemStatus{
				WorkItemStatusCompleted,
				WorkItemStatusCancelled,
				WorkItemStatusRejected,
			} {
				require.False(t, itemType.IsOpenStatus(status))
			}
		}
	})
}
