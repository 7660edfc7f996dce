package dbmodels

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDelegation(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	rec := Delegation{
		BaseCompanyModel: BaseCompanyModel{
			CompanyID: "c1",
		},
		DelegatorPositionID: "p1",
		DelegatorUserID:     "user-a",
		DelegateUserID:      "user-b",
		StartAt:             start,
		EndAt:               end,
	}

	t.Run(`start is inside the interval, end is not`, func(t *testing.T) {
		require.True(t, rec.Covers(start))
		require.True(t, rec.Covers(end.Add(-time.Second)))
		require.False(t, rec.Covers(end))
		require.False(t, rec.Covers(start.Add(-time.Second)))
		require.False(t, rec.Covers(end.Add(time.Hour)))
	})

	t.Run(`valid record passes`, func(t *testing.T) {
		valid := rec
		require.Nil(t, valid.Validate())
	})

	t.Run(`delegation to self is rejected`, func(t *testing.T) {
		bad := rec
		bad.DelegateUserID = bad.DelegatorUserID
		require.NotNil(t, bad.Validate())
	})

	t.Run(`end before start is rejected`, func(t *testing.T) {
		bad := rec
		bad.EndAt = bad.StartAt
		require.NotNil(t, bad.Validate())
		bad.EndAt = bad.StartAt.Add(-time.Hour)
		require.NotNil(t, bad.Validate())
	})

	t.Run(`empty references are rejected`, func(t *testing.T) {
		for _, clear := range []func(d *Delegation){
			func(d *Delegation) { d.DelegatorPositionID = "" },
			func(d *Delegation) { d.DelegatorUserID = "" },
			func(d *Delegation) { d.DelegateUserID = "" },
		} {
			bad := rec
			clear(&bad)
			require.NotNil(t, bad.Validate())
		}
	})
}
