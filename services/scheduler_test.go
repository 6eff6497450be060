package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestReconcileSchedulerPicksUpExternalClaims(t *testing.T) {
	store := newTempStore(t)
	svc, _ := newTestRewardService(t, store)

	result, err := svc.Generate()
	require.NoError(t, err)

	sched, err := svc.StartReconcileScheduler(50 * time.Millisecond)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sched.Shutdown() })

	records := store.LoadAll().Records
	rec := records[result.Code]
	rec.Claimed = true
	rec.ClaimedBy = strPtr("frank")
	records[result.Code] = rec
	writeRecords(t, store.Path, records)

	require.Eventually(t, func() bool {
		status, err := svc.Lookup(result.Code)
		return err == nil && status.Claimed
	}, 3*time.Second, 25*time.Millisecond)
}
