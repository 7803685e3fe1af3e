package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finance-tracker/recurring-payments/internal/application/usecase/recurringpayment"
	"github.com/finance-tracker/recurring-payments/internal/application/usecase/saving"
)

type fakeSynchronizer struct {
	inputs []recurringpayment.SynchronizeAllInput
	err    error
}

func (f *fakeSynchronizer) Execute(_ context.Context, input recurringpayment.SynchronizeAllInput) (*recurringpayment.SynchronizeAllOutput, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return &recurringpayment.SynchronizeAllOutput{}, nil
}

type fakeAccruer struct {
	inputs []saving.AccrueMonthlySavingsInput
}

func (f *fakeAccruer) Execute(_ context.Context, input saving.AccrueMonthlySavingsInput) (*saving.AccrueMonthlySavingsOutput, error) {
	f.inputs = append(f.inputs, input)
	return &saving.AccrueMonthlySavingsOutput{Recorded: 1}, nil
}

func TestSyncWorker_RunOnce(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)
	config := SyncWorkerConfig{Interval: time.Minute, HorizonMonths: 6, Concurrency: 3}

	t.Run("synchronizes and accrues the current month", func(t *testing.T) {
		sync := &fakeSynchronizer{}
		accrue := &fakeAccruer{}
		w := NewSyncWorker(sync, accrue, config)
		w.now = func() time.Time { return now }

		w.RunOnce(context.Background())

		require.Len(t, sync.inputs, 1)
		assert.Equal(t, 6, sync.inputs[0].HorizonMonths)
		assert.Equal(t, 3, sync.inputs[0].Concurrency)
		assert.Equal(t, now, *sync.inputs[0].ReferenceDate)

		require.Len(t, accrue.inputs, 1)
		assert.Equal(t, 2025, accrue.inputs[0].Year)
		assert.Equal(t, time.March, accrue.inputs[0].Month)
		assert.Empty(t, accrue.inputs[0].DefinitionIDs)
	})

	t.Run("skips accrual when synchronization fails", func(t *testing.T) {
		sync := &fakeSynchronizer{err: errors.New("database unavailable")}
		accrue := &fakeAccruer{}
		w := NewSyncWorker(sync, accrue, config)

		w.RunOnce(context.Background())

		assert.Len(t, sync.inputs, 1)
		assert.Empty(t, accrue.inputs)
	})

	t.Run("runs without an accruer", func(t *testing.T) {
		sync := &fakeSynchronizer{}
		w := NewSyncWorker(sync, nil, config)

		assert.NotPanics(t, func() { w.RunOnce(context.Background()) })
		assert.Len(t, sync.inputs, 1)
	})
}

func TestSyncWorker_Start(t *testing.T) {
	sync := &fakeSynchronizer{}
	w := NewSyncWorker(sync, nil, SyncWorkerConfig{Interval: time.Hour, HorizonMonths: 12})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
	assert.Len(t, sync.inputs, 1)
}
