package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	updated int64
	err     error
	calls   atomic.Int32
}

func (s *fakeStore) ReconcileAll(context.Context) (int64, error) {
	s.calls.Add(1)
	return s.updated, s.err
}

type fakeInvalidator struct{ calls int }

func (f *fakeInvalidator) Invalidate(context.Context) error {
	f.calls++
	return nil
}

type fakePublisher struct{ keys []string }

func (p *fakePublisher) Publish(_ context.Context, key string, _ interface{}) error {
	p.keys = append(p.keys, key)
	return nil
}

func (p *fakePublisher) Close() {}

func TestRunInvalidatesAndPublishesOnChange(t *testing.T) {
	store := &fakeStore{updated: 3}
	inv := &fakeInvalidator{}
	pub := &fakePublisher{}

	n, err := NewReconciler(store, inv, pub).Run(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, 1, inv.calls)
	assert.Equal(t, []string{"user.aggregates.updated"}, pub.keys)
}

func TestRunWithoutDriftIsQuiet(t *testing.T) {
	inv := &fakeInvalidator{}
	pub := &fakePublisher{}

	n, err := NewReconciler(&fakeStore{}, inv, pub).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, inv.calls)
	assert.Empty(t, pub.keys)
}

func TestRunReturnsStoreError(t *testing.T) {
	_, err := NewReconciler(&fakeStore{err: errors.New("db down")}, &fakeInvalidator{}, nil).Run(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestStartDisabledAndInvalid(t *testing.T) {
	c, err := Start("", NewReconciler(&fakeStore{}, &fakeInvalidator{}, nil))
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = Start("not a schedule", NewReconciler(&fakeStore{}, &fakeInvalidator{}, nil))
	assert.Error(t, err)
}

func TestStartRunsOnSchedule(t *testing.T) {
	store := &fakeStore{}
	c, err := Start("@every 1s", NewReconciler(store, &fakeInvalidator{}, nil))
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Stop(ctx, c)
	}()

	require.Eventually(t, func() bool { return store.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
