package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vieride/internal/booking"
)

type stubStore struct{}

func (stubStore) Save(_ context.Context, rec *booking.Record) (*booking.Record, error) {
	return rec, nil
}

func newTestWizardService() *WizardService {
	return NewWizardService(booking.DefaultCatalog(), stubStore{}, nil, nil)
}

func TestWizardSessionLifecycle(t *testing.T) {
	svc := newTestWizardService()

	id, wiz, err := svc.Create(nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.NotNil(t, wiz)

	got, err := svc.Get(id, "")
	require.NoError(t, err)
	assert.Same(t, wiz, got)

	svc.Delete(id)
	_, err = svc.Get(id, "")
	assert.Error(t, err)
}

func TestWizardSessionOwnership(t *testing.T) {
	svc := newTestWizardService()

	owner := &booking.Account{ID: "acc-1", Name: "Eva", Email: "eva@example.com"}
	id, _, err := svc.Create(owner, nil)
	require.NoError(t, err)

	_, err = svc.Get(id, "acc-2")
	assert.Error(t, err, "session must reject a different account")

	_, err = svc.Get(id, "acc-1")
	assert.NoError(t, err)
}

func TestWizardSessionSweep(t *testing.T) {
	svc := newTestWizardService()

	staleID, _, err := svc.Create(nil, nil)
	require.NoError(t, err)
	freshID, _, err := svc.Create(nil, nil)
	require.NoError(t, err)

	svc.mu.Lock()
	svc.sessions[staleID].lastSeen = time.Now().Add(-sessionTTL - time.Minute)
	svc.mu.Unlock()

	svc.SweepExpired()

	_, err = svc.Get(staleID, "")
	assert.Error(t, err, "idle session past the TTL is gone")
	_, err = svc.Get(freshID, "")
	assert.NoError(t, err, "recently touched session survives")
}
