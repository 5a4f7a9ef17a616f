package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonkvalheim/bankist/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestManager(t *testing.T, idle time.Duration) (*Manager, *fakeClock) {
	t.Helper()
	c, _ := newTestController(t)
	clock := &fakeClock{now: fixedNow}
	return NewManager(c, idle).WithClock(clock.Now), clock
}

func TestManager_LoginCreatesSession(t *testing.T) {
	m, _ := newTestManager(t, 5*time.Minute)

	id, view, err := m.Login(context.Background(), "js", "1111")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, "js", view.Username)
	assert.Equal(t, 1, m.Count())

	state, err := m.State(id)
	require.NoError(t, err)
	assert.Equal(t, State{Username: "js"}, state)
}

func TestManager_FailedLoginCreatesNothing(t *testing.T) {
	m, _ := newTestManager(t, 5*time.Minute)

	id, _, err := m.Login(context.Background(), "js", "9999")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	assert.Equal(t, uuid.Nil, id)
	assert.Zero(t, m.Count())
}

func TestManager_SortIsPerSession(t *testing.T) {
	m, _ := newTestManager(t, 5*time.Minute)
	ctx := context.Background()

	a, _, err := m.Login(ctx, "js", "1111")
	require.NoError(t, err)
	b, _, err := m.Login(ctx, "js", "1111")
	require.NoError(t, err)

	view, err := m.ToggleSort(ctx, a)
	require.NoError(t, err)
	assert.True(t, view.Sorted)

	view, err = m.View(b)
	require.NoError(t, err)
	assert.False(t, view.Sorted)

	view, err = m.View(a)
	require.NoError(t, err)
	assert.True(t, view.Sorted)
}

func TestManager_TransferAndLoan(t *testing.T) {
	m, _ := newTestManager(t, 5*time.Minute)
	ctx := context.Background()

	id, _, err := m.Login(ctx, "js", "1111")
	require.NoError(t, err)

	view, err := m.Transfer(ctx, id, model.TransferRequest{To: "jd", Amount: dec("40")})
	require.NoError(t, err)
	assert.True(t, view.Summary.Balance.Equal(dec("3800")))

	view, err = m.RequestLoan(ctx, id, model.LoanRequest{Amount: dec("200")})
	require.NoError(t, err)
	assert.True(t, view.Summary.Balance.Equal(dec("4000")))

	_, err = m.Transfer(ctx, id, model.TransferRequest{To: "jd", Amount: dec("1000000")})
	assert.ErrorIs(t, err, model.ErrInsufficientFunds)
	assert.Equal(t, 1, m.Count(), "a rejected transition keeps the session")
}

func TestManager_UnknownSession(t *testing.T) {
	m, _ := newTestManager(t, 5*time.Minute)

	_, err := m.View(uuid.New())
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	assert.ErrorIs(t, m.Logout(context.Background(), uuid.New()), model.ErrSessionNotFound)
}

func TestManager_Logout(t *testing.T) {
	m, _ := newTestManager(t, 5*time.Minute)
	ctx := context.Background()

	id, _, err := m.Login(ctx, "js", "1111")
	require.NoError(t, err)

	require.NoError(t, m.Logout(ctx, id))
	assert.Zero(t, m.Count())

	_, err = m.View(id)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestManager_CloseEndsSessions(t *testing.T) {
	m, _ := newTestManager(t, 5*time.Minute)
	ctx := context.Background()

	closer, _, err := m.Login(ctx, "stw", "3333")
	require.NoError(t, err)
	other, _, err := m.Login(ctx, "stw", "3333")
	require.NoError(t, err)

	err = m.Close(ctx, closer, model.CloseRequest{Username: "stw", PIN: "1111"})
	assert.ErrorIs(t, err, model.ErrCloseMismatch)
	assert.Equal(t, 2, m.Count())

	require.NoError(t, m.Close(ctx, closer, model.CloseRequest{Username: "stw", PIN: "3333"}))
	assert.Equal(t, 1, m.Count())

	_, err = m.View(other)
	assert.ErrorIs(t, err, model.ErrNotLoggedIn)
	assert.Zero(t, m.Count(), "sessions on a closed account are dropped on next use")
}

func TestManager_IdleExpiry(t *testing.T) {
	m, clock := newTestManager(t, 5*time.Minute)
	ctx := context.Background()

	id, _, err := m.Login(ctx, "js", "1111")
	require.NoError(t, err)

	clock.Advance(4 * time.Minute)
	_, err = m.View(id)
	require.NoError(t, err, "activity resets the idle timer")

	clock.Advance(4 * time.Minute)
	_, err = m.View(id)
	require.NoError(t, err)

	clock.Advance(5*time.Minute + time.Second)
	_, err = m.View(id)
	assert.ErrorIs(t, err, model.ErrSessionExpired)

	_, err = m.View(id)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestManager_Sweep(t *testing.T) {
	m, clock := newTestManager(t, 5*time.Minute)
	ctx := context.Background()

	stale, _, err := m.Login(ctx, "js", "1111")
	require.NoError(t, err)
	clock.Advance(3 * time.Minute)
	fresh, _, err := m.Login(ctx, "jd", "2222")
	require.NoError(t, err)
	clock.Advance(3 * time.Minute)

	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Count())

	_, err = m.State(stale)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
	_, err = m.State(fresh)
	assert.NoError(t, err)
}

func TestManager_NoIdleTimeout(t *testing.T) {
	m, clock := newTestManager(t, 0)

	id, _, err := m.Login(context.Background(), "js", "1111")
	require.NoError(t, err)

	clock.Advance(24 * time.Hour)
	assert.Zero(t, m.Sweep())
	_, err = m.View(id)
	assert.NoError(t, err)
}

func TestManager_StartRejectsBadSchedule(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	assert.Error(t, m.Start("every now and then"))
	m.Stop()
}

func TestManager_StartStop(t *testing.T) {
	m, _ := newTestManager(t, time.Minute)
	require.NoError(t, m.Start("@every 1h"))
	m.Stop()
}
