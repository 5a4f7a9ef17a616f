// Package session mediates every user action against the account store.
//
// A Controller applies one transition at a time: it takes the caller's
// current State, checks the action against the ledger rules, mutates the
// store when the action is accepted and returns the next State with a freshly
// rendered view. A rejected action returns the input State untouched together
// with a sentinel error from the model package.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/simonkvalheim/bankist/internal/auth"
	"github.com/simonkvalheim/bankist/internal/ledger"
	"github.com/simonkvalheim/bankist/internal/model"
	"github.com/simonkvalheim/bankist/internal/render"
)

// Transition names, used for logging and metrics
const (
	ActionLogin    = "login"
	ActionTransfer = "transfer"
	ActionLoan     = "loan"
	ActionClose    = "close"
	ActionSort     = "sort"
	ActionLogout   = "logout"
)

// State is what a client holds between transitions. The zero value is
// logged out; a non-empty Username refers to an account in the store.
type State struct {
	Username string `json:"username,omitempty"`
	Sorted   bool   `json:"sorted"`
}

// LoggedIn reports whether the state refers to an account
func (s State) LoggedIn() bool {
	return s.Username != ""
}

// Accounts is the part of the account repository the controller needs
type Accounts interface {
	GetByUsername(username string) (*model.Account, error)
	AppendMovements(username string, movs ...model.Movement) error
	AppendTransfer(from, to string, debit, credit model.Movement) error
	Delete(username string) error
}

// Notifier receives every movement appended by an accepted transition
type Notifier interface {
	PublishMovement(ctx context.Context, event model.MovementEvent) error
}

// Observer is told the outcome of every transition
type Observer interface {
	Observe(action string, err error)
}

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the time source for movement stamps and the header date
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithNotifier publishes appended movements
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithObserver records transition outcomes
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// Controller serializes transitions against the account store
type Controller struct {
	mu       sync.Mutex
	accounts Accounts
	renderer *render.Renderer
	now      func() time.Time
	notifier Notifier
	observer Observer
}

// NewController creates a new Controller
func NewController(accounts Accounts, renderer *render.Renderer, opts ...Option) *Controller {
	c := &Controller{
		accounts: accounts,
		renderer: renderer,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login authenticates username and pin. On success the session starts
// unsorted on the matched account; on failure the prior state is kept.
func (c *Controller) Login(ctx context.Context, state State, username, pin string) (State, *model.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, view, err := c.login(username, pin)
	c.observe(ActionLogin, err)
	if err != nil {
		return state, nil, err
	}
	log.Info().Str("username", next.Username).Msg("User logged in")
	return next, view, nil
}

func (c *Controller) login(username, pin string) (State, *model.View, error) {
	req := model.LoginRequest{Username: username, PIN: pin}
	if err := req.Validate(); err != nil {
		return State{}, nil, err
	}

	acc, err := c.accounts.GetByUsername(req.Username)
	if err != nil {
		return State{}, nil, model.ErrInvalidCredentials
	}
	if !auth.CheckPIN(acc.PINHash, req.PIN) {
		return State{}, nil, model.ErrInvalidCredentials
	}

	next := State{Username: acc.Username}
	view := c.renderer.View(acc, next.Sorted, c.now())
	return next, &view, nil
}

// Transfer moves amount from the logged-in account to req.To
func (c *Controller) Transfer(ctx context.Context, state State, req model.TransferRequest) (State, *model.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	view, err := c.transfer(ctx, state, req)
	c.observe(ActionTransfer, err)
	if err != nil {
		return state, nil, err
	}
	return state, view, nil
}

func (c *Controller) transfer(ctx context.Context, state State, req model.TransferRequest) (*model.View, error) {
	sender, err := c.current(state)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipient, err := c.accounts.GetByUsername(req.To)
	if err != nil {
		return nil, model.ErrRecipientNotFound
	}
	if recipient.Username == sender.Username {
		return nil, model.ErrSameAccount
	}
	if !ledger.HasSufficientFunds(ledger.Balance(sender.Movements), req.Amount) {
		return nil, model.ErrInsufficientFunds
	}

	now := c.now()
	debit, credit := ledger.TransferMovements(req.Amount, now)
	if err := c.accounts.AppendTransfer(sender.Username, recipient.Username, debit, credit); err != nil {
		return nil, fmt.Errorf("failed to record transfer: %w", err)
	}

	log.Info().
		Str("from", sender.Username).
		Str("to", recipient.Username).
		Str("amount", req.Amount.String()).
		Msg("Transfer completed")

	c.notify(ctx, model.MovementEvent{
		MovementID:   debit.ID,
		Username:     sender.Username,
		Kind:         model.MovementKindTransferOut,
		Amount:       debit.Amount,
		Counterparty: recipient.Username,
		Date:         now,
	})
	c.notify(ctx, model.MovementEvent{
		MovementID:   credit.ID,
		Username:     recipient.Username,
		Kind:         model.MovementKindTransferIn,
		Amount:       credit.Amount,
		Counterparty: sender.Username,
		Date:         now,
	})

	return c.view(state)
}

// RequestLoan deposits the floored amount if any movement covers 10% of it
func (c *Controller) RequestLoan(ctx context.Context, state State, req model.LoanRequest) (State, *model.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	view, err := c.requestLoan(ctx, state, req)
	c.observe(ActionLoan, err)
	if err != nil {
		return state, nil, err
	}
	return state, view, nil
}

func (c *Controller) requestLoan(ctx context.Context, state State, req model.LoanRequest) (*model.View, error) {
	acc, err := c.current(state)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	amount := ledger.FloorLoan(req.Amount)
	if !amount.IsPositive() {
		return nil, model.ErrInvalidAmount
	}
	if !ledger.QualifiesForLoan(acc.Movements, amount) {
		return nil, model.ErrLoanDeclined
	}

	now := c.now()
	mov := model.NewMovement(amount, now)
	if err := c.accounts.AppendMovements(acc.Username, mov); err != nil {
		return nil, fmt.Errorf("failed to deposit loan: %w", err)
	}

	log.Info().Str("username", acc.Username).Str("amount", amount.String()).Msg("Loan granted")

	c.notify(ctx, model.MovementEvent{
		MovementID: mov.ID,
		Username:   acc.Username,
		Kind:       model.MovementKindLoan,
		Amount:     amount,
		Date:       now,
	})

	return c.view(state)
}

// Close deletes the logged-in account once username and pin are confirmed.
// The returned state is logged out.
func (c *Controller) Close(ctx context.Context, state State, req model.CloseRequest) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.close(state, req)
	c.observe(ActionClose, err)
	if err != nil {
		return state, err
	}
	log.Info().Str("username", state.Username).Msg("Account closed")
	return State{}, nil
}

func (c *Controller) close(state State, req model.CloseRequest) error {
	acc, err := c.current(state)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Username != acc.Username || !auth.CheckPIN(acc.PINHash, req.PIN) {
		return model.ErrCloseMismatch
	}
	if err := c.accounts.Delete(acc.Username); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}

// ToggleSort flips between insertion order and amount order
func (c *Controller) ToggleSort(ctx context.Context, state State) (State, *model.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := State{Username: state.Username, Sorted: !state.Sorted}
	view, err := c.view(next)
	c.observe(ActionSort, err)
	if err != nil {
		return state, nil, err
	}
	return next, view, nil
}

// Logout ends the session. It never fails.
func (c *Controller) Logout(ctx context.Context, state State) State {
	c.observe(ActionLogout, nil)
	if state.LoggedIn() {
		log.Info().Str("username", state.Username).Msg("User logged out")
	}
	return State{}
}

// View recomputes the full view for state
func (c *Controller) View(state State) (*model.View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view(state)
}

// view must be called with mu held
func (c *Controller) view(state State) (*model.View, error) {
	acc, err := c.current(state)
	if err != nil {
		return nil, err
	}
	v := c.renderer.View(acc, state.Sorted, c.now())
	return &v, nil
}

// current resolves the logged-in account, which may have been closed since
func (c *Controller) current(state State) (*model.Account, error) {
	if !state.LoggedIn() {
		return nil, model.ErrNotLoggedIn
	}
	acc, err := c.accounts.GetByUsername(state.Username)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, model.ErrNotLoggedIn
		}
		return nil, err
	}
	return acc, nil
}

func (c *Controller) notify(ctx context.Context, event model.MovementEvent) {
	if c.notifier == nil {
		return
	}
	// The movement is already stored; a failed publish is only logged
	if err := c.notifier.PublishMovement(ctx, event); err != nil {
		log.Error().Err(err).
			Str("movement_id", event.MovementID.String()).
			Msg("Failed to publish movement")
	}
}

func (c *Controller) observe(action string, err error) {
	if c.observer != nil {
		c.observer.Observe(action, err)
	}
}
