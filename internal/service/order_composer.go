package service

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/metrics"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/pkg/errors"
)

const (
	NotificationOrderPlaced = "Order placed successfully!"
	NotificationOrderFailed = "Error placing order. Please try again."
)

// SubmitResult tells the page what to show after a submit attempt
type SubmitResult struct {
	State          domain.SubmissionState
	Notification   string
	Redirect       string
	IdempotencyKey string
}

// OrderComposer drives one checkout's submission state machine. At most one
// order request is in flight per composer.
type OrderComposer struct {
	mu      sync.Mutex
	state   domain.SubmissionState
	backend Backend
	metrics *metrics.CheckoutMetrics
	logger  *zap.Logger
}

// NewOrderComposer creates a composer in the idle state
func NewOrderComposer(backend Backend, m *metrics.CheckoutMetrics, logger *zap.Logger) *OrderComposer {
	return &OrderComposer{
		state:   domain.SubmissionStateIdle,
		backend: backend,
		metrics: m,
		logger:  logger,
	}
}

// State returns the current submission state
func (c *OrderComposer) State() domain.SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Submit validates the form and, if it passes, places the order.
//
// A submit while another is in flight returns ErrSubmissionInProgress and issues nothing.
// Validation failure returns *errors.ErrValidation and stays idle. Backend rejection or
// network failure goes through failed back to idle; the form is left untouched for a retry.
func (c *OrderComposer) Submit(ctx context.Context, sess session.Session, form *checkout.Form) (*SubmitResult, error) {
	c.mu.Lock()
	if c.state == domain.SubmissionStateSubmitting {
		c.mu.Unlock()
		c.count("duplicate")
		return nil, errors.ErrSubmissionInProgress
	}

	token, ok := sess.Token()
	if !ok {
		c.mu.Unlock()
		c.count("auth_required")
		return &SubmitResult{State: domain.SubmissionStateIdle, Redirect: LoginPath}, &errors.ErrAuthRequired{}
	}

	if !form.Check() {
		c.mu.Unlock()
		c.count("invalid")
		return &SubmitResult{State: domain.SubmissionStateIdle}, &errors.ErrValidation{Fields: form.Errors()}
	}

	if err := c.transition(domain.SubmissionStateSubmitting); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.mu.Unlock()

	key := uuid.New().String()
	payload := form.Payload()
	err := c.backend.PlaceOrder(ctx, token, key, payload)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("Error placing order",
			zap.String("idempotency_key", key),
			zap.String("payment_method", string(payload.PaymentInfo.Method)),
			zap.Error(err),
		)
		if tErr := c.transition(domain.SubmissionStateFailed); tErr != nil {
			return nil, tErr
		}
		if tErr := c.transition(domain.SubmissionStateIdle); tErr != nil {
			return nil, tErr
		}

		result := &SubmitResult{
			State:          domain.SubmissionStateFailed,
			Notification:   NotificationOrderFailed,
			IdempotencyKey: key,
		}
		var authErr *errors.ErrAuthRequired
		if stderrors.As(err, &authErr) {
			c.count("auth_required")
			result.Notification = ""
			result.Redirect = LoginPath
			return result, err
		}
		c.count("failed")
		return result, err
	}

	if err := c.transition(domain.SubmissionStateDone); err != nil {
		return nil, err
	}
	c.logger.Info("Order placed",
		zap.String("idempotency_key", key),
		zap.String("payment_method", string(payload.PaymentInfo.Method)),
	)
	c.count("placed")

	return &SubmitResult{
		State:          domain.SubmissionStateDone,
		Notification:   NotificationOrderPlaced,
		Redirect:       HomePath,
		IdempotencyKey: key,
	}, nil
}

// transition must be called with mu held
func (c *OrderComposer) transition(next domain.SubmissionState) error {
	if !c.state.CanTransitionTo(next) {
		return &errors.ErrInvalidStateTransition{From: c.state, To: next}
	}
	c.logger.Debug("Submission state change",
		zap.String("from", string(c.state)),
		zap.String("to", string(next)),
	)
	c.state = next
	return nil
}

func (c *OrderComposer) count(outcome string) {
	if c.metrics != nil {
		c.metrics.Submissions.WithLabelValues(outcome).Inc()
	}
}

// ComposerRegistry keeps one OrderComposer per browser session while a submit
// for that session is running. Entries are dropped as soon as no submit holds them.
type ComposerRegistry struct {
	mu        sync.Mutex
	composers map[string]*registryEntry
	backend   Backend
	metrics   *metrics.CheckoutMetrics
	logger    *zap.Logger
}

type registryEntry struct {
	composer *OrderComposer
	// refs counts submits currently using composer
	refs int
}

func NewComposerRegistry(backend Backend, m *metrics.CheckoutMetrics, logger *zap.Logger) *ComposerRegistry {
	return &ComposerRegistry{
		composers: make(map[string]*registryEntry),
		backend:   backend,
		metrics:   m,
		logger:    logger,
	}
}

// Submit runs one submit on the session's composer. Concurrent submits for the
// same session share a composer, so the second one sees ErrSubmissionInProgress.
func (r *ComposerRegistry) Submit(ctx context.Context, sess session.Session, form *checkout.Form) (*SubmitResult, error) {
	entry := r.acquire(sess.ID)
	defer r.release(sess.ID, entry)

	return entry.composer.Submit(ctx, sess, form)
}

// Len reports how many sessions currently hold a composer
func (r *ComposerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.composers)
}

func (r *ComposerRegistry) acquire(sessionID string) *registryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.composers[sessionID]
	if !ok {
		entry = &registryEntry{
			composer: NewOrderComposer(r.backend, r.metrics, r.logger.With(zap.String("component", "order_composer"))),
		}
		r.composers[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release drops the entry once its last submit has returned. Submit never
// returns in the submitting state, so a dropped composer is idle or done.
func (r *ComposerRegistry) release(sessionID string, entry *registryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.refs--
	if entry.refs == 0 && r.composers[sessionID] == entry {
		delete(r.composers, sessionID)
	}
}
