package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/pkg/errors"
)

// CheckoutResponse is the checkout page model
type CheckoutResponse struct {
	Items   []checkout.LineView  `json:"items"`
	Summary checkout.SummaryView `json:"summary"`
	Form    *checkout.Form       `json:"form"`
}

// ValidateResponse reports inline field errors
type ValidateResponse struct {
	Valid  bool                      `json:"valid"`
	Errors checkout.ValidationErrors `json:"errors"`
}

// SubmitResponse is the answer to a checkout submission
type SubmitResponse struct {
	State          domain.SubmissionState `json:"state"`
	Notification   string                 `json:"notification,omitempty"`
	Redirect       string                 `json:"redirect,omitempty"`
	IdempotencyKey string                 `json:"idempotency_key,omitempty"`
}

// HandleGetCheckout handles GET /v1/checkout
func HandleGetCheckout(loader *service.CartLoader, sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)

		result := loader.Load(c.Request.Context(), sess)
		if result.Outcome == service.CartRedirectLogin {
			forgetStaleToken(c, sessions, sess, logger)
			respondAuthRequired(c)
			return
		}

		if len(result.Items) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"empty":    true,
				"items":    []checkout.LineView{},
				"redirect": service.ProductsPath,
			})
			return
		}

		c.JSON(http.StatusOK, CheckoutResponse{
			Items:   checkout.Lines(result.Items),
			Summary: checkout.Price(result.Items).Display(),
			Form:    checkout.NewForm(),
		})
	}
}

// HandleValidateCheckout handles POST /v1/checkout/validate
func HandleValidateCheckout(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		form := checkout.NewForm()
		if err := c.ShouldBindJSON(form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": err.Error(),
			})
			return
		}

		errs := checkout.Validate(form)
		c.JSON(http.StatusOK, ValidateResponse{
			Valid:  errs.Valid(),
			Errors: errs,
		})
	}
}

// HandleSubmitCheckout handles POST /v1/checkout/submit
func HandleSubmitCheckout(composers *service.ComposerRegistry, sessions *session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentSession(c)
		if !sess.IsAuthenticated() {
			forgetStaleToken(c, sessions, sess, logger)
			respondAuthRequired(c)
			return
		}

		form := checkout.NewForm()
		if err := c.ShouldBindJSON(form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid request body",
				"details": err.Error(),
			})
			return
		}

		result, err := composers.Submit(c.Request.Context(), sess, form)
		if err == nil {
			c.JSON(http.StatusCreated, SubmitResponse{
				State:          result.State,
				Notification:   result.Notification,
				Redirect:       result.Redirect,
				IdempotencyKey: result.IdempotencyKey,
			})
			return
		}

		var (
			validationErr *errors.ErrValidation
			authErr       *errors.ErrAuthRequired
			transitionErr *errors.ErrInvalidStateTransition
		)
		switch {
		case stderrors.Is(err, errors.ErrSubmissionInProgress):
			c.JSON(http.StatusConflict, gin.H{
				"error": "order submission already in progress",
				"state": domain.SubmissionStateSubmitting,
			})
		case stderrors.As(err, &validationErr):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":  "validation failed",
				"errors": validationErr.Fields,
			})
		case stderrors.As(err, &authErr):
			forgetStaleToken(c, sessions, sess, logger)
			respondAuthRequired(c)
		case stderrors.As(err, &transitionErr):
			logger.Warn("Submission refused", zap.Error(err))
			c.JSON(http.StatusConflict, gin.H{"error": "checkout already completed"})
		default:
			c.JSON(http.StatusBadGateway, SubmitResponse{
				State:        domain.SubmissionStateFailed,
				Notification: service.NotificationOrderFailed,
			})
		}
	}
}

// forgetStaleToken drops a token the backend no longer accepts
func forgetStaleToken(c *gin.Context, sessions *session.Manager, sess session.Session, logger *zap.Logger) {
	if sess.ID == "" || sess.State() == session.Anonymous {
		return
	}
	if err := sessions.Forget(c.Request.Context(), sess.ID); err != nil {
		logger.Warn("Failed to forget stale session token", zap.Error(err))
	}
}
