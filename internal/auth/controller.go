// Package auth implements the PIN gate in front of the stored API key: a
// single state machine shared by every presentation surface.
package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/batalabs/pinchat/internal/domain"
)

// CredentialStore persists the single secret/PIN record.
type CredentialStore interface {
	Existing() (*domain.CredentialRecord, error)
	GenerateCode(secret string) (string, error)
	Save(secret, code string) error
	Verify(code string) (bool, error)
}

// SecretValidator checks a secret against the remote service.
type SecretValidator interface {
	Check(ctx context.Context, secret string) (bool, error)
}

// Logger is the subset of config.Logger the controller needs.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Controller owns one authentication session. Dispatch never returns an
// error; failures become session Feedback.
type Controller struct {
	mu        sync.Mutex
	store     CredentialStore
	validator SecretValidator
	logger    Logger
	session   Session
}

// NewController creates a controller and leaves Bootstrap immediately:
// Enrollment when no record exists, PinChallenge otherwise.
func NewController(store CredentialStore, validator SecretValidator, logger Logger) *Controller {
	if logger == nil {
		logger = nopLogger{}
	}
	c := &Controller{
		store:     store,
		validator: validator,
		logger:    logger,
		session:   Session{Mode: ModeBootstrap},
	}
	c.bootstrap()
	return c
}

// Session returns a copy of the current session.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) bootstrap() {
	rec, err := protect(c.store.Existing)
	if err != nil {
		c.logger.Printf("auth: reading credentials: %v", err)
		c.changeMode(ModeEnrollment)
		c.session.Feedback = errorFeedback(CollaboratorFault, msgStoreFault)
		return
	}
	c.session.RecordExists = rec != nil
	if rec != nil {
		c.changeMode(ModePinChallenge)
	} else {
		c.changeMode(ModeEnrollment)
	}
}

// Dispatch applies a to the session and returns the resulting state.
// Actions the current mode does not accept leave the session unchanged.
func (c *Controller) Dispatch(ctx context.Context, a Action) Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.session.Accepts(a.Kind) {
		c.logger.Printf("auth: ignored %s in %s", a.Kind, c.session.Mode)
		return Result{Session: c.session}
	}

	switch a.Kind {
	case ActionSubmitSecret:
		c.submitSecret(ctx, a.Value)
	case ActionSubmitPin:
		c.submitPin(a.Value)
	case ActionToggleReset:
		c.toggleReset()
	case ActionAcknowledge:
		c.changeMode(ModeAuthenticated)
		return Result{Session: c.session, Completed: true}
	}

	return Result{
		Session:   c.session,
		Completed: c.session.Mode == ModeAuthenticated,
	}
}

func (c *Controller) toggleReset() {
	switch c.session.Mode {
	case ModePinChallenge:
		c.changeMode(ModeReset)
	case ModeReset, ModeEnrollment:
		c.changeMode(ModePinChallenge)
	}
}

func (c *Controller) submitSecret(ctx context.Context, raw string) {
	c.session.Input = raw
	secret := NormalizeSecret(raw)
	if secret == "" {
		c.session.Feedback = errorFeedback(InputError, msgEmptySecret)
		return
	}

	ok, err := protect(func() (bool, error) { return c.validator.Check(ctx, secret) })
	if ctx.Err() != nil {
		c.logger.Printf("auth: key submission cancelled: %v", ctx.Err())
		return
	}
	if err != nil || !ok {
		if err != nil {
			c.logger.Printf("auth: validating key: %v", err)
		}
		c.session.Feedback = errorFeedback(ValidationRejected, msgRejected)
		return
	}

	code, err := protect(func() (string, error) { return c.store.GenerateCode(secret) })
	if err == nil && !ValidPin(code) {
		err = fmt.Errorf("store generated a malformed code of length %d", len(code))
	}
	if err != nil {
		c.logger.Printf("auth: generating code: %v", err)
		c.session.Feedback = errorFeedback(CollaboratorFault, msgFault)
		return
	}

	// Nothing may be written once the submission has been abandoned.
	if ctx.Err() != nil {
		c.logger.Printf("auth: key submission cancelled before save: %v", ctx.Err())
		return
	}
	if _, err := protect(func() (struct{}, error) { return struct{}{}, c.store.Save(secret, code) }); err != nil {
		c.logger.Printf("auth: saving credentials: %v", err)
		c.session.Feedback = errorFeedback(CollaboratorFault, msgFault)
		return
	}

	c.session.RecordExists = true
	c.changeMode(ModePinReveal)
	c.session.RevealedCode = code
	c.session.Feedback = Feedback{Severity: SeveritySuccess, Text: msgKeySaved}
}

func (c *Controller) submitPin(pin string) {
	if !ValidPin(pin) {
		c.session.Input = ""
		c.session.Feedback = errorFeedback(InputError, msgBadPin)
		return
	}

	ok, err := protect(func() (bool, error) { return c.store.Verify(pin) })
	if err != nil {
		c.logger.Printf("auth: verifying PIN: %v", err)
		c.session.Input = ""
		c.session.Feedback = errorFeedback(CollaboratorFault, msgFault)
		return
	}
	if !ok {
		c.logger.Printf("auth: PIN mismatch")
		c.session.Input = ""
		c.session.Feedback = errorFeedback(PinMismatch, msgWrongPin)
		return
	}
	c.changeMode(ModeAuthenticated)
}

// changeMode moves to m and clears everything tied to the previous mode.
func (c *Controller) changeMode(m Mode) {
	if c.session.Mode != m {
		c.logger.Printf("auth: %s -> %s", c.session.Mode, m)
	}
	c.session.Mode = m
	c.session.Input = ""
	c.session.RevealedCode = ""
	c.session.Feedback = Feedback{}
}

// protect runs fn and converts a panic into an error.
func protect[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}
