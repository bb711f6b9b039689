package screen

import (
	"context"
	"time"

	"github.com/abhisek/mockexam/internal/i18n"
	"github.com/abhisek/mockexam/internal/session"
)

// Env is the state shared by all screens. The app owns it and hands the
// same pointer to every screen it creates.
type Env struct {
	Session *session.Session
	Tr      *i18n.Translator

	// Ctx bounds all background work started from the UI.
	Ctx context.Context

	// ExportDir is the default directory offered for CSV export.
	ExportDir string

	// Location is used for dates shown to the user and written to CSV.
	Location *time.Location

	Now func() time.Time

	// Width and Height are the content area size, excluding header and
	// footer.
	Width  int
	Height int

	cancelRun context.CancelFunc
}

// NewEnv returns an Env with defaults for the optional fields.
func NewEnv(ctx context.Context, s *session.Session, tr *i18n.Translator) *Env {
	return &Env{
		Session:  s,
		Tr:       tr,
		Ctx:      ctx,
		Location: time.Local,
		Now:      time.Now,
	}
}

// ErrorMessage returns the localized message for the session's pending
// error, or "".
func (e *Env) ErrorMessage() string {
	return session.UserMessage(e.Tr, e.Session.ErrPhase(), e.Session.Err())
}

// CancelRun cancels in-flight question generation, if any.
func (e *Env) CancelRun() {
	if e.cancelRun != nil {
		e.cancelRun()
		e.cancelRun = nil
	}
}

// runContext returns a fresh context for a generation run, cancelling the
// previous one.
func (e *Env) runContext() context.Context {
	e.CancelRun()
	ctx, cancel := context.WithCancel(e.Ctx)
	e.cancelRun = cancel
	return ctx
}
