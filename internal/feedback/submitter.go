// Package feedback sends free-text feedback to the remote service.
package feedback

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/MrSnakeDoc/vianime/internal/domain"
	"github.com/MrSnakeDoc/vianime/internal/logger"
)

// Appender is the remote feedback collection.
type Appender interface {
	AppendFeedback(ctx context.Context, entry domain.FeedbackEntry) (domain.FeedbackEntry, error)
}

// Submitter validates feedback and appends it remotely.
type Submitter struct {
	remote Appender
	logger logger.Logger
}

func NewSubmitter(remote Appender, log logger.Logger) *Submitter {
	return &Submitter{remote: remote, logger: log}
}

// Submit appends text on behalf of identity, or of a guest when identity is
// empty. Blank text fails with ErrEmptyFeedback before any remote call.
// Remote failures are logged and reported as ErrRemoteUnavailable.
func (s *Submitter) Submit(ctx context.Context, text, identity string) (domain.FeedbackEntry, error) {
	if strings.TrimSpace(text) == "" {
		return domain.FeedbackEntry{}, domain.ErrEmptyFeedback
	}

	submitter := identity
	if submitter == "" {
		submitter = domain.GuestSubmitter
	}

	entry, err := s.remote.AppendFeedback(ctx, domain.FeedbackEntry{
		Text:      text,
		Submitter: submitter,
	})
	if err != nil {
		s.logger.Error("failed to submit feedback",
			logger.String("submitter", submitter),
			logger.Error(err))
		return domain.FeedbackEntry{}, fmt.Errorf("could not submit feedback, please try again: %w", domain.ErrRemoteUnavailable)
	}

	s.logger.Info("feedback submitted",
		logger.String("id", entry.ID),
		logger.String("submitter", submitter))
	return entry, nil
}

// Form holds the feedback input between edits.
type Form struct {
	submitter *Submitter

	mu    sync.Mutex
	draft string
}

func NewForm(submitter *Submitter) *Form {
	return &Form{submitter: submitter}
}

// SetDraft replaces the input text.
func (f *Form) SetDraft(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = text
}

// Draft returns the input text.
func (f *Form) Draft() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// Submit sends the draft. The draft is cleared on success and kept as is
// otherwise so it can be retried.
func (f *Form) Submit(ctx context.Context, identity string) (domain.FeedbackEntry, error) {
	text := f.Draft()

	entry, err := f.submitter.Submit(ctx, text, identity)
	if err != nil {
		return domain.FeedbackEntry{}, err
	}

	f.mu.Lock()
	// keep an edit made while the call was in flight
	if f.draft == text {
		f.draft = ""
	}
	f.mu.Unlock()
	return entry, nil
}
