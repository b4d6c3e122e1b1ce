package notifications

import (
	"context"
	"time"

	"backoffice/internal/mailer"

	"go.uber.org/zap"
)

// Sender delivers customer notifications in the background. Failures are
// logged and never reach the request that triggered them.
type Sender struct {
	mail    mailer.Client
	logger  *zap.SugaredLogger
	timeout time.Duration
}

func NewSender(mail mailer.Client, logger *zap.SugaredLogger) *Sender {
	if mail == nil {
		mail = mailer.NoopMailer{}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Sender{mail: mail, logger: logger, timeout: 30 * time.Second}
}

// Go runs send detached from ctx cancellation and returns a channel closed
// when it finishes.
func (s *Sender) Go(ctx context.Context, what string, send func(ctx context.Context) error) <-chan struct{} {
	done := make(chan struct{})
	ctx = context.WithoutCancel(ctx)
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		if err := send(ctx); err != nil {
			s.logger.Warnw("notification failed", "what", what, "error", err)
		}
	}()
	return done
}
