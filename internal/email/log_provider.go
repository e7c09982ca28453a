package email

import (
	"context"
	"sync"

	"castboard_backend/internal/logger"
)

// LogProvider не отправляет письма, а пишет их в лог и запоминает.
// Используется, когда SMTP не настроен, и в тестах.
type LogProvider struct {
	mu   sync.Mutex
	sent []Email
}

func NewLogProvider() *LogProvider {
	return &LogProvider{}
}

func (p *LogProvider) Send(ctx context.Context, email *Email) error {
	p.mu.Lock()
	p.sent = append(p.sent, *email)
	p.mu.Unlock()

	logger.CtxInfo(ctx, "email not sent, SMTP is not configured",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}

// Sent возвращает копию всех "отправленных" писем.
func (p *LogProvider) Sent() []Email {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Email, len(p.sent))
	copy(out, p.sent)
	return out
}

func (p *LogProvider) Validate() error { return nil }

func (p *LogProvider) Close() error { return nil }
