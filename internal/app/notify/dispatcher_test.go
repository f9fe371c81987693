package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/email"
)

type flakyMailer struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []email.Message
}

func (m *flakyMailer) Send(_ context.Context, msg email.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failures > 0 {
		m.failures--
		return errors.New("smtp: temporary failure")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *flakyMailer) snapshot() (int, []email.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls, append([]email.Message(nil), m.sent...)
}

func newTestDispatcher(t *testing.T, mailer email.Mailer, attempts int) *Dispatcher {
	t.Helper()
	d, err := NewDispatcher(Config{
		Workers:         2,
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
	}, mailer, zerolog.Nop())
	require.NoError(t, err)
	return d
}

func TestDispatcher_DeliversAfterClose(t *testing.T) {
	mailer := &flakyMailer{}
	d := newTestDispatcher(t, mailer, 3)

	for _, addr := range []string{"a@school.test", "b@school.test"} {
		require.NoError(t, d.NotifyCredentials(context.Background(), CredentialNotice{
			Name: "A", Email: addr, Password: "s3cretPass", Role: models.RoleStudent,
		}))
	}
	require.NoError(t, d.Close())

	_, sent := mailer.snapshot()
	require.Len(t, sent, 2)
	for _, msg := range sent {
		assert.Equal(t, email.CredentialsSubject, msg.Subject)
		assert.Contains(t, msg.HTMLBody, "s3cretPass")
	}
}

func TestDispatcher_RetriesTransientFailures(t *testing.T) {
	mailer := &flakyMailer{failures: 2}
	d := newTestDispatcher(t, mailer, 3)

	require.NoError(t, d.NotifyCredentials(context.Background(), CredentialNotice{Email: "a@school.test", Password: "pw12345678", Role: models.RoleInstitution}))
	require.NoError(t, d.Close())

	calls, sent := mailer.snapshot()
	assert.Equal(t, 3, calls)
	assert.Len(t, sent, 1)
}

func TestDispatcher_GivesUpAfterMaxAttempts(t *testing.T) {
	mailer := &flakyMailer{failures: 10}
	d := newTestDispatcher(t, mailer, 2)

	require.NoError(t, d.NotifyCredentials(context.Background(), CredentialNotice{Email: "a@school.test", Password: "pw12345678"}))
	require.NoError(t, d.Close())

	calls, sent := mailer.snapshot()
	assert.Equal(t, 2, calls)
	assert.Empty(t, sent)
}

func TestDispatcher_RejectsAfterClose(t *testing.T) {
	d := newTestDispatcher(t, &flakyMailer{}, 1)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	err := d.NotifyCredentials(context.Background(), CredentialNotice{Email: "a@school.test"})
	assert.ErrorIs(t, err, ErrClosed)
}

// hangingMailer blocks every send until release is closed
type hangingMailer struct {
	release chan struct{}
	mu      sync.Mutex
	sent    int
}

func (m *hangingMailer) Send(ctx context.Context, _ email.Message) error {
	select {
	case <-m.release:
	case <-ctx.Done():
		return ctx.Err()
	}
	m.mu.Lock()
	m.sent++
	m.mu.Unlock()
	return nil
}

func TestDispatcher_HangingMailerDoesNotBlockPublishers(t *testing.T) {
	mailer := &hangingMailer{release: make(chan struct{})}
	d, err := NewDispatcher(Config{
		Workers:     1,
		QueueSize:   1,
		MaxAttempts: 1,
		SendTimeout: time.Minute,
	}, mailer, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		done := make(chan error, 1)
		go func() {
			done <- d.NotifyCredentials(context.Background(), CredentialNotice{
				Email: "student@school.test", Password: "pw12345678", Role: models.RoleStudent,
			})
		}()

		select {
		case err := <-done:
			require.NoError(t, err, "notice %d", i)
		case <-time.After(2 * time.Second):
			close(mailer.release)
			t.Fatalf("notice %d blocked while the mailer hangs", i)
		}
	}

	close(mailer.release)
	require.NoError(t, d.Close())

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.GreaterOrEqual(t, mailer.sent, 1)
	assert.LessOrEqual(t, mailer.sent, 5)
}
