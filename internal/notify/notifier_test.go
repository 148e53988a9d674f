package notify_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"storefront/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishJSON(ctx context.Context, queue string, payload any) error {
	args := m.Called(ctx, queue, payload)
	return args.Error(0)
}

func TestQueueNotifier_PublishesResetMail(t *testing.T) {
	pub := new(MockPublisher)
	n := notify.NewQueueNotifier(pub, "mail_queue")

	pub.On("PublishJSON", mock.Anything, "mail_queue", mock.MatchedBy(func(m notify.ResetMail) bool {
		return m.To == "ann@example.com" && m.Link == "http://shop/reset?resetToken=abc" && m.Template == "password_reset"
	})).Return(nil).Once()

	require.NoError(t, n.SendResetLink(context.Background(), "ann@example.com", "http://shop/reset?resetToken=abc"))
	pub.AssertExpectations(t)
}

func TestQueueNotifier_WrapsPublishError(t *testing.T) {
	pub := new(MockPublisher)
	n := notify.NewQueueNotifier(pub, "mail_queue")
	pub.On("PublishJSON", mock.Anything, "mail_queue", mock.Anything).Return(errors.New("channel closed")).Once()

	err := n.SendResetLink(context.Background(), "ann@example.com", "link")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestLogNotifier_LogsLink(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, n.SendResetLink(context.Background(), "ann@example.com", "http://shop/reset?resetToken=abc"))
	assert.Contains(t, buf.String(), "resetToken=abc")
}
