package payment_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGateway_Charge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/charges", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "1300", r.PostForm.Get("amount"))
		assert.Equal(t, "usd", r.PostForm.Get("currency"))
		assert.Equal(t, "tok_visa", r.PostForm.Get("source"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ch_123","amount":1300,"currency":"usd","status":"succeeded"}`))
	}))
	defer srv.Close()

	gw := payment.NewHTTPGateway(config.PaymentConfig{APIURL: srv.URL, SecretKey: "sk_test"})
	charge, err := gw.Charge(context.Background(), 1300, "USD", "tok_visa")
	require.NoError(t, err)
	assert.Equal(t, "ch_123", charge.ID)
	assert.Equal(t, int64(1300), charge.Amount)
	assert.Equal(t, "USD", charge.Currency)
}

func TestHTTPGateway_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"code":"card_declined","message":"Your card was declined."}}`))
	}))
	defer srv.Close()

	gw := payment.NewHTTPGateway(config.PaymentConfig{APIURL: srv.URL, SecretKey: "sk_test"})
	_, err := gw.Charge(context.Background(), 100, "USD", "tok_chargeDeclined")
	require.Error(t, err)
	assert.True(t, errors.Is(err, payment.ErrDeclined))
	assert.Contains(t, err.Error(), "declined")
}

func TestHTTPGateway_ServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	gw := payment.NewHTTPGateway(config.PaymentConfig{APIURL: srv.URL})
	_, err := gw.Charge(context.Background(), 100, "USD", "tok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestHTTPGateway_HonorsDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	gw := payment.NewHTTPGateway(config.PaymentConfig{APIURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := gw.Charge(ctx, 100, "USD", "tok")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
