package httpServices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"parcel-payment/services/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "15000", r.PostForm.Get("amount"))
		assert.Equal(t, "bdt", r.PostForm.Get("currency"))
		assert.Equal(t, "parcel-1", r.PostForm.Get("metadata[parcelId]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pi_123","object":"payment_intent","amount":15000,"currency":"bdt","client_secret":"pi_123_secret_abc"}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_123", srv.URL)
	secret, err := c.CreatePaymentIntent(context.Background(), gateway.IntentRequest{
		AmountMinorUnits: 15000,
		Currency:         "bdt",
		ParcelID:         "parcel-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret_abc", secret)
}

func TestCreatePaymentIntentErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"type":"api_error","message":"boom"}}`))
	}))
	defer srv.Close()

	c := NewClient("sk_test_123", srv.URL)
	_, err := c.CreatePaymentIntent(context.Background(), gateway.IntentRequest{AmountMinorUnits: 100, Currency: "bdt"})
	assert.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
