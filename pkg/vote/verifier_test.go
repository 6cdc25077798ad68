package vote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurv/sitegen/pkg/config"
)

func TestVerifier_Verify(t *testing.T) {
	var gotSecret, gotResponse, gotRemoteIP string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotSecret = r.PostFormValue("secret")
		gotResponse = r.PostFormValue("response")
		gotRemoteIP = r.PostFormValue("remoteip")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true}`)) //nolint:errcheck // test server
	}))
	defer ts.Close()

	v := NewVerifier(config.CaptchaConfig{Secret: "sk-test", VerifyURL: ts.URL, Timeout: time.Second})

	ok, err := v.Verify(context.Background(), "token-1", "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "sk-test", gotSecret)
	assert.Equal(t, "token-1", gotResponse)
	assert.Equal(t, "203.0.113.7", gotRemoteIP)
}

func TestVerifier_VerifyRejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`)) //nolint:errcheck // test server
	}))
	defer ts.Close()

	v := NewVerifier(config.CaptchaConfig{Secret: "sk-test", VerifyURL: ts.URL, Timeout: time.Second})

	ok, err := v.Verify(context.Background(), "bad-token", "203.0.113.7")
	require.NoError(t, err, "a definite rejection is not a transport error")
	assert.False(t, ok)
}

func TestVerifier_VerifyRetriesTransientFailure(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"success": true}`)) //nolint:errcheck // test server
	}))
	defer ts.Close()

	v := NewVerifier(config.CaptchaConfig{Secret: "sk-test", VerifyURL: ts.URL, Timeout: time.Second})

	ok, err := v.Verify(context.Background(), "token", "203.0.113.7")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestVerifier_VerifyServiceDown(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	v := NewVerifier(config.CaptchaConfig{Secret: "sk-test", VerifyURL: ts.URL, Timeout: time.Second})

	ok, err := v.Verify(context.Background(), "token", "203.0.113.7")
	require.Error(t, err)
	assert.False(t, ok)
}
