package tenderned_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
	infrahttp "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/http"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/tenderned"
)

type recordedAuth struct {
	user, pass string
	ok         bool
}

func authRecorder(t *testing.T) (*httptest.Server, func() []recordedAuth) {
	t.Helper()

	var (
		mu   sync.Mutex
		seen []recordedAuth
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		mu.Lock()
		seen = append(seen, recordedAuth{user: user, pass: pass, ok: ok})
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedAuth {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedAuth(nil), seen...)
	}
}

func TestNewSession_AuthenticatesEveryRequest(t *testing.T) {
	t.Parallel()

	srv, seen := authRecorder(t)
	session := tenderned.NewSession(domain.Credentials{Username: "buyer", Password: "s3cret"}, nil)

	for range 3 {
		resp, err := session.Get(srv.URL)
		require.NoError(t, err)
		resp.Body.Close()
	}

	got := seen()
	require.Len(t, got, 3)
	for _, auth := range got {
		assert.Equal(t, recordedAuth{user: "buyer", pass: "s3cret", ok: true}, auth)
	}
}

func TestNewSession_DoesNotMutateCallerRequest(t *testing.T) {
	t.Parallel()

	srv, _ := authRecorder(t)
	session := tenderned.NewSession(domain.Credentials{Username: "buyer", Password: "s3cret"}, nil)

	req, err := http.NewRequest(http.MethodGet, srv.URL, http.NoBody)
	require.NoError(t, err)

	resp, err := session.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Empty(t, req.Header.Get("Authorization"))
}

func TestNewSession_EmptyCredentialsAreStillSent(t *testing.T) {
	t.Parallel()

	srv, seen := authRecorder(t)
	session := tenderned.NewSession(domain.Credentials{}, nil)

	resp, err := session.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	got := seen()
	require.Len(t, got, 1)
	assert.True(t, got[0].ok)
	assert.Empty(t, got[0].user)
}

func TestNewSession_AppliesClientConfig(t *testing.T) {
	t.Parallel()

	var wrapped bool
	session := tenderned.NewSession(domain.Credentials{Username: "u", Password: "p"}, &infrahttp.ClientConfig{
		Timeout: 3 * time.Second,
		Wrap: func(next http.RoundTripper) http.RoundTripper {
			wrapped = true
			return next
		},
	})

	assert.Equal(t, 3*time.Second, session.Timeout)
	assert.True(t, wrapped)
}

func TestNewSession_WithholdsCredentialsFromOtherHosts(t *testing.T) {
	t.Parallel()

	other, seenByOther := authRecorder(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, other.URL+"/elsewhere", http.StatusFound)
	}))
	t.Cleanup(api.Close)

	session := tenderned.NewSession(domain.Credentials{Username: "buyer", Password: "s3cret"}, nil)
	resp, err := session.Get(api.URL + "/publicaties/1/public-xml")
	require.NoError(t, err)
	resp.Body.Close()

	got := seenByOther()
	require.Len(t, got, 1)
	assert.False(t, got[0].ok, "credentials leaked to %s", other.URL)
}

func TestNewSession_KeepsCredentialsOnSameHostRedirect(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		final []recordedAuth
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/final", http.StatusFound)
			return
		}
		user, pass, ok := r.BasicAuth()
		mu.Lock()
		final = append(final, recordedAuth{user: user, pass: pass, ok: ok})
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	session := tenderned.NewSession(domain.Credentials{Username: "buyer", Password: "s3cret"}, nil)
	resp, err := session.Get(srv.URL + "/start")
	require.NoError(t, err)
	resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, final, 1)
	assert.Equal(t, recordedAuth{user: "buyer", pass: "s3cret", ok: true}, final[0])
}
