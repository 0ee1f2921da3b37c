package tenderned_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
	infralogger "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/metrics"
	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/tenderned"
)

const roadMaintenanceXML = `<OBJECT_CONTRACT><TITLE>  Road Maintenance 2024  </TITLE></OBJECT_CONTRACT>`

// mockDoer implements tenderned.Doer for testing.
type mockDoer struct {
	mock.Mock
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	resp, _ := args.Get(0).(*http.Response)
	return resp, args.Error(1)
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func TestNoticeURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		"https://www.tenderned.nl/papi/tenderned-rs-tns/v2/publicaties/300000/public-xml",
		tenderned.NoticeURL(tenderned.DefaultBaseURL, 300000),
	)
	assert.Equal(t,
		"http://localhost:1234/publicaties/42/public-xml",
		tenderned.NoticeURL("http://localhost:1234/", 42),
	)
}

func TestFetchNoticeXML_Success(t *testing.T) {
	t.Parallel()

	received := make(chan *http.Request, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received <- r.Clone(context.Background())
		_, _ = w.Write([]byte(roadMaintenanceXML))
	}))
	defer srv.Close()

	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()
	session := tenderned.NewSession(domain.Credentials{Username: "buyer", Password: "s3cret"}, nil)
	client := tenderned.NewClient(session, infralogger.NewFromZap(zap.New(core)),
		tenderned.WithBaseURL(srv.URL), tenderned.WithMetrics(m))

	body, err := client.FetchNoticeXML(context.Background(), 300000)
	require.NoError(t, err)

	assert.Equal(t, roadMaintenanceXML, body)

	req := <-received
	user, pass, ok := req.BasicAuth()
	assert.Equal(t, "/publicaties/300000/public-xml", req.URL.Path)
	assert.True(t, ok)
	assert.Equal(t, "buyer", user)
	assert.Equal(t, "s3cret", pass)
	assert.Equal(t, "application/xml", req.Header.Get("Accept"))

	entries := logs.FilterMessage("Retrieving notice").All()
	require.Len(t, entries, 1)
	assert.Equal(t, srv.URL+"/publicaties/300000/public-xml", entries[0].ContextMap()["url"])

	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues("200")), 0)
}

func TestFetchNoticeXML_DebugLogsSizeAndElapsed(t *testing.T) {
	t.Parallel()

	srv, _ := newServer(t, http.StatusOK, roadMaintenanceXML)
	core, logs := observer.New(zapcore.DebugLevel)
	client := tenderned.NewClient(srv.Client(), infralogger.NewFromZap(zap.New(core)),
		tenderned.WithBaseURL(srv.URL))

	_, err := client.FetchNoticeXML(context.Background(), 1)
	require.NoError(t, err)

	entries := logs.FilterMessage("Notice retrieved").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.EqualValues(t, len(roadMaintenanceXML), fields["bytes"])
	assert.Contains(t, fields, "elapsed")
}

func TestFetchNoticeXML_NonSuccessStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"not found", http.StatusNotFound, false},
		{"unauthorized", http.StatusUnauthorized, false},
		{"server error", http.StatusInternalServerError, true},
		{"not modified", http.StatusNotModified, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv, hits := newServer(t, tc.status, "<error/>")
			client := tenderned.NewClient(srv.Client(), infralogger.NewNop(), tenderned.WithBaseURL(srv.URL))

			body, err := client.FetchNoticeXML(context.Background(), 999999999)
			require.Error(t, err)
			assert.Empty(t, body)
			assert.Equal(t, int32(1), hits.Load())

			var apiErr *domain.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, domain.KindHTTP, apiErr.Kind)
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, srv.URL+"/publicaties/999999999/public-xml", apiErr.URL)
			assert.Equal(t, tc.retryable, apiErr.Retryable())
		})
	}
}

func TestFetchNoticeXML_TransportFailure(t *testing.T) {
	t.Parallel()

	doer := &mockDoer{}
	doer.On("Do", mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	m := metrics.New()
	client := tenderned.NewClient(doer, infralogger.NewNop(),
		tenderned.WithBaseURL("http://tenderned.invalid"), tenderned.WithMetrics(m))

	_, err := client.FetchNoticeXML(context.Background(), 1)
	require.Error(t, err)

	assert.True(t, domain.IsKind(err, domain.KindTransport))
	assert.Contains(t, err.Error(), "connection refused")
	assert.InDelta(t, 1, testutil.ToFloat64(m.Requests.WithLabelValues("none")), 0)
	doer.AssertExpectations(t)
}

func TestFetchNoticeXML_RequestShape(t *testing.T) {
	t.Parallel()

	doer := &mockDoer{}
	doer.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodGet &&
			req.URL.String() == "https://api.example/v2/publicaties/7/public-xml"
	})).Return(&http.Response{
		StatusCode: http.StatusOK,
		Body:       http.NoBody,
	}, nil)

	client := tenderned.NewClient(doer, infralogger.NewNop(), tenderned.WithBaseURL("https://api.example/v2/"))

	body, err := client.FetchNoticeXML(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, body)
	doer.AssertExpectations(t)
}

func TestFetchNoticeXML_InvalidIDSkipsNetwork(t *testing.T) {
	t.Parallel()

	doer := &mockDoer{}
	client := tenderned.NewClient(doer, infralogger.NewNop())

	_, err := client.FetchNoticeXML(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	doer.AssertNotCalled(t, "Do", mock.Anything)
}

func TestFetchNoticeXML_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := tenderned.NewClient(srv.Client(), infralogger.NewNop(), tenderned.WithBaseURL(srv.URL))

	_, err := client.FetchNoticeXML(ctx, 1)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindTransport))
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
