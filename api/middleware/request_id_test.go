package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bugie-app/bugie-backend/pkg/logger"
)

func TestRequestIDReplacesUnsafeValues(t *testing.T) {
	handler := RequestID(logger.Nop())(okHandler())

	for _, incoming := range []string{"", "short", "has spaces in it", "line\nbreak-000000"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, incoming)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		got := rec.Header().Get(RequestIDHeader)
		require.NotEqual(t, incoming, got)
		require.Len(t, got, 36)
	}
}

func TestRecovererReraisesAbort(t *testing.T) {
	handler := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
