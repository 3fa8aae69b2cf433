package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnableCors(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("wildcard origin", func(t *testing.T) {
		handler := EnableCors([]string{"*"})(next)

		request := httptest.NewRequest("GET", "/accounts", nil)
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)

		assert.Equal(t, "*", response.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusNoContent, response.Code)
	})

	t.Run("listed origin is echoed", func(t *testing.T) {
		handler := EnableCors([]string{"http://localhost:3000"})(next)

		request := httptest.NewRequest("GET", "/accounts", nil)
		request.Header.Set("Origin", "http://localhost:3000")
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)

		assert.Equal(t, "http://localhost:3000", response.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unlisted origin is rejected", func(t *testing.T) {
		handler := EnableCors([]string{"http://localhost:3000"})(next)

		request := httptest.NewRequest("GET", "/accounts", nil)
		request.Header.Set("Origin", "http://evil.example.com")
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)

		assert.Equal(t, "null", response.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight is answered without calling next", func(t *testing.T) {
		handler := EnableCors([]string{"*"})(next)

		request := httptest.NewRequest("OPTIONS", "/accounts", nil)
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)

		assert.Equal(t, http.StatusOK, response.Code)
	})
}
