package server_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-bitmap/internal/adapter"
	"github.com/feral-file/ff-bitmap/internal/api/middleware"
	"github.com/feral-file/ff-bitmap/internal/api/rest"
	"github.com/feral-file/ff-bitmap/internal/api/server"
	"github.com/feral-file/ff-bitmap/internal/bitmap"
	"github.com/feral-file/ff-bitmap/internal/codec"
	"github.com/feral-file/ff-bitmap/internal/config"
	"github.com/feral-file/ff-bitmap/internal/fractal"
)

func TestRouter(t *testing.T) {
	factory := bitmap.NewFactory(
		adapter.NewFileSystem(),
		codec.NewDefaultRegistry(adapter.NewImageEncoder(), codec.DefaultConfig()),
	)
	handler := rest.NewHandler(factory, fractal.NewRenderer(1, adapter.NewClock()), adapter.NewIO(), config.LimitsConfig{MaxWidth: 32, MaxHeight: 32})

	srv := server.New(server.Config{
		AllowedOrigins: []string{"*"},
		Auth:           middleware.AuthConfig{APIKeys: []string{"secret"}},
	}, handler)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://feralfile.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.REQUEST_ID_HEADER))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/api/v1/images?width=1&height=1&pixel_format=gray8", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestShutdown_NotStarted(t *testing.T) {
	srv := server.New(server.Config{}, nil)
	assert.NoError(t, srv.Shutdown(t.Context()))
}
