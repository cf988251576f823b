package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellistock/api/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// Sem docs/swagger.json a API tem de arrancar na mesma, só sem o UI de docs.
func TestMountSwagger_SemFicheiroNaoImpedeOArranque(t *testing.T) {
	t.Chdir(t.TempDir())

	app := fiber.New()
	require.NotPanics(t, func() { mountSwagger(app, testLogger()) })

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "sem ficheiro não há UI de docs")
}

func TestMountSwagger_ComFicheiroServeOUI(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs"), 0o755))
	spec := `{"swagger":"2.0","info":{"title":"IntelliStock API","version":"1.0"},"paths":{}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "swagger.json"), []byte(spec), 0o644))

	app := fiber.New()
	require.NotPanics(t, func() { mountSwagger(app, testLogger()) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/docs", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
