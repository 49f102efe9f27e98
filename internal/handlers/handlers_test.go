package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jjenkins/fieldservice/internal/service"
	"github.com/jjenkins/fieldservice/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fixedNow = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

func setupApp(t *testing.T) (*fiber.App, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	seq := 0
	svc := service.New(store.New(store.NewMemoryRepository(), logger), service.Options{
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger)})
	Register(app, svc, logger)
	return app, logs
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func territoryBody(number string) map[string]any {
	return map[string]any{
		"number":    number,
		"category":  "centro",
		"placeType": "casa",
		"url":       "https://maps.example/" + number + ".pdf",
	}
}

func TestTerritoryLifecycle(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/publishers", map[string]any{"name": "Ana López"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	pub := decode(t, resp)

	resp = doJSON(t, app, http.MethodPost, "/api/territories", territoryBody("7"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)
	id := created["id"].(string)
	assert.Equal(t, "not_started", created["status"])

	resp = doJSON(t, app, http.MethodPost, "/api/territories/"+id+"/assign", map[string]any{"assigneeId": pub["id"]})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assigned := decode(t, resp)
	assert.Equal(t, "in_progress", assigned["status"])

	resp = doJSON(t, app, http.MethodPost, "/api/territories/"+id+"/complete", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/territories/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode(t, resp)
	assert.Equal(t, "completed", view["status"])
	assert.Equal(t, "2024-03-15", view["lastCompleted"])
	assert.Equal(t, "Ana López", view["assigneeName"])
	assert.Len(t, view["history"], 2)
}

func TestValidationProblem(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/territories", map[string]any{"category": "centro"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))
	p := decode(t, resp)
	assert.Equal(t, "Validation failed", p["title"])
	errs := p["errors"].(map[string]any)
	assert.Contains(t, errs, "number")
	assert.Contains(t, errs, "url")
}

func TestNotFoundProblem(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodDelete, "/api/notices/missing", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	p := decode(t, resp)
	assert.Equal(t, "Not Found", p["title"])
	assert.Equal(t, "/api/notices/missing", p["instance"])
}

func TestInvalidStatusProblem(t *testing.T) {
	app, _ := setupApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/territories", territoryBody("3"))
	id := decode(t, resp)["id"].(string)

	resp = doJSON(t, app, http.MethodPost, "/api/territories/"+id+"/status", map[string]any{"status": "archived"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid status", decode(t, resp)["title"])
}

func TestJoinFullSchedule(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/schedules", map[string]any{
		"date":            "2024-03-20",
		"time":            "10:00",
		"location":        "Parque",
		"category":        "cart",
		"maxParticipants": 1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()
	var created []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Len(t, created, 1)
	path := "/api/schedules/" + created[0]["id"].(string) + "/participants"

	resp = doJSON(t, app, http.MethodPost, path, map[string]any{"name": "Ana"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, path, map[string]any{"name": "Luis"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestCalendar(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/calendar?month=2024-03", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cal := decode(t, resp)
	assert.Equal(t, "2024-03", cal["month"])
	assert.Equal(t, "2024-02", cal["prev"])

	resp = doJSON(t, app, http.MethodGet, "/api/calendar?month=March", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRestoreRejectsMissingKeys(t *testing.T) {
	app, _ := setupApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/restore", strings.NewReader(`{"territories":[]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	p := decode(t, resp)
	errs := p["errors"].(map[string]any)
	assert.ElementsMatch(t, []any{"publishers", "notices", "cleaningGroups"}, errs["missing"])
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	app, _ := setupApp(t)
	doJSON(t, app, http.MethodPost, "/api/territories", territoryBody("1"))

	resp := doJSON(t, app, http.MethodGet, "/api/backup", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "fieldservice-backup.json")
	backup, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	resp = doJSON(t, app, http.MethodDelete, "/api/data", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/territories", nil)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `[]`, string(body))

	req := httptest.NewRequest(http.MethodPost, "/api/restore", bytes.NewReader(backup))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decode(t, resp)
	assert.Equal(t, float64(1), stats["written"].(map[string]any)["territories"])

	resp = doJSON(t, app, http.MethodGet, "/api/territories", nil)
	defer resp.Body.Close()
	var list []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "1", list[0]["number"])
}

func TestUploadArea(t *testing.T) {
	app, _ := setupApp(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("number", "4"))
	fw, err := mw.CreateFormFile("file", "sur.pdf")
	require.NoError(t, err)
	content, err := os.ReadFile(filepath.Join("testdata", "objstm.pdf"))
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/areas", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	doc := decode(t, resp)
	assert.Equal(t, "4", doc["number"])
	assert.Equal(t, "sur", doc["name"])
	assert.Equal(t, float64(2), doc["pages"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/areas/"+doc["id"].(string)+"/file", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	file, _ := io.ReadAll(resp.Body)
	assert.Equal(t, content, file)

	resp = doJSON(t, app, http.MethodGet, "/api/areas/missing/file", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	collections := decode(t, resp)["collections"].([]any)
	require.Len(t, collections, 1)
	assert.Equal(t, "pdfFiles", collections[0].(map[string]any)["key"])
	assert.NotEmpty(t, collections[0].(map[string]any)["updatedAt"])
}

func TestUploadAreaWithoutFile(t *testing.T) {
	app, _ := setupApp(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("number", "4"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/areas", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCartToggle(t *testing.T) {
	app, _ := setupApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/schedules", map[string]any{
		"date": "2024-03-20", "time": "10:00", "location": "Plaza", "category": "cart",
	})
	defer resp.Body.Close()
	var created []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	id := created[0]["id"].(string)

	resp = doJSON(t, app, http.MethodPost, "/api/cart/"+id, nil)
	assert.Equal(t, true, decode(t, resp)["inCart"])
	resp = doJSON(t, app, http.MethodPost, "/api/cart/"+id, nil)
	assert.Equal(t, false, decode(t, resp)["inCart"])
}

func TestSettingsRoundTrip(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPut, "/api/settings", map[string]any{"congregation": "Polanco"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/settings", nil)
	assert.Equal(t, "Polanco", decode(t, resp)["congregation"])
}

func TestTerritoriesPagePartial(t *testing.T) {
	app, _ := setupApp(t)
	doJSON(t, app, http.MethodPost, "/api/territories", territoryBody("9"))

	req := httptest.NewRequest(http.MethodGet, "/territories?status=not_started", nil)
	req.Header.Set("HX-Request", "true")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(string(body), `<tbody id="territory-rows">`))
	assert.NotContains(t, string(body), "<html")

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/territories", nil), -1)
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "<html")
}

func TestHomePage(t *testing.T) {
	app, _ := setupApp(t)
	doJSON(t, app, http.MethodPost, "/api/notices", map[string]any{"title": "Asamblea <regional>", "content": "Sábado"})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Asamblea &lt;regional&gt;")
}

func TestHomePageEscapesRestoredData(t *testing.T) {
	app, logs := setupApp(t)
	backup := `{
		"territories": [],
		"publishers": [],
		"cleaningGroups": [],
		"notices": [{"id":"n1","title":"Aviso","content":"c","date":"2024-03-20","importance":"x\"><script>alert(1)</script>"}],
		"schedules": [{"id":"s1","date":"2024-03-20","time":"10:00","location":"Plaza","maxParticipants":2,"category":"y\"><img src=x onerror=alert(2)>"}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/restore", strings.NewReader(backup))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	html := string(body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, html, "<script>")
	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, `class="notice importance-medium"`)
	assert.Contains(t, html, `class="category-house"`)
	assert.GreaterOrEqual(t, logs.FilterMessage("repaired malformed data").Len(), 2)
}

func TestTerritoryReport(t *testing.T) {
	app, _ := setupApp(t)
	doJSON(t, app, http.MethodPost, "/api/territories", territoryBody("2"))

	resp := doJSON(t, app, http.MethodGet, "/api/reports/territories.xlsx", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xlsxContentType, resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))
}

func TestErrorHandlerLogsUnexpected(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core))})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fmt.Errorf("disk on fire")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	p := decode(t, resp)
	assert.Empty(t, p["detail"])
	require.Equal(t, 1, logs.FilterMessage("request failed").Len())
	assert.Equal(t, "/boom", logs.All()[0].ContextMap()["path"])
}
