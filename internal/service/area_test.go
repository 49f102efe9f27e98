package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jjenkins/fieldservice/internal/store"
	"github.com/jjenkins/fieldservice/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readPDF(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return b
}

func TestParser_Parse(t *testing.T) {
	content := readPDF(t, "classic.pdf")

	res, err := NewParser().Parse(content)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, len(content), res.Size)
	assert.Len(t, res.Checksum, 32)

	decoded, ok := DecodeDataURL(res.DataURL)
	require.True(t, ok)
	assert.Equal(t, content, decoded)

	_, err = NewParser().Parse([]byte("GIF89a"))
	assert.ErrorIs(t, err, errNotPDF)
}

func TestParser_CountsPagesInObjectStreams(t *testing.T) {
	content := readPDF(t, "objstm.pdf")
	require.NotContains(t, string(content), "/Type /Page")

	res, err := NewParser().Parse(content)

	require.NoError(t, err)
	assert.Equal(t, 2, res.Pages)
	assert.Equal(t, len(content), res.Size)
}

func TestParser_RejectsUnreadablePDF(t *testing.T) {
	_, err := NewParser().Parse([]byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\n%%EOF\n"))

	assert.ErrorIs(t, err, errUnreadablePDF)
}

func TestAreaUpload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	content := readPDF(t, "classic.pdf")

	doc, err := env.svc.Areas.Upload(ctx, AreaUpload{Number: "12", Filename: "norte.pdf", Content: content})

	require.NoError(t, err)
	assert.Equal(t, "norte", doc.Name)
	assert.Equal(t, tracker.NotStarted, doc.Status)
	assert.Equal(t, 2, doc.Pages)
	assert.Contains(t, doc.URL, PDFDataURLPrefix)
	assert.Contains(t, env.raw(t, store.KeyAreas), `"number":"12"`)

	file, err := env.svc.Areas.File(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, content, file)

	_, err = env.svc.Areas.Upload(ctx, AreaUpload{Number: "13", Content: content})
	assert.Equal(t, []string{"file"}, fieldNames(t, err))

	_, err = env.svc.Areas.Upload(ctx, AreaUpload{Content: []byte("plain text")})
	assert.ElementsMatch(t, []string{"number"}, fieldNames(t, err))

	_, err = env.svc.Areas.Upload(ctx, AreaUpload{Number: "14", Content: []byte("plain text")})
	assert.Equal(t, []string{"file"}, fieldNames(t, err))
}

func TestAreaChangeStatusAndDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed(t, store.KeyAreas, `[{"id":"a1","number":"5","name":"Sur","url":"x","status":"시작전","history":[{"date":"bad","status":"완성"}]}]`)

	doc, err := env.svc.Areas.ChangeStatus(ctx, "a1", "진행중")
	require.NoError(t, err)
	assert.Equal(t, tracker.InProgress, doc.Status)
	require.Len(t, doc.History, 1)

	_, err = env.svc.Areas.File(ctx, "a1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.svc.Areas.ChangeStatus(ctx, "a1", "done")
	assert.ErrorIs(t, err, tracker.ErrInvalidStatus)

	list, err := env.svc.Areas.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, env.svc.Areas.Delete(ctx, "a1"))
	_, err = env.svc.Areas.Get(ctx, "a1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCartToggle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created, err := env.svc.Schedules.Create(ctx, cartShift("2024-04-01"))
	require.NoError(t, err)
	id := created[0].ID

	added, err := env.svc.Cart.Toggle(ctx, id)
	require.NoError(t, err)
	assert.True(t, added)

	items, err := env.svc.Cart.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Metro Insurgentes", items[0].Location)

	added, err = env.svc.Cart.Toggle(ctx, id)
	require.NoError(t, err)
	assert.False(t, added)
	items, err = env.svc.Cart.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = env.svc.Cart.Toggle(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, err := env.svc.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, s)

	_, err = env.svc.Settings.Put(ctx, map[string]any{"congregation": "Centro", "weeks": 4})
	require.NoError(t, err)

	s, err = env.svc.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Centro", s["congregation"])
	assert.EqualValues(t, 4, s["weeks"])

	env.seed(t, store.KeySettings, `[1,2]`)
	s, err = env.svc.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, s)
}
