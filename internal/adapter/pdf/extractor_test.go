package pdf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/plastinin/doctext/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDocument struct {
	pages  []string
	err    error
	closed bool
}

func (d *fakeDocument) NumPage() int { return len(d.pages) }

func (d *fakeDocument) PageText(page int) (string, error) {
	if d.err != nil && page == len(d.pages)-1 {
		return "", d.err
	}
	return d.pages[page], nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakeEngine struct {
	doc     *fakeDocument
	openErr error
	delay   time.Duration
}

func (e *fakeEngine) Name() string { return "fake" }

func (e *fakeEngine) Open(string) (Document, error) {
	time.Sleep(e.delay)
	if e.openErr != nil {
		return nil, e.openErr
	}
	return e.doc, nil
}

func TestExtractor_ConcatenatesInPageOrder(t *testing.T) {
	doc := &fakeDocument{pages: []string{"A", "B", "C"}}
	e := NewExtractor(&fakeEngine{doc: doc}, zap.NewNop())

	text, err := e.Extract(context.Background(), "three-pages.pdf")
	require.NoError(t, err)
	assert.Equal(t, "ABC", text)
	assert.True(t, doc.closed)
}

func TestExtractor_EmptyTextLayer(t *testing.T) {
	e := NewExtractor(&fakeEngine{doc: &fakeDocument{pages: []string{"", ""}}}, zap.NewNop())

	text, err := e.Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractor_OpenError(t *testing.T) {
	openErr := errors.Join(domain.ErrDocumentOpen, errors.New("no header"))
	e := NewExtractor(&fakeEngine{openErr: openErr}, zap.NewNop())

	_, err := e.Extract(context.Background(), "broken.pdf")
	assert.ErrorIs(t, err, domain.ErrDocumentOpen)
}

func TestExtractor_PageError(t *testing.T) {
	doc := &fakeDocument{pages: []string{"A", "B"}, err: errors.New("bad stream")}
	e := NewExtractor(&fakeEngine{doc: doc}, zap.NewNop())

	_, err := e.Extract(context.Background(), "x.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page 2")
	assert.True(t, doc.closed)
}

func TestExtractor_Timeout(t *testing.T) {
	e := NewExtractor(&fakeEngine{doc: &fakeDocument{pages: []string{"A"}}, delay: 200 * time.Millisecond}, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := e.Extract(ctx, "slow.pdf")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// writePDF генерирует документ, где каждая строка pages идёт отдельной страницей
func writePDF(t *testing.T, pages ...string) string {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(false)
	doc.SetFont("Helvetica", "", 14)
	for _, text := range pages {
		doc.AddPage()
		doc.Cell(40, 10, text)
	}

	path := filepath.Join(t.TempDir(), "generated.pdf")
	require.NoError(t, doc.OutputFileAndClose(path))
	return path
}

func TestNativeEngine_ReadsPagesInOrder(t *testing.T) {
	e := NewExtractor(NewNativeEngine(), zap.NewNop())

	text, err := e.Extract(context.Background(), writePDF(t, "A", "B", "C"))
	require.NoError(t, err)
	assert.Equal(t, "ABC", strings.Join(strings.Fields(text), ""))
}

func TestNativeEngine_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 this is not really a pdf"), 0o600))

	_, err := NewNativeEngine().Open(path)
	assert.ErrorIs(t, err, domain.ErrDocumentOpen)
}
