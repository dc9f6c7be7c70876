package extraction

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(name, text string, calls *[]string) Strategy {
	return Strategy{Name: name, Run: func(context.Context, []byte) (string, error) {
		*calls = append(*calls, name)
		return text, nil
	}}
}

func failing(name string, calls *[]string) Strategy {
	return Strategy{Name: name, Run: func(context.Context, []byte) (string, error) {
		*calls = append(*calls, name)
		return "", errors.New(name + " broke")
	}}
}

var longText = strings.Repeat("Experienced backend engineer. ", 3)

func TestExtract_PDFFirstConfidentWins(t *testing.T) {
	var calls []string
	e := New(WithPDFStrategies(
		fixed("one", "too short", &calls),
		failing("two", &calls),
		fixed("three", longText, &calls),
		fixed("four", longText+" and better", &calls),
	))

	text, err := e.Extract(context.Background(), []byte("%PDF"), ".pdf")
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(longText), text)
	assert.Equal(t, []string{"one", "two", "three"}, calls)
}

func TestExtract_PDFThresholdIsStrict(t *testing.T) {
	var calls []string
	exactly50 := strings.Repeat("x", 50)
	e := New(WithPDFStrategies(fixed("one", "   "+exactly50+"   ", &calls)))

	text, err := e.Extract(context.Background(), nil, "PDF")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtract_PDFAllFailIsEmptyNotError(t *testing.T) {
	var calls []string
	e := New(WithPDFStrategies(
		failing("a", &calls),
		fixed("b", "", &calls),
		Strategy{Name: "c", Run: func(context.Context, []byte) (string, error) { panic("boom") }},
	))

	text, err := e.Extract(context.Background(), []byte("garbage"), ".pdf")
	require.NoError(t, err)
	assert.Empty(t, text)
	assert.Equal(t, []string{"a", "b"}, calls)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("x"), ".txt")
	require.Error(t, err)

	var ufe *UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, ".txt", ufe.Ext)
	assert.Contains(t, err.Error(), ".txt")
}

func TestExtract_DOCXFailureIsHardError(t *testing.T) {
	_, err := New().Extract(context.Background(), []byte("not a zip"), ".docx")
	require.Error(t, err)

	var ee *ExtractionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "DOCX", ee.Format)
}

func TestRecover_GarbledReplacedByMetadata(t *testing.T) {
	var calls []string
	garbled := strings.Repeat("\x00", 300)
	e := New(
		WithMetadataScanner(func([]byte) string { return longText }),
		WithRecoveryStrategies(fixed("late", "should not run", &calls)),
	)

	got := e.Recover(context.Background(), nil, ".pdf", garbled)
	assert.Equal(t, longText, got)
	assert.Empty(t, calls)
}

func TestRecover_ShortMetadataLeavesTextGarbled(t *testing.T) {
	garbled := strings.Repeat("\x00", 300)
	e := New(WithMetadataScanner(func([]byte) string { return "tiny" }))

	got := e.Recover(context.Background(), nil, ".pdf", garbled)
	assert.Equal(t, garbled, got)
	assert.Equal(t, OutcomeGarbled, e.Thresholds().Classify(got))
}

func TestRecover_EmptyWalksRecoveryChain(t *testing.T) {
	var calls []string
	e := New(WithRecoveryStrategies(
		failing("layer", &calls),
		fixed("advanced", "  ", &calls),
		fixed("simple", "found words", &calls),
	))

	got := e.Recover(context.Background(), nil, ".pdf", "")
	assert.Equal(t, "found words", got)
	assert.Equal(t, []string{"layer", "advanced", "simple"}, calls)
}

func TestRecover_NonPDFUntouched(t *testing.T) {
	var calls []string
	e := New(WithRecoveryStrategies(fixed("x", "y", &calls)))

	assert.Equal(t, "", e.Recover(context.Background(), nil, ".docx", ""))
	assert.Empty(t, calls)
}

func TestExtFromFilename(t *testing.T) {
	assert.Equal(t, ".pdf", ExtFromFilename("Resume.PDF"))
	assert.Equal(t, ".docx", ExtFromFilename("cv.final.docx"))
	assert.Equal(t, "", ExtFromFilename("README"))
	assert.Equal(t, ".pdf", NormalizeExt("pdf"))
}
