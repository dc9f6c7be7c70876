package extraction

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	einopdf "github.com/cloudwego/eino-ext/components/document/parser/pdf"
	einoparser "github.com/cloudwego/eino/components/document/parser"
	dpdf "github.com/dslipak/pdf"
	lpdf "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ObjectParserTimeout bounds the object-parser strategy, the only one known
// to hang on some malformed files.
const ObjectParserTimeout = 10 * time.Second

// Strategy names, in default order.
const (
	StrategyContentStream = "content-stream"
	StrategyPlainText     = "plain-text"
	StrategyObjectParser  = "object-parser"
	StrategyTextLayer     = "text-layer"
	StrategyStructural    = "structural"
	StrategyAdvancedScan  = "advanced-scan"
	StrategySimpleScan    = "simple-scan"
)

// DefaultPDFStrategies is the primary PDF chain.
func DefaultPDFStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyContentStream, Run: contentStreamText},
		{Name: StrategyPlainText, Run: plainText},
		{Name: StrategyObjectParser, Run: objectParserText},
		{Name: StrategyTextLayer, Run: TextLayerText},
		{Name: StrategyStructural, Run: structuralText},
	}
}

// DefaultRecoveryStrategies is walked by Recover when the primary chain
// produced nothing.
func DefaultRecoveryStrategies() []Strategy {
	return []Strategy{
		{Name: StrategyTextLayer, Run: TextLayerText},
		{Name: StrategyAdvancedScan, Run: func(_ context.Context, data []byte) (string, error) {
			return AdvancedScan(data), nil
		}},
		{Name: StrategySimpleScan, Run: func(_ context.Context, data []byte) (string, error) {
			return SimpleScan(data), nil
		}},
	}
}

func readPDFContext(data []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	pctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return pctx, nil
}

// contentStreamText decodes each page's content streams and collects the
// operands of text-showing operators inside BT/ET blocks.
func contentStreamText(_ context.Context, data []byte) (string, error) {
	pctx, err := readPDFContext(data)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil || len(content) == 0 {
			continue
		}
		sb.WriteString(TextFromContentStream(content))
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String()), nil
}

func plainText(_ context.Context, data []byte) (string, error) {
	r, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return strings.TrimSpace(sb.String()), nil
}

func objectParserText(ctx context.Context, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, ObjectParserTimeout)
	defer cancel()

	p, err := einopdf.NewPDFParser(ctx, &einopdf.Config{ToPages: false})
	if err != nil {
		return "", fmt.Errorf("create object parser: %w", err)
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("object parser panicked: %v", r)}
			}
		}()
		docs, err := p.Parse(ctx, bytes.NewReader(data),
			einoparser.WithExtraMeta(map[string]any{"source": "upload"}))
		if err != nil {
			done <- result{err: err}
			return
		}
		parts := make([]string, 0, len(docs))
		for _, doc := range docs {
			if doc != nil && doc.Content != "" {
				parts = append(parts, doc.Content)
			}
		}
		done <- result{text: strings.Join(parts, "\n")}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("object parser: %w", ctx.Err())
	case res := <-done:
		return strings.TrimSpace(res.text), res.err
	}
}

// TextLayerText joins every positioned text item on each page with spaces,
// one line per page.
func TextLayerText(_ context.Context, data []byte) (string, error) {
	r, err := dpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open PDF: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		items := page.Content().Text
		words := make([]string, 0, len(items))
		for _, item := range items {
			words = append(words, item.S)
		}
		sb.WriteString(strings.Join(words, " "))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// structuralText is the last resort: whatever the document information
// dictionary carries.
func structuralText(_ context.Context, data []byte) (string, error) {
	pctx, err := readPDFContext(data)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, field := range []struct{ key, value string }{
		{"Title", pctx.Title},
		{"Author", pctx.Author},
		{"Subject", pctx.Subject},
		{"Keywords", pctx.Keywords},
	} {
		if v := strings.TrimSpace(field.value); v != "" {
			lines = append(lines, field.key+": "+v)
		}
	}
	return strings.Join(lines, "\n"), nil
}
