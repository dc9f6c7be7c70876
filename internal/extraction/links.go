package extraction

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/jonathan/cv-perfecto/internal/logger"
)

// AdditionalURLs harvests hyperlink targets from document structure: PDF link
// annotations or DOCX anchors. It never fails; structural problems yield an
// empty slice. Order of first appearance is kept and duplicates are dropped.
func (e *Extractor) AdditionalURLs(ctx context.Context, data []byte, ext string) []string {
	var (
		urls []string
		err  error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				urls = nil
				logger.Ctx(ctx).Debug().Interface("panic", r).Msg("link extraction panicked")
			}
		}()
		switch NormalizeExt(ext) {
		case ExtPDF:
			urls, err = e.pdfLinks(data)
		case ExtDOCX:
			urls, err = docxHrefs(data)
		}
	}()
	if err != nil {
		logger.Ctx(ctx).Debug().Err(err).Str("ext", ext).Msg("link extraction failed")
		return []string{}
	}
	return dedupe(urls)
}

func pdfLinkURIs(data []byte) ([]string, error) {
	pctx, err := readPDFContext(data)
	if err != nil {
		return nil, err
	}

	var uris []string
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		pageDict, _, _, err := pctx.PageDict(pageNr, false)
		if err != nil || pageDict == nil {
			continue
		}
		obj, found := pageDict.Find("Annots")
		if !found {
			continue
		}
		annots, err := pctx.DereferenceArray(obj)
		if err != nil {
			continue
		}
		for _, a := range annots {
			annot, err := pctx.DereferenceDict(a)
			if err != nil || annot == nil {
				continue
			}
			if subtype := annot.NameEntry("Subtype"); subtype == nil || *subtype != "Link" {
				continue
			}
			if actionObj, ok := annot.Find("A"); ok {
				if action, err := pctx.DereferenceDict(actionObj); err == nil && action != nil {
					if uri := uriEntry(pctx, action); uri != "" {
						uris = append(uris, uri)
					}
				}
			}
			if uri := uriEntry(pctx, annot); uri != "" {
				uris = append(uris, uri)
			}
		}
	}
	return uris, nil
}

// uriEntry decodes the /URI value of d, which may be a literal or hex string.
func uriEntry(pctx *model.Context, d types.Dict) string {
	obj, found := d.Find("URI")
	if !found {
		return ""
	}
	obj, err := pctx.Dereference(obj)
	if err != nil || obj == nil {
		return ""
	}

	var s string
	switch v := obj.(type) {
	case types.StringLiteral:
		s, err = types.StringLiteralToString(v)
	case types.HexLiteral:
		s, err = types.HexLiteralToString(v)
	default:
		return ""
	}
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func docxHrefs(data []byte) ([]string, error) {
	page, err := DocxHTML(data)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, err
	}

	var hrefs []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && strings.TrimSpace(href) != "" {
			hrefs = append(hrefs, strings.TrimSpace(href))
		}
	})
	return hrefs, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
