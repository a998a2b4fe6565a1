package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"golang.org/x/text/language"

	"leoga-storefront/engine"
	"leoga-storefront/models"
)

// itemsPerLookbookPage fills the 3x3 grid of one A4 page
const itemsPerLookbookPage = 9

//go:embed templates/lookbook.html
var lookbookHTML string

var lookbookTemplate = template.Must(template.New("lookbook").Funcs(template.FuncMap{
	"add": func(a, b int) int { return a + b },
}).Parse(lookbookHTML))

// LookbookService renders the items of a view as a printable lookbook
type LookbookService struct {
	locales    *LocaleService
	baseURL    string // Base URL the headless browser loads the HTML from (e.g., "http://localhost:8080")
	chromePath string
	timeout    time.Duration
}

// NewLookbookService creates a new LookbookService
func NewLookbookService(locales *LocaleService, baseURL, chromePath string) *LookbookService {
	return &LookbookService{
		locales:    locales,
		baseURL:    strings.TrimRight(baseURL, "/"),
		chromePath: chromePath,
		timeout:    30 * time.Second,
	}
}

// detectChromePath returns the configured Chrome/Chromium path, or the first common install found
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// paginateLookbook splits items into printed pages using the same paginator the views use
func paginateLookbook(items []models.CatalogItem) [][]models.CatalogItem {
	if len(items) == 0 {
		return nil
	}
	pager := engine.NewPaginator(itemsPerLookbookPage)
	pager.SetSource(items)

	pages := make([][]models.CatalogItem, 0, pager.Total())
	for i := 0; i < pager.Total(); i++ {
		pager.GoTo(i)
		pages = append(pages, pager.WindowItems(items))
	}
	return pages
}

// RenderHTML renders the lookbook page for the items currently matching a view
func (s *LookbookService) RenderHTML(view *engine.View, tag language.Tag) ([]byte, error) {
	state := view.Snapshot()

	filter := s.locales.T(tag, "catalog.all")
	if sel := state.Selection; sel.Committed() {
		filter = s.locales.T(tag, "facets."+sel.Facet+".title")
		if sel.Value != "" {
			filter += ": " + s.locales.T(tag, "facets."+sel.Facet+"."+sel.Value)
		}
	}

	data := struct {
		Lang      string
		Title     string
		Filter    string
		EmptyText string
		Pages     [][]models.CatalogItem
	}{
		Lang:      tag.String(),
		Title:     s.locales.T(tag, "lookbook.title"),
		Filter:    filter,
		EmptyText: s.locales.T(tag, "catalog.empty"),
		Pages:     paginateLookbook(view.Matches()),
	}

	var buf bytes.Buffer
	if err := lookbookTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// GeneratePDF prints the lookbook HTML of a view to PDF with headless Chrome
func (s *LookbookService) GeneratePDF(ctx context.Context, viewID string, tag language.Tag) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	renderURL := fmt.Sprintf("%s/views/%s/lookbook?lang=%s", s.baseURL, url.PathEscape(viewID), url.QueryEscape(tag.String()))
	log.Printf("📋 Rendering lookbook from %s", renderURL)

	var pdfBuf []byte
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 1123), // A4 at 96 DPI
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// Wait for fonts and images to load
		chromedp.Evaluate(`
			Promise.all([
				document.fonts.ready,
				Promise.all(Array.from(document.querySelectorAll('img')).map(img => new Promise(resolve => {
					if (img.complete) { resolve(); return; }
					const timeout = setTimeout(resolve, 5000);
					img.onload = img.onerror = () => { clearTimeout(timeout); resolve(); };
				})))
			]).then(() => true)
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// 210mm x 297mm = 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	lookbooksRendered.Inc()
	log.Printf("✓ Lookbook PDF generated for view %s (%d bytes)", viewID, len(pdfBuf))
	return pdfBuf, nil
}
