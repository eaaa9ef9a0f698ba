package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const defaultTimeout = 60 * time.Second

// ChromeDPConverter prints HTML to PDF with a headless Chrome.
type ChromeDPConverter struct {
	// RemoteWebSocketURL points at a running browser. Empty starts a local one.
	RemoteWebSocketURL string
	DefaultTimeout     time.Duration
	DefaultOptions     Options
}

func NewChromeDPConverter(remoteWebSocketURL string, timeout time.Duration) *ChromeDPConverter {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ChromeDPConverter{
		RemoteWebSocketURL: strings.TrimSpace(remoteWebSocketURL),
		DefaultTimeout:     timeout,
		DefaultOptions:     Apply(Options{}, PaperA4, MarginsNormal),
	}
}

func (c *ChromeDPConverter) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.RemoteWebSocketURL != "" {
		return chromedp.NewRemoteAllocator(ctx, c.RemoteWebSocketURL)
	}
	return chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
}

// PrintParams builds the print command for the given options.
func PrintParams(options Options) *page.PrintToPDFParams {
	params := page.PrintToPDF().
		WithPrintBackground(true).
		WithPreferCSSPageSize(true).
		WithMarginTop(options.MarginTopInch).
		WithMarginBottom(options.MarginBottomInch).
		WithMarginLeft(options.MarginLeftInch).
		WithMarginRight(options.MarginRightInch).
		WithLandscape(options.Landscape)

	if options.PaperWidthInch > 0 && options.PaperHeightInch > 0 {
		params = params.
			WithPaperWidth(options.PaperWidthInch).
			WithPaperHeight(options.PaperHeightInch)
	}

	return params
}

func (c *ChromeDPConverter) ConvertHTMLToPDF(ctx context.Context, html string, opts ...Option) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	params := PrintParams(Apply(c.DefaultOptions, opts...))

	timeoutCtx, cancel := context.WithTimeout(ctx, c.DefaultTimeout)
	defer cancel()

	allocCtx, allocCancel := c.allocator(timeoutCtx)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	var data []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			data, _, err = params.Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp print to pdf: %w", err)
	}

	return data, nil
}
