package runner

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightFactory launches real browsers. Edge rides the chromium driver
// through the msedge channel; firefox uses its own engine.
type PlaywrightFactory struct {
	pw       *playwright.Playwright
	headless bool
}

// NewPlaywrightFactory starts the playwright driver. Close it when the run
// is done.
func NewPlaywrightFactory(headless bool) (*PlaywrightFactory, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	return &PlaywrightFactory{pw: pw, headless: headless}, nil
}

func (f *PlaywrightFactory) Close() error {
	return f.pw.Stop()
}

// NewPage opens a fresh browser, context, and page for one combination.
func (f *PlaywrightFactory) NewPage(browserName string, recordVideo bool, videoDir string) (playwright.Page, func() error, error) {
	browser, err := f.launch(browserName)
	if err != nil {
		return nil, nil, err
	}

	ctxOpts := playwright.BrowserNewContextOptions{}
	if recordVideo && videoDir != "" {
		ctxOpts.RecordVideo = &playwright.RecordVideo{Dir: videoDir}
	}
	bctx, err := browser.NewContext(ctxOpts)
	if err != nil {
		browser.Close()
		return nil, nil, fmt.Errorf("browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		return nil, nil, fmt.Errorf("new page: %w", err)
	}

	closer := func() error {
		// Context close finalizes the video file before the browser goes.
		cerr := bctx.Close()
		if berr := browser.Close(); cerr == nil {
			cerr = berr
		}
		return cerr
	}
	return page, closer, nil
}

func (f *PlaywrightFactory) launch(name string) (playwright.Browser, error) {
	opts := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(f.headless)}
	switch name {
	case "chrome", "":
		return f.pw.Chromium.Launch(opts)
	case "edge":
		opts.Channel = playwright.String("msedge")
		return f.pw.Chromium.Launch(opts)
	case "firefox":
		return f.pw.Firefox.Launch(opts)
	default:
		return nil, fmt.Errorf("unsupported browser %q", name)
	}
}
