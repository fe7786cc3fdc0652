// Package evidence writes run artifacts: screenshots per the configured
// policy and the per-context video recording. Evidence capture is best
// effort and never fails a test.
package evidence

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// Screenshot modes.
const (
	ScreenshotsNone      = "none"
	ScreenshotsOnFailure = "on-failure"
	ScreenshotsAll       = "all"
)

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\[\]]`)
	underscores  = regexp.MustCompile(`_+`)
)

// SanitizeFilename replaces characters Windows forbids in file names, plus
// brackets, with underscores, and collapses runs of underscores.
func SanitizeFilename(name string) string {
	s := invalidChars.ReplaceAllString(name, "_")
	return underscores.ReplaceAllString(s, "_")
}

// ShouldCapture reports whether a screenshot is due under the mode.
func ShouldCapture(mode string, failed bool) bool {
	switch mode {
	case ScreenshotsAll:
		return true
	case ScreenshotsOnFailure:
		return failed
	default:
		return false
	}
}

// Recorder captures screenshots and resolves videos for one run.
type Recorder struct {
	dir  string
	mode string
	log  *zap.Logger
}

func NewRecorder(dir, mode string, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{dir: dir, mode: mode, log: log.With(zap.String("component", "evidence"))}
}

// Screenshot saves a full-page screenshot named after the test, when the
// mode asks for one. Returns the saved path, empty when skipped or failed.
func (r *Recorder) Screenshot(page playwright.Page, testName string, failed bool) string {
	if !ShouldCapture(r.mode, failed) {
		return ""
	}
	name := fmt.Sprintf("%s_%s.png", SanitizeFilename(testName), time.Now().Format("20060102_150405"))
	path := filepath.Join(r.dir, name)
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		r.log.Warn("screenshot dir", zap.Error(err))
		return ""
	}
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		r.log.Warn("screenshot failed", zap.String("test", testName), zap.Error(err))
		return ""
	}
	r.log.Info("screenshot saved", zap.String("path", path))
	return path
}

// VideoDir is where browser contexts should record when video is enabled.
func (r *Recorder) VideoDir() string {
	return filepath.Join(r.dir, "videos")
}

// ResolveVideo returns the path of the video recorded for the page, renamed
// after the test. Empty when no recording exists.
func (r *Recorder) ResolveVideo(page playwright.Page, testName string) string {
	video := page.Video()
	if video == nil {
		return ""
	}
	src, err := video.Path()
	if err != nil {
		r.log.Warn("video path", zap.String("test", testName), zap.Error(err))
		return ""
	}
	dst := filepath.Join(r.VideoDir(), SanitizeFilename(testName)+".webm")
	if err := video.SaveAs(dst); err != nil {
		r.log.Warn("video save", zap.String("test", testName), zap.Error(err))
		return src
	}
	r.log.Info("video saved", zap.String("path", dst))
	return dst
}
