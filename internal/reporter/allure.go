package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"avqa/internal/runner"
)

// Allure result schema, one JSON file per executed combination. The
// directory is consumed by `allure generate`.

type allureLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type allureAttachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

type allureStatusDetails struct {
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

type allureResult struct {
	UUID          string               `json:"uuid"`
	HistoryID     string               `json:"historyId"`
	Name          string               `json:"name"`
	FullName      string               `json:"fullName"`
	Status        string               `json:"status"`
	StatusDetails *allureStatusDetails `json:"statusDetails,omitempty"`
	Stage         string               `json:"stage"`
	Start         int64                `json:"start"`
	Stop          int64                `json:"stop"`
	Labels        []allureLabel        `json:"labels"`
	Attachments   []allureAttachment   `json:"attachments,omitempty"`
}

// WriteAllure emits one *-result.json per combination into dir, copying
// screenshots and videos alongside as attachments.
func WriteAllure(dir string, res *SuiteResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("allure dir: %w", err)
	}
	stop := time.Now().UnixMilli()
	for _, cr := range res.Cases {
		for _, cb := range cr.Combos {
			if err := writeAllureCombo(dir, cr.CaseID, cb, stop); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeAllureCombo(dir, caseID string, cb runner.ComboResult, stop int64) error {
	id := uuid.NewString()
	ar := allureResult{
		UUID:      id,
		HistoryID: cb.Combo.Key(),
		Name:      cb.Name,
		FullName:  caseID + "." + cb.Name,
		Status:    "passed",
		Stage:     "finished",
		Start:     stop - int64(cb.DurationMs),
		Stop:      stop,
		Labels: []allureLabel{
			{Name: "suite", Value: caseID},
			{Name: "browser", Value: cb.Combo.Browser},
			{Name: "language", Value: cb.Combo.Language},
			{Name: "environment", Value: cb.Combo.Env},
		},
	}
	if !cb.Passed {
		ar.Status = "failed"
		ar.StatusDetails = &allureStatusDetails{
			Message: cb.Error,
			Trace:   failureText(cb),
		}
	}
	if att, err := copyAttachment(dir, cb.Screenshot, "screenshot", "image/png"); err == nil && att != nil {
		ar.Attachments = append(ar.Attachments, *att)
	}
	if att, err := copyAttachment(dir, cb.Video, "video", "video/webm"); err == nil && att != nil {
		ar.Attachments = append(ar.Attachments, *att)
	}

	data, err := json.MarshalIndent(ar, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, id+"-result.json"), data, 0o644)
}

func copyAttachment(dir, src, name, mime string) (*allureAttachment, error) {
	if src == "" {
		return nil, nil
	}
	in, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	target := uuid.NewString() + "-attachment" + filepath.Ext(src)
	out, err := os.Create(filepath.Join(dir, target))
	if err != nil {
		return nil, err
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return nil, err
	}
	return &allureAttachment{Name: name, Source: target, Type: mime}, nil
}
