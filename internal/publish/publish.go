package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"lockin-cli/internal/model"

	"github.com/natefinch/atomic"
)

const (
	PlanFileName     = "lockin-plan.md"
	TemplateFileName = "lockin-template.md"
)

type WriteOptions struct {
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

func WritePlan(doc model.Document, toDir string, opt WriteOptions) (WriteResult, error) {
	return writeOne(toDir, PlanFileName, RenderPlanMarkdown(doc), opt)
}

func WriteTemplate(t model.Template, toDir string, opt WriteOptions) (WriteResult, error) {
	return writeOne(toDir, TemplateFileName, RenderTemplateMarkdown(t), opt)
}

func writeOne(toDir, name, md string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}
	outPath := filepath.Join(toDir, name)
	if err := writeFile(outPath, md, opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	return WriteResult{Written: []string{outPath}}, nil
}

func writeFile(path, s string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return atomic.WriteFile(path, strings.NewReader(s))
}
