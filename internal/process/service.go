package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"triage-backend/internal/extract"
	"triage-backend/internal/llm"
	"triage-backend/internal/reconcile"
	"triage-backend/internal/sheet"
	"triage-backend/internal/shared/storage/object"
	"triage-backend/internal/shared/telemetry"
	"triage-backend/internal/tabular"
)

// Service drives the processing pipeline. All state is request-scoped; the
// service itself only holds collaborators, so concurrent requests never
// interact.
type Service struct {
	LLM          llm.Client
	Uploads      object.ObjectStore
	Downloads    object.ObjectStore
	DefaultModel string
}

// TextRequest is one plain-text processing call.
type TextRequest struct {
	Text         string
	Mode         llm.Mode
	CustomPrompt string
	Model        string
}

// ProcessText runs the text path: prompt, generate, return the reply
// verbatim. No extraction or reconciliation applies to free text.
func (s *Service) ProcessText(ctx context.Context, req TextRequest) (string, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return "", fmt.Errorf("%w: text is required", ErrInputMissing)
	}

	prompt := llm.BuildPrompt(req.Mode, req.CustomPrompt, text)
	return s.LLM.Generate(ctx, llm.GenerateInput{
		Prompt: prompt,
		Model:  s.resolveModel(req.Model),
	})
}

// SheetRequest is one spreadsheet processing call. UploadKey points at the
// transient stored upload; OriginalName is the sanitized client file name.
type SheetRequest struct {
	UploadKey    string
	OriginalName string
	Mode         llm.Mode
	CustomPrompt string
	Model        string
}

// SheetResult names the finished artifact.
type SheetResult struct {
	DownloadURL string
	RowCount    int
}

// ProcessSheet runs the tabular path: decode, prompt, generate, extract,
// reconcile, re-encode, store under a collision-resistant name. The
// transient upload is removed best-effort once the artifact is written.
func (s *Service) ProcessSheet(ctx context.Context, req SheetRequest) (SheetResult, error) {
	body, err := s.Uploads.Open(ctx, req.UploadKey)
	if err != nil {
		return SheetResult{}, fmt.Errorf("open upload %s: %w", req.UploadKey, err)
	}
	rows, err := sheet.Decode(body)
	body.Close()
	if err != nil {
		return SheetResult{}, err
	}
	if len(rows) == 0 {
		return SheetResult{}, fmt.Errorf("%w: spreadsheet has no data rows", ErrInputMissing)
	}

	rowsJSON, err := tabular.MarshalRows(rows)
	if err != nil {
		return SheetResult{}, err
	}

	model := s.resolveModel(req.Model)
	prompt := llm.BuildPrompt(req.Mode, req.CustomPrompt, rowsJSON)
	reply, err := s.LLM.Generate(ctx, llm.GenerateInput{Prompt: prompt, Model: model})
	if err != nil {
		return SheetResult{}, err
	}

	records, err := extract.Records(reply)
	if err != nil {
		return SheetResult{}, err
	}

	merged := reconcile.Rows(rows, records, policyFor(req.Mode))
	encoded, err := sheet.Encode(merged)
	if err != nil {
		return SheetResult{}, err
	}

	outName := OutputName(model, req.OriginalName, time.Now())
	if _, err := s.Downloads.SaveWithKey(ctx, outName, bytes.NewReader(encoded)); err != nil {
		return SheetResult{}, fmt.Errorf("store output: %w", err)
	}

	s.cleanupUpload(ctx, req.UploadKey)

	return SheetResult{
		DownloadURL: "/downloads/" + outName,
		RowCount:    len(merged),
	}, nil
}

// SaveUpload stores an incoming file transiently and returns its key.
func (s *Service) SaveUpload(ctx context.Context, fileName string, r io.Reader) (string, error) {
	key, _, err := s.Uploads.Save(ctx, fileName, r)
	return key, err
}

// policyFor picks the reconciliation policy per processing mode: triage
// overlays onto the originals, custom trusts the model to emit full rows.
func policyFor(mode llm.Mode) reconcile.Policy {
	if mode == llm.ModeIssueTriage {
		return reconcile.Overlay
	}
	return reconcile.Replace
}

func (s *Service) resolveModel(model string) string {
	if trimmed := strings.TrimSpace(model); trimmed != "" {
		return trimmed
	}
	return s.DefaultModel
}

// cleanupUpload is best-effort: the artifact is already written, so a stuck
// transient file is only worth a log line.
func (s *Service) cleanupUpload(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.Uploads.Delete(ctx, key); err != nil {
		telemetry.Error("upload.cleanup_failed", map[string]any{
			"key": key,
			"err": err.Error(),
		})
	}
}
