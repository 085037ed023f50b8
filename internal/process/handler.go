package process

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"triage-backend/internal/extract"
	"triage-backend/internal/filetext"
	"triage-backend/internal/llm"
	"triage-backend/internal/sheet"
	"triage-backend/internal/shared/server/respond"
	"triage-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches processing routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/process-text", h.processText)
	rg.POST("/process-file", h.processFile)
	rg.GET("/health", h.health)
	rg.GET("/models", h.models)
}

type processTextRequest struct {
	Text           string `json:"text"`
	ProcessingType string `json:"processingType"`
	CustomPrompt   string `json:"customPrompt"`
	Model          string `json:"model"`
}

func (h *Handler) processText(c *gin.Context) {
	var req processTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInputMissing, "invalid request body")
		return
	}

	mode, ok := llm.ParseMode(req.ProcessingType)
	if !ok {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInputMissing, "unknown processingType")
		return
	}
	c.Set("processingType", string(mode))
	if req.Model != "" {
		c.Set("model", req.Model)
	}

	result, err := h.Svc.ProcessText(c.Request.Context(), TextRequest{
		Text:         req.Text,
		Mode:         mode,
		CustomPrompt: req.CustomPrompt,
		Model:        req.Model,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	respond.OK(c, gin.H{"result": result})
}

func (h *Handler) processFile(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInputMissing, "file is required")
		return
	}

	mode, ok := llm.ParseMode(c.PostForm("processingType"))
	if !ok {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInputMissing, "unknown processingType")
		return
	}
	customPrompt := c.PostForm("customPrompt")
	model := c.PostForm("model")
	c.Set("processingType", string(mode))
	if model != "" {
		c.Set("model", model)
	}

	sanitized, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInputMissing, "invalid file name")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInputMissing, "unable to read file")
		return
	}
	defer file.Close()

	if filetext.IsTextDocument(sanitized) {
		h.processTextDocument(c, file, sanitized, mode, customPrompt, model)
		return
	}

	switch strings.ToLower(filepath.Ext(sanitized)) {
	case ".xlsx", ".xlsm":
	default:
		respond.Error(c, http.StatusBadRequest, ErrorCodeUnsupportedFile, "unsupported file type")
		return
	}

	uploadKey, err := h.Svc.SaveUpload(c.Request.Context(), sanitized, file)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, ErrorCodeStorage, "failed to store upload")
		return
	}

	result, err := h.Svc.ProcessSheet(c.Request.Context(), SheetRequest{
		UploadKey:    uploadKey,
		OriginalName: sanitized,
		Mode:         mode,
		CustomPrompt: customPrompt,
		Model:        model,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}

	respond.OK(c, gin.H{
		"downloadUrl": result.DownloadURL,
		"rows":        result.RowCount,
	})
}

func (h *Handler) processTextDocument(c *gin.Context, file io.Reader, name string, mode llm.Mode, customPrompt, model string) {
	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, ErrorCodeInputMissing, "unable to read file")
		return
	}
	text, err := filetext.FromBytes(data, name)
	if err != nil {
		h.mapError(c, err)
		return
	}

	result, err := h.Svc.ProcessText(c.Request.Context(), TextRequest{
		Text:         text,
		Mode:         mode,
		CustomPrompt: customPrompt,
		Model:        model,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}
	respond.OK(c, gin.H{"result": result})
}

func (h *Handler) health(c *gin.Context) {
	respond.JSON(c, http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) models(c *gin.Context) {
	models, err := h.Svc.LLM.ListModels(c.Request.Context())
	if err != nil {
		h.mapError(c, err)
		return
	}
	respond.OK(c, gin.H{"models": models})
}

// mapError translates the typed error taxonomy onto HTTP statuses. Raw model
// text never reaches the caller; the extraction packages log it server-side.
func (h *Handler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInputMissing):
		respond.Error(c, http.StatusBadRequest, ErrorCodeInputMissing, err.Error())
	case errors.Is(err, filetext.ErrUnsupportedType):
		respond.Error(c, http.StatusBadRequest, ErrorCodeUnsupportedFile, "unsupported file type")
	case errors.Is(err, sheet.ErrNoSheets), errors.Is(err, sheet.ErrNoHeader):
		respond.Error(c, http.StatusBadRequest, ErrorCodeInvalidSheet, "spreadsheet could not be read")
	case errors.Is(err, llm.ErrTimeout):
		respond.Error(c, http.StatusGatewayTimeout, ErrorCodeBackendTimeout, "inference backend timed out")
	case errors.Is(err, llm.ErrConnectionFailed):
		respond.Error(c, http.StatusBadGateway, ErrorCodeBackendDown, "inference backend unreachable")
	case errors.Is(err, llm.ErrBackend):
		respond.Error(c, http.StatusBadGateway, ErrorCodeBackendError, err.Error())
	case errors.Is(err, llm.ErrMalformedReply):
		respond.Error(c, http.StatusBadGateway, ErrorCodeMalformedReply, "inference backend returned an unreadable reply")
	case errors.Is(err, llm.ErrEmptyReply):
		respond.Error(c, http.StatusBadGateway, ErrorCodeEmptyReply, "inference backend returned an empty reply")
	case errors.Is(err, extract.ErrNoJSONArray), errors.Is(err, extract.ErrInvalidJSON):
		respond.Error(c, http.StatusBadGateway, ErrorCodeNoStructured, "model reply did not contain structured data")
	default:
		respond.Error(c, http.StatusInternalServerError, ErrorCodeInternal, "processing failed")
	}
}
