package bootstrap

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"triage-backend/internal/llm"
	"triage-backend/internal/llm/ollama"
	"triage-backend/internal/process"
	"triage-backend/internal/shared/config"
	"triage-backend/internal/shared/server"
	"triage-backend/internal/shared/storage/object"
	localstore "triage-backend/internal/shared/storage/object/local"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	LLM       llm.Client
	Uploads   object.ObjectStore
	Downloads object.ObjectStore
	Service   *process.Service
	Handler   *process.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithClient(cfg, nil)
}

// BuildWithClient is Build with an injectable inference client, used by
// tests to substitute a fake backend.
func BuildWithClient(cfg config.Config, client llm.Client) (*App, error) {
	for _, dir := range []string{cfg.UploadDir, cfg.DownloadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}

	if client == nil {
		client = ollama.NewClient(cfg.OllamaBaseURL, cfg.DefaultModel, cfg.GenerateTimeout)
	}

	uploads := localstore.New(cfg.UploadDir)
	downloads := localstore.New(cfg.DownloadDir)

	svc := &process.Service{
		LLM:          client,
		Uploads:      uploads,
		Downloads:    downloads,
		DefaultModel: cfg.DefaultModel,
	}
	handler := process.NewHandler(svc, cfg.MaxUploadBytes)

	return &App{
		Config:    cfg,
		Router:    server.NewRouter(cfg, handler),
		LLM:       client,
		Uploads:   uploads,
		Downloads: downloads,
		Service:   svc,
		Handler:   handler,
	}, nil
}
