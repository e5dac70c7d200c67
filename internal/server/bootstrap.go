package server

import (
	"github.com/rs/zerolog/log"

	"github.com/cortexai/toolhost/internal/config"
	"github.com/cortexai/toolhost/internal/inference"
	"github.com/cortexai/toolhost/internal/schema"
	"github.com/cortexai/toolhost/internal/security"
	"github.com/cortexai/toolhost/internal/service"
	"github.com/cortexai/toolhost/internal/tools"
)

const userAgent = "toolhost/1.0"

// Components are the long-lived objects shared by the HTTP server and the CLI.
type Components struct {
	Schemas  *schema.Store
	Registry *tools.Registry
	Executor *service.Executor
}

// Bootstrap builds the schema store, loads built-in and manifest tools and
// wires the executor. Problems with individual schemas or tool modules are
// logged and do not stop startup.
func Bootstrap(cfg *config.Config) *Components {
	schemas := schema.NewStore(cfg.SchemasPath)
	loaded, failed := schemas.Preload()
	log.Info().Str("dir", cfg.SchemasPath).Int("loaded", loaded).Int("failed", failed).Msg("schemas preloaded")

	scorer := inference.NewClient(cfg.UpstreamTimeout, userAgent)

	deps := tools.Deps{
		Scorer:           scorer,
		ImpactURL:        cfg.ImpactAPIURL,
		CategoryLevelURL: cfg.CategoryAPIURL,
	}
	if cfg.AnthropicAPIKey != "" {
		deps.Completer = inference.NewClaude(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL)
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set - sentiment_model disabled")
	}

	registry := tools.NewRegistry()
	candidates := tools.Builtin(deps)
	if cfg.ToolsPath != "" {
		manifests, err := tools.ScanDir(cfg.ToolsPath, scorer)
		if err != nil {
			log.Warn().Err(err).Str("dir", cfg.ToolsPath).Msg("tool manifests not loaded")
		}
		candidates = append(candidates, manifests...)
	}
	n := registry.LoadAll(candidates)
	log.Info().Int("registered", n).Int("candidates", len(candidates)).Msg("tools loaded")

	audit := security.NewAuditLogger(cfg.AuditLogging)
	return &Components{
		Schemas:  schemas,
		Registry: registry,
		Executor: service.NewExecutor(registry, schemas, audit),
	}
}
