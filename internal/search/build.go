package search

import (
	"atelier/internal/config"
	"atelier/internal/llm"
	"atelier/internal/logging"
)

// FromConfig assembles the standard cascade: enhanced, basic, curated,
// procedural. Remote tiers are left out when gen is nil or remote search is
// disabled.
func FromConfig(cfg *config.Config, gen llm.Generator, images PageImages, generator Procedural) *Orchestrator {
	var tiers []Tier
	if gen != nil && cfg.RemoteSearchEnabled() {
		tiers = append(tiers,
			NewEnhancedTier(gen, cfg.LLM.EnhancedModel, images),
			NewBasicTier(gen, cfg.LLM.BasicModel),
		)
	} else {
		logging.Search("Remote tiers disabled; using local catalog only")
	}
	tiers = append(tiers, CuratedTier{}, NewProceduralTier(generator))

	return NewOrchestrator(tiers, generator,
		WithTimeout(cfg.GetSearchTimeout()),
		WithHistory(NewHistory(cfg.Search.HistorySize)),
	)
}
