package effects

import effectmodel "github.com/on-the-ground/boundrun/effects/internal/model"

// EffectScopeConfig sizes the workers of a partitionable handler.
type EffectScopeConfig = effectmodel.EffectScopeConfig

// NewEffectScopeConfig clamps both values to at least 1.
func NewEffectScopeConfig(bufferSize, numWorkers int) EffectScopeConfig {
	return effectmodel.NewEffectScopeConfig(bufferSize, numWorkers)
}
