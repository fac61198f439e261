package fleks

import (
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

func loadComponentIntoArrayLogger(id ComponentID, arrayLogger *zerolog.Array) *zerolog.Array {
	dictLogger := zerolog.Dict()
	dictLogger = dictLogger.Int("component_id", int(id))
	dictLogger = dictLogger.Str("component_name", NameOf(id))
	dictLogger = dictLogger.Bool("tag", IsTag(id))
	return arrayLogger.Dict(dictLogger)
}

// LogComponents logs every registered component type, and how many holders
// this World has materialized.
func (w *World) LogComponents(level zerolog.Level) {
	ids := RegisteredComponents()
	arrayLogger := zerolog.Arr()
	for _, id := range ids {
		arrayLogger = loadComponentIntoArrayLogger(id, arrayLogger)
	}
	w.logger.WithLevel(level).
		Int("total_components", len(ids)).
		Int("holders", w.components.len()).
		Array("components", arrayLogger).
		Send()
}

// LogEntity logs the components of e.
func (w *World) LogEntity(level zerolog.Level, e Entity) error {
	if !w.IsAlive(e) {
		return eris.Wrapf(ErrEntityNotAlive, "entity %d version %d", e.ID, e.Version)
	}
	arrayLogger := zerolog.Arr()
	for _, id := range w.maskOf(e).IDs() {
		arrayLogger = loadComponentIntoArrayLogger(id, arrayLogger)
	}
	w.logger.WithLevel(level).
		Uint32("entity_id", e.ID).
		Uint32("entity_version", e.Version).
		Array("components", arrayLogger).
		Send()
	return nil
}
