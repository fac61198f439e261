package fleks_test

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edwinsyarief/fleks"
)

type logLine struct {
	Components []struct {
		Name string `json:"component_name"`
		ID   int    `json:"component_id"`
		Tag  bool   `json:"tag"`
	} `json:"components"`
	EntityID uint32 `json:"entity_id"`
	Holders  int    `json:"holders"`
	Total    int    `json:"total_components"`
}

// go test -run ^TestLogEntity$ . -count 1
func TestLogEntity(t *testing.T) {
	var buf bytes.Buffer
	w := newWorld(t, fleks.WithLogger(zerolog.New(&buf)))
	e := w.CreateEntity()
	require.NoError(t, fleks.Set(w, e, &Position{}))
	require.NoError(t, fleks.Set(w, e, &Frozen{}))
	buf.Reset()

	require.NoError(t, w.LogEntity(zerolog.InfoLevel, e))
	var line logLine
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, e.ID, line.EntityID)
	require.Len(t, line.Components, 2)

	byName := map[string]bool{}
	for _, c := range line.Components {
		byName[c.Name] = c.Tag
	}
	assert.Equal(t, map[string]bool{"fleks_test.Position": false, "fleks_test.Frozen": true}, byName)

	require.NoError(t, w.RemoveEntity(e))
	require.ErrorIs(t, w.LogEntity(zerolog.InfoLevel, e), fleks.ErrEntityNotAlive)
}

// go test -run ^TestLogComponents$ . -count 1
func TestLogComponents(t *testing.T) {
	var buf bytes.Buffer
	w := newWorld(t, fleks.WithLogger(zerolog.New(&buf)))
	require.NoError(t, fleks.Set(w, w.CreateEntity(), &Velocity{}))
	buf.Reset()

	w.LogComponents(zerolog.InfoLevel)
	var line logLine
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, 1, line.Holders)
	assert.Equal(t, len(fleks.RegisteredComponents()), line.Total)
	assert.Len(t, line.Components, line.Total)
}
