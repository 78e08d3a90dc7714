package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionsOrder(t *testing.T) {
	defs := Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, CreateEvent, defs[0].Name)
	assert.Equal(t, GetEvents, defs[1].Name)
	assert.Equal(t, GetCourts, defs[2].Name)
}

func TestDefinitionsIsCopy(t *testing.T) {
	defs := Definitions()
	defs[0].Name = "changed"
	defs[0].Parameters["required"] = []any{"title"}
	props := defs[0].Parameters["properties"].(map[string]any)
	delete(props, "start_datetime")
	defs[0].Schema[0] = 'x'

	fresh := Definitions()[0]
	assert.Equal(t, CreateEvent, fresh.Name)
	assert.Equal(t, []string{"start_datetime"}, fresh.Required())
	assert.Contains(t, fresh.Parameters["properties"], "start_datetime")
	assert.Equal(t, byte('{'), fresh.Schema[0])

	looked, ok := Lookup(CreateEvent)
	require.True(t, ok)
	assert.Equal(t, []string{"start_datetime"}, looked.Required())
}

func TestDefinitionSchemas(t *testing.T) {
	create, ok := Lookup(CreateEvent)
	require.True(t, ok)
	assert.Equal(t, "object", create.Parameters["type"])
	assert.Equal(t, []string{"start_datetime"}, create.Required())
	assert.NotContains(t, create.Parameters, "$schema")
	assert.NotContains(t, create.Parameters, "$id")

	props, ok := create.Parameters["properties"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"title", "start_datetime", "end_datetime", "location_name", "location_url", "max_participants", "description"} {
		assert.Contains(t, props, name)
	}

	events, ok := Lookup(GetEvents)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"year", "month"}, events.Required())

	courts, ok := Lookup(GetCourts)
	require.True(t, ok)
	assert.Empty(t, courts.Required())
	assert.NotEmpty(t, courts.Schema)
}

func TestLookupUnknown(t *testing.T) {
	_, ok := Lookup("delete_everything")
	assert.False(t, ok)
}
