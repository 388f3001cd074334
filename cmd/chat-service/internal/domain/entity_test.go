package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleAgent.Valid())
	assert.True(t, RoleBot.Valid())
	assert.False(t, Role("robot").Valid())
	assert.False(t, Role("").Valid())
}

func TestIntentJSONShape(t *testing.T) {
	var intent Intent
	require.NoError(t, json.Unmarshal([]byte(`{"intent":"search_product","confidence":0.9}`), &intent))
	assert.Equal(t, "search_product", intent.Label)
	assert.InDelta(t, 0.9, intent.Confidence, 1e-9)
}

func TestDefaultWidgetSettings(t *testing.T) {
	s := DefaultWidgetSettings()
	assert.Equal(t, "Zipper Bot", s.Title)
	assert.Equal(t, "bottom-right", s.Position)
	assert.Len(t, s.ReadyQuestions, 2)
	assert.True(t, s.EnableLiveChat)

	// camelCase wire shape consumed by the widget
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"primaryColor"`)
	assert.Contains(t, string(raw), `"readyQuestions"`)
}
