package podcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoiceAssignment_RoleOf(t *testing.T) {
	va := VoiceAssignment{Primary: "Ana", Secondary: "Bruno"}

	assert.Equal(t, VoicePrimary, va.RoleOf("Ana"))
	assert.Equal(t, VoiceSecondary, va.RoleOf("Bruno"))
	// any further name shares the secondary voice
	assert.Equal(t, VoiceSecondary, va.RoleOf("Carla"))
}

func TestVoiceAssignment_Map(t *testing.T) {
	t.Run("two speakers", func(t *testing.T) {
		va := VoiceAssignment{Primary: "Ana", Secondary: "Bruno"}
		m := va.Map()
		assert.Len(t, m, 2)
		assert.Equal(t, VoicePrimary, m["Ana"])
		assert.Equal(t, VoiceSecondary, m["Bruno"])
	})

	t.Run("single speaker", func(t *testing.T) {
		va := VoiceAssignment{Primary: "Ana"}
		m := va.Map()
		assert.Len(t, m, 1)
		assert.Equal(t, VoicePrimary, m["Ana"])
	})

	t.Run("empty assignment", func(t *testing.T) {
		assert.Empty(t, VoiceAssignment{}.Map())
	})
}

func TestChunk_Text(t *testing.T) {
	t.Run("renders speaker-tagged lines", func(t *testing.T) {
		c := Chunk{Lines: []Line{
			{Speaker: "Ana", Text: "oi"},
			{Speaker: "Bruno", Text: "olá"},
		}}
		assert.Equal(t, "Ana: oi\nBruno: olá", c.Text())
	})

	t.Run("empty chunk", func(t *testing.T) {
		assert.Empty(t, Chunk{}.Text())
	})
}
