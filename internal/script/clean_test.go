package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeScript(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "canonical labels untouched",
			input:    "Apresentador 1: oi\nApresentador 2: olá",
			expected: "Apresentador 1: oi\nApresentador 2: olá",
		},
		{
			name:     "lowercase variant",
			input:    "apresentador 1: oi\napresentador 2: olá",
			expected: "Apresentador 1: oi\nApresentador 2: olá",
		},
		{
			name:     "host variant",
			input:    "Host 1: hello\nHOST 2: hi",
			expected: "Apresentador 1: hello\nApresentador 2: hi",
		},
		{
			name:     "locutor variant with spacing",
			input:    "Locutor 1 : oi\nlocutor2: olá",
			expected: "Apresentador 1: oi\nApresentador 2: olá",
		},
		{
			name:     "labels glued on one line get split",
			input:    "Apresentador 1: oi Apresentador 2: olá",
			expected: "Apresentador 1: oi \nApresentador 2: olá",
		},
		{
			name:     "blank runs collapse",
			input:    "Apresentador 1: oi\n\n\nApresentador 2: olá",
			expected: "Apresentador 1: oi\nApresentador 2: olá",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeScript(tt.input))
		})
	}
}

func TestCleanForTTS(t *testing.T) {
	t.Run("strips emphasis and stage directions", func(t *testing.T) {
		input := "**Apresentador 1:** Olá pessoal [risos] bem-vindos\nApresentador 2: Obrigado [pausa dramática] por ouvir"
		got := cleanForTTS(input)
		assert.Equal(t, "Apresentador 1: Olá pessoal  bem-vindos\nApresentador 2: Obrigado  por ouvir", got)
	})

	t.Run("drops narration lines", func(t *testing.T) {
		input := "Introdução do episódio\nApresentador 1: Vamos começar\n(música de fundo)\nApresentador 2: Sim!"
		got := cleanForTTS(input)
		assert.Equal(t, "Apresentador 1: Vamos começar\nApresentador 2: Sim!", got)
	})

	t.Run("returns original when nothing survives", func(t *testing.T) {
		input := "Roteiro sem marcação de locutores.\nApenas texto corrido."
		assert.Equal(t, input, cleanForTTS(input))
	})
}

func TestNormalizeThenClean(t *testing.T) {
	raw := "**host 1:** Bem-vindos ao programa [vinheta]\n\nhost 2: Hoje falamos de café"
	got := cleanForTTS(normalizeScript(raw))
	assert.Equal(t, "Apresentador 1: Bem-vindos ao programa\nApresentador 2: Hoje falamos de café", got)
}
