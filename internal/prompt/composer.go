package prompt

import (
	"strings"
	"text/template"

	"jogai-backend/internal/model"
)

// Fallback replaces the scenario prompt whenever the template cannot be
// loaded or rendered. A templating problem must never break a conversation.
const Fallback = "Como posso te ajudar hoje?"

// ScenarioAck is the synthetic model turn appended right after the scenario
// prompt when the context is replayed to the upstream model.
const ScenarioAck = "Entendido. Estou ciente do cenário e pronto para prosseguir com a aventura."

// IntroInstruction is appended to the scenario prompt for the lazily
// generated first model turn of a new chat.
const IntroInstruction = "\n\n---\n" +
	"Com base no cenário acima, sua primeira resposta ao jogador deve ser:" +
	"\n1. Um breve e criativo resumo da aventura que você está prestes a mestrar (2-3 frases)." +
	"\n2. A pergunta clara: 'Deseja iniciar a aventura agora?'" +
	"\nResponda apenas com esse resumo e a pergunta."

// Composer renders the scenario template with a chat's narrative fields.
type Composer struct {
	tmpl *template.Template
}

// NewComposer parses the template at path. A missing or broken template is
// not an error: the composer stays usable and Render degrades to Fallback.
func NewComposer(path string) *Composer {
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return &Composer{}
	}
	return &Composer{tmpl: tmpl}
}

// Render substitutes the chat configuration into the scenario template.
// The second return value is false when the fixed fallback was substituted.
func (c *Composer) Render(cfg model.ChatConfig) (string, bool) {
	if c.tmpl == nil {
		return Fallback, false
	}

	var sb strings.Builder
	if err := c.tmpl.Execute(&sb, templateData(cfg)); err != nil {
		return Fallback, false
	}
	return sb.String(), true
}

// templateData flattens the config for the template, resolving the 'outro'
// sentinel so the template only deals in final values.
func templateData(cfg model.ChatConfig) map[string]any {
	universe := cfg.Universe
	if strings.EqualFold(universe, "outro") || universe == "" {
		universe = cfg.UniverseOther
	}
	genre := cfg.Genre
	if strings.EqualFold(genre, "outro") || genre == "" {
		genre = cfg.GenreOther
	}

	age := 0
	hasAge := cfg.Age != nil
	if hasAge {
		age = *cfg.Age
	}

	return map[string]any{
		"Universo":         universe,
		"Genero":           genre,
		"NomeProtagonista": cfg.ProtagonistName,
		"NomeUniversoJogo": cfg.GameWorldName,
		"NomeAntagonista":  cfg.AntagonistName,
		"Inspiracao":       cfg.Inspiration,
		"Idade":            age,
		"TemIdade":         hasAge,
	}
}
