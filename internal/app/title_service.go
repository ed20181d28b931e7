package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"jogai-backend/internal/ai"
	"jogai-backend/internal/model"
)

// DefaultTitlePlaceholder is used when the client supplied no title of its own.
const DefaultTitlePlaceholder = "Nova Aventura RPG"

const otherSentinel = "outro"

// TitleService asks the upstream model for a short evocative session title
// at chat-creation time and falls back deterministically when it cannot.
type TitleService struct {
	generator Generator
	logger    *zap.Logger
}

func NewTitleService(generator Generator, logger *zap.Logger) *TitleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TitleService{generator: generator, logger: logger}
}

// Generate returns the chosen title and whether the model produced it. The
// second value is false whenever the deterministic fallback was used.
func (s *TitleService) Generate(ctx context.Context, cfg model.ChatConfig, placeholder string) (string, bool) {
	placeholder = strings.TrimSpace(placeholder)
	if placeholder == "" {
		placeholder = DefaultTitlePlaceholder
	}

	if s.generator != nil {
		if title, err := s.askModel(ctx, cfg); err != nil {
			s.logger.Warn("title generation failed, using fallback", zap.Error(err))
		} else if title != "" {
			return title, true
		}
	}

	return s.fallback(cfg, placeholder), false
}

func (s *TitleService) askModel(ctx context.Context, cfg model.ChatConfig) (string, error) {
	prompt := fmt.Sprintf(
		"Sugira um título curto e criativo (entre 3 e 7 palavras) para uma aventura de RPG sobre %s. "+
			"O título deve ser instigante. Exemplos: 'A Lança do Dragão Ancestral', 'Sombras em Neonville', 'O Enigma da Floresta Sussurrante'. "+
			"Responda APENAS com o título sugerido, sem introduções, explicações ou aspas em volta.",
		describe(cfg),
	)

	raw, err := s.generator.Generate(ctx, []ai.Content{{Role: ai.RoleUser, Text: prompt}})
	if err != nil {
		return "", err
	}
	return stripTitleArtifacts(raw), nil
}

// describe assembles the description the title prompt is built around, in the
// preference order universe, genre, protagonist.
func describe(cfg model.ChatConfig) string {
	var elements []string

	if cfg.Universe != "" && !strings.EqualFold(cfg.Universe, otherSentinel) {
		elements = append(elements, "universo de "+cfg.Universe)
	} else if cfg.UniverseOther != "" {
		elements = append(elements, "universo de "+cfg.UniverseOther)
	}

	if cfg.Genre != "" && !strings.EqualFold(cfg.Genre, otherSentinel) {
		elements = append(elements, "gênero "+cfg.Genre)
	} else if cfg.GenreOther != "" {
		elements = append(elements, "gênero "+cfg.GenreOther)
	}

	if cfg.ProtagonistName != "" {
		elements = append(elements, "com protagonista "+cfg.ProtagonistName)
	}

	if len(elements) == 0 {
		return "uma aventura de RPG"
	}
	return strings.Join(elements, ", ")
}

func (s *TitleService) fallback(cfg model.ChatConfig, placeholder string) string {
	if cfg.Universe != "" && !strings.EqualFold(cfg.Universe, otherSentinel) {
		return "Aventura em " + cfg.Universe
	}
	if cfg.UniverseOther != "" {
		return "Aventura em " + cfg.UniverseOther
	}
	return placeholder
}

// stripTitleArtifacts removes the quoting and prefix noise the model tends to
// wrap suggestions in.
func stripTitleArtifacts(raw string) string {
	title := strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(title), "título:") {
		title = strings.TrimSpace(title[len("título:"):])
	}
	if strings.HasPrefix(title, `"`) && strings.HasSuffix(title, `"`) && len(title) >= 2 {
		title = title[1 : len(title)-1]
	}
	if strings.HasPrefix(title, "'") && strings.HasSuffix(title, "'") && len(title) >= 2 {
		title = title[1 : len(title)-1]
	}
	return strings.TrimSpace(title)
}
