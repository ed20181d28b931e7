package model

import (
	"fmt"
	"math/rand"
	"time"
)

// ChatConfig holds the narrative pre-configuration of a chat. JSON keys keep
// the wire names the Flutter client already sends and expects.
type ChatConfig struct {
	Universe        string `gorm:"size:100" json:"universo"`
	UniverseOther   string `gorm:"size:255" json:"universo_outro"`
	Genre           string `gorm:"size:50" json:"genero"`
	GenreOther      string `gorm:"size:255" json:"genero_outro"`
	ProtagonistName string `gorm:"size:100" json:"nome_protagonista"`
	GameWorldName   string `gorm:"size:100" json:"nome_universo_jogo"`
	AntagonistName  string `gorm:"size:100" json:"nome_antagonista"`
	Inspiration     string `gorm:"type:text" json:"inspiracao"`
	Age             *int   `json:"age"`
}

type Chat struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	Title          string     `gorm:"size:100;not null" json:"title"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt time.Time  `gorm:"not null;index" json:"last_accessed_at"`
	Status         Status     `gorm:"size:50;not null;default:new" json:"status"`
	Observations   string     `gorm:"type:text" json:"observations"`
	Color          string     `gorm:"size:7" json:"color"`
	Config         ChatConfig `gorm:"embedded" json:"config"`

	Messages []Message `gorm:"constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

// RandomColor returns a display color in #RRGGBB form.
func RandomColor() string {
	return fmt.Sprintf("#%06x", rand.Intn(0x1000000))
}
