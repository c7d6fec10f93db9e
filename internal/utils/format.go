package utils

import (
	"fmt"

	"github.com/amaumene/shelfspace/internal/models"
)

// FormatMinutes renders a minute count as "Xh Ym"
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

var typeEmoji = map[models.MediaType]string{
	models.MediaTypeMovie:      "🎬",
	models.MediaTypeShowSeason: "📺",
	models.MediaTypeBook:       "📖",
	models.MediaTypeBookEd:     "📚",
	models.MediaTypeComic:      "💭",
	models.MediaTypeGame:       "🎮",
	models.MediaTypeGameVR:     "🥽",
	models.MediaTypeGameMobile: "📱",
}

// EmojiForType returns a marker for terminal listings
func EmojiForType(mediaType models.MediaType) string {
	if emoji, ok := typeEmoji[mediaType]; ok {
		return emoji
	}
	return "📌"
}
