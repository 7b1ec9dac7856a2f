package weather

import (
	"math"
	"strings"
)

const DefaultEmoji = "🌡"

type emojiRule struct {
	keyword string
	emoji   string
}

// Evaluated top to bottom. Longer phrases must precede the keywords they
// contain ("сильный дождь" before "дождь").
var emojiRules = []emojiRule{
	{"ясно", "☀️"},
	{"облачно с прояснениями", "🌤"},
	{"переменная облачность", "⛅️"},
	{"небольшая облачность", "🌤"},
	{"облачно", "☁️"},
	{"пасмурно", "🌥"},
	{"небольшой дождь", "🌦"},
	{"сильный дождь", "⛈"},
	{"дождь", "🌧"},
	{"гроза", "🌩"},
	{"снег", "🌨"},
	{"туман", "🌫"},
}

// ClassifyEmoji maps a provider description to an emoji tag.
func ClassifyEmoji(description string) string {
	text := strings.ToLower(description)
	for _, rule := range emojiRules {
		if strings.Contains(text, rule.keyword) {
			return rule.emoji
		}
	}
	return DefaultEmoji
}

var windDirections = [8]string{
	"северный", "северо-восточный", "восточный", "юго-восточный",
	"южный", "юго-западный", "западный", "северо-западный",
}

// WindDirection converts a bearing in degrees to a compass label.
func WindDirection(degrees float64) string {
	idx := int(math.RoundToEven(degrees/45)) % 8
	if idx < 0 {
		idx += 8
	}
	return windDirections[idx]
}

// roundTemp rounds half to even: 2.5 -> 2, 3.5 -> 4.
func roundTemp(v float64) int {
	return int(math.RoundToEven(v))
}
