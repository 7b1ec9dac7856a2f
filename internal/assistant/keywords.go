package assistant

import (
	"strings"
)

// Topic is a menu section a question can be routed to.
type Topic struct {
	Trigger string
	Label   string
}

var (
	TopicWeather       = Topic{Trigger: "weather", Label: "😎 Погода"}
	TopicExcursions    = Topic{Trigger: "excursions", Label: "🌴 Мои экскурсии"}
	TopicAccommodation = Topic{Trigger: "accommodation", Label: "🏖 Жильё"}
	TopicFlights       = Topic{Trigger: "flights", Label: "✈️ Авиабилеты"}
	TopicStickers      = Topic{Trigger: "stickers", Label: "🎨 Стикеры"}
	TopicMainMenu      = Topic{Trigger: "start", Label: "🏠 Главное меню"}
)

var topics = []Topic{TopicWeather, TopicExcursions, TopicAccommodation, TopicFlights, TopicStickers}

// Keyword stems, matched as substrings of the lowercased question.
// Earlier topics win.
var topicKeywords = map[string][]string{
	"weather":       {"погод", "дожд", "температур", "прогноз", "жарк", "холодн", "ветер", "солнц"},
	"excursions":    {"экскурс", "тур", "гид", "водопад", "горы", "поляна", "прогулк"},
	"accommodation": {"жил", "отел", "гостиниц", "квартир", "апартамент", "снять", "ночл"},
	"flights":       {"билет", "самолет", "самолёт", "рейс", "перелет", "перелёт", "авиа", "аэропорт"},
	"stickers":      {"стикер"},
}

// Suggest finds the menu section a free-text question is about.
func Suggest(text string) (Topic, bool) {
	text = strings.ToLower(text)
	for _, topic := range topics {
		for _, keyword := range topicKeywords[topic.Trigger] {
			if strings.Contains(text, keyword) {
				return topic, true
			}
		}
	}
	return Topic{}, false
}

// TopicByTrigger maps a section name back to its topic.
func TopicByTrigger(trigger string) (Topic, bool) {
	for _, topic := range topics {
		if topic.Trigger == trigger {
			return topic, true
		}
	}
	return Topic{}, false
}
