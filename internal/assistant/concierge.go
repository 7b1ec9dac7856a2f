package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = `Ты консьерж курорта на Черноморском побережье (Сочи, Адлер, Красная Поляна, Лазаревское и соседние посёлки).
Отвечай кратко и по-русски, не больше трёх предложений.
Если вопрос относится к одному из разделов бота, укажи его: weather, excursions, accommodation, flights, stickers.
Верни JSON объект:
{
    "answer": "текст ответа",
    "section": "weather|excursions|accommodation|flights|stickers|"
}`

const (
	suggestText = "Похоже, вам пригодится раздел «%s». Нажмите кнопку ниже 👇"
	unknownText = "Я пока не знаю ответа на этот вопрос. Загляните в главное меню 👇"
)

// ChatCompleter is the part of the OpenAI client the concierge calls.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
}

// Reply is an answer plus the section the user should open next.
type Reply struct {
	Text     string
	Topic    Topic
	Fallback bool
}

type gptAnswer struct {
	Answer  string `json:"answer"`
	Section string `json:"section"`
}

// Concierge answers free-text questions. Without an API key it only uses
// keyword suggestions.
type Concierge struct {
	client      ChatCompleter
	model       string
	maxTokens   int
	temperature float64
	logger      *zap.Logger
}

func NewConcierge(cfg Config, logger *zap.Logger) *Concierge {
	var client ChatCompleter
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = cfg.BaseURL
		}
		client = openai.NewClientWithConfig(clientCfg)
	}
	return newConcierge(client, cfg, logger)
}

func newConcierge(client ChatCompleter, cfg Config, logger *zap.Logger) *Concierge {
	if cfg.Model == "" {
		cfg.Model = openai.GPT3Dot5Turbo
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	return &Concierge{
		client:      client,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger,
	}
}

func (c *Concierge) Answer(ctx context.Context, question string) Reply {
	question = strings.TrimSpace(question)
	if c.client == nil || question == "" {
		return fallback(question)
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: question},
		},
		MaxTokens:   c.maxTokens,
		Temperature: float32(c.temperature),
	})
	if err != nil {
		c.logger.Error("Failed to get GPT response", zap.Error(err))
		return fallback(question)
	}
	if len(resp.Choices) == 0 {
		c.logger.Error("GPT response has no choices")
		return fallback(question)
	}

	answer, err := parseAnswer(resp.Choices[0].Message.Content)
	if err != nil {
		c.logger.Error("Failed to parse GPT response",
			zap.Error(err),
			zap.String("response", resp.Choices[0].Message.Content))
		return fallback(question)
	}

	reply := Reply{Text: answer.Answer, Topic: TopicMainMenu}
	if topic, ok := TopicByTrigger(answer.Section); ok {
		reply.Topic = topic
	} else if topic, ok := Suggest(question); ok {
		reply.Topic = topic
	}
	return reply
}

func parseAnswer(raw string) (gptAnswer, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	var answer gptAnswer
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &answer); err != nil {
		return gptAnswer{}, err
	}
	answer.Answer = strings.TrimSpace(answer.Answer)
	answer.Section = strings.TrimSpace(answer.Section)
	if answer.Answer == "" {
		return gptAnswer{}, errors.New("empty answer")
	}
	return answer, nil
}

func fallback(question string) Reply {
	if topic, ok := Suggest(question); ok {
		return Reply{
			Text:     fmt.Sprintf(suggestText, sectionName(topic)),
			Topic:    topic,
			Fallback: true,
		}
	}
	return Reply{Text: unknownText, Topic: TopicMainMenu, Fallback: true}
}

// sectionName strips the emoji from a button label.
func sectionName(t Topic) string {
	if _, name, ok := strings.Cut(t.Label, " "); ok {
		return name
	}
	return t.Label
}
