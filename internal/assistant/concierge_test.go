package assistant

import (
	"context"
	"errors"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeCompleter struct {
	content string
	err     error
	got     openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.got = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}},
	}, nil
}

func TestSuggest(t *testing.T) {
	cases := []struct {
		question string
		want     Topic
	}{
		{"Какая завтра ПОГОДА в Адлере?", TopicWeather},
		{"Где снять квартиру у моря", TopicAccommodation},
		{"Хочу на водопады", TopicExcursions},
		{"Сколько стоит билет из Москвы", TopicFlights},
		{"дайте стикеры", TopicStickers},
		{"будет дождь во время экскурсии?", TopicWeather},
	}
	for _, tc := range cases {
		got, ok := Suggest(tc.question)
		require.True(t, ok, tc.question)
		require.Equal(t, tc.want, got, tc.question)
	}

	_, ok := Suggest("привет")
	require.False(t, ok)
}

func TestAnswer_WithoutAPIKeyUsesKeywords(t *testing.T) {
	c := NewConcierge(Config{}, zaptest.NewLogger(t))

	reply := c.Answer(context.Background(), "где купить авиабилеты?")
	require.True(t, reply.Fallback)
	require.Equal(t, TopicFlights, reply.Topic)
	require.Equal(t, "Похоже, вам пригодится раздел «Авиабилеты». Нажмите кнопку ниже 👇", reply.Text)

	reply = c.Answer(context.Background(), "как дела")
	require.Equal(t, TopicMainMenu, reply.Topic)
	require.Equal(t, unknownText, reply.Text)
}

func TestAnswer_GPT(t *testing.T) {
	f := &fakeCompleter{content: "```json\n{\"answer\": \"В Сочи лучше всего в сентябре.\", \"section\": \"weather\"}\n```"}
	c := newConcierge(f, Config{Model: "gpt-4o-mini", MaxTokens: 100}, zaptest.NewLogger(t))

	reply := c.Answer(context.Background(), "Когда лучше ехать?")
	require.False(t, reply.Fallback)
	require.Equal(t, "В Сочи лучше всего в сентябре.", reply.Text)
	require.Equal(t, TopicWeather, reply.Topic)

	require.Equal(t, "gpt-4o-mini", f.got.Model)
	require.Equal(t, 100, f.got.MaxTokens)
	require.Len(t, f.got.Messages, 2)
	require.Equal(t, openai.ChatMessageRoleSystem, f.got.Messages[0].Role)
	require.Equal(t, "Когда лучше ехать?", f.got.Messages[1].Content)
}

func TestAnswer_GPTUnknownSectionFallsBackToKeywords(t *testing.T) {
	f := &fakeCompleter{content: `{"answer": "Есть отличные отели в Адлере.", "section": "hotels"}`}
	c := newConcierge(f, Config{}, zaptest.NewLogger(t))

	reply := c.Answer(context.Background(), "посоветуйте отель")
	require.Equal(t, TopicAccommodation, reply.Topic)
	require.False(t, reply.Fallback)
}

func TestAnswer_GPTFailures(t *testing.T) {
	for name, f := range map[string]*fakeCompleter{
		"transport": {err: errors.New("429 Too Many Requests")},
		"not json":  {content: "Конечно! Погода отличная."},
		"empty":     {content: `{"answer": ""}`},
	} {
		t.Run(name, func(t *testing.T) {
			c := newConcierge(f, Config{}, zaptest.NewLogger(t))
			reply := c.Answer(context.Background(), "прогноз на выходные")
			require.True(t, reply.Fallback)
			require.Equal(t, TopicWeather, reply.Topic)
		})
	}
}
