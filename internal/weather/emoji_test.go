package weather

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyEmoji(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ясно", "☀️"},
		{"Ясно", "☀️"},
		{"облачно с прояснениями", "🌤"},
		{"переменная облачность", "⛅️"},
		{"небольшая облачность", "🌤"},
		{"облачно", "☁️"},
		{"пасмурно", "🌥"},
		{"небольшой дождь", "🌦"},
		{"сильный дождь", "⛈"},
		{"СИЛЬНЫЙ ДОЖДЬ", "⛈"},
		{"дождь", "🌧"},
		{"гроза", "🌩"},
		{"небольшой снег", "🌨"},
		{"туман", "🌫"},
		{"дымка", DefaultEmoji},
		{"", DefaultEmoji},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyEmoji(tc.in))
		})
	}
}

func TestWindDirection(t *testing.T) {
	cases := []struct {
		deg  float64
		want string
	}{
		{0, "северный"},
		{22.5, "северный"},
		{45, "северо-восточный"},
		{67.5, "восточный"},
		{90, "восточный"},
		{135, "юго-восточный"},
		{180, "южный"},
		{225, "юго-западный"},
		{270, "западный"},
		{315, "северо-западный"},
		{350, "северный"},
		{359.9, "северный"},
		{360, "северный"},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, WindDirection(tc.deg), "deg=%v", tc.deg)
	}
}

func TestVisibilityString(t *testing.T) {
	require.Equal(t, "нет данных", Visibility{}.String())
	require.Equal(t, "10 км", Visibility{Known: true, Km: 10}.String())
	require.Equal(t, "4.5 км", Visibility{Known: true, Km: 4.5}.String())
}
