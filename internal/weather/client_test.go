package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeProvider struct {
	geocodeCalls atomic.Int32
	geocodeBody  string
	weatherBody  string
	forecastBody string
	status       int
	lastQuery    atomic.Value
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/geo/1.0/direct", func(w http.ResponseWriter, r *http.Request) {
		f.geocodeCalls.Add(1)
		fmt.Fprint(w, f.geocodeBody)
	})
	mux.HandleFunc("/data/2.5/weather", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery.Store(r.URL.Query())
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		fmt.Fprint(w, f.weatherBody)
	})
	mux.HandleFunc("/data/2.5/forecast", func(w http.ResponseWriter, r *http.Request) {
		f.lastQuery.Store(r.URL.Query())
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		fmt.Fprint(w, f.forecastBody)
	})
	return mux
}

func newTestClient(t *testing.T, f *fakeProvider) *Client {
	t.Helper()
	ts := httptest.NewServer(f.handler())
	t.Cleanup(ts.Close)

	return NewClient(Config{
		APIKey:   "test-key",
		BaseURL:  ts.URL + "/data/2.5",
		GeoURL:   ts.URL + "/geo/1.0",
		Location: moscow(t),
	}, zaptest.NewLogger(t))
}

const sochiGeo = `[{"name":"Сочи","lat":43.5855,"lon":39.7231,"country":"RU"}]`

const sochiWeather = `{
	"weather": [{"description": "облачно с прояснениями"}],
	"main": {"temp": 24.6, "feels_like": 25.1, "pressure": 1013, "humidity": 68},
	"visibility": 10000,
	"wind": {"speed": 3.4, "deg": 200},
	"clouds": {"all": 40},
	"sys": {"sunrise": 1720576800, "sunset": 1720631400}
}`

func TestClientCurrent(t *testing.T) {
	f := &fakeProvider{geocodeBody: sochiGeo, weatherBody: sochiWeather}
	c := newTestClient(t, f)

	cur, err := c.Current(context.Background(), "Сочи")
	require.NoError(t, err)

	require.Equal(t, "облачно с прояснениями", cur.Description)
	require.Equal(t, "🌤", cur.Emoji)
	require.Equal(t, 25, cur.Temp)
	require.Equal(t, 25, cur.FeelsLike)
	require.Equal(t, 68, cur.Humidity)
	require.Equal(t, 760, cur.Pressure)
	require.Equal(t, 3, cur.WindSpeed)
	require.Equal(t, "южный", cur.WindDirection)
	require.Equal(t, 40, cur.Clouds)
	// 1720576800 = 2024-07-10 02:00 UTC = 05:00 MSK
	require.Equal(t, "05:00", cur.Sunrise.Format("15:04"))
	require.Equal(t, "20:10", cur.Sunset.Format("15:04"))
	require.Equal(t, Visibility{Known: true, Km: 10}, cur.Visibility)

	require.EqualValues(t, 1, f.geocodeCalls.Load())
	q := f.lastQuery.Load().(url.Values)
	require.Equal(t, []string{"43.5855"}, q["lat"])
	require.Equal(t, []string{"ru"}, q["lang"])
	require.Equal(t, []string{"metric"}, q["units"])
	require.Equal(t, []string{"test-key"}, q["appid"])
}

func TestClientCurrent_MissingVisibility(t *testing.T) {
	body := strings.Replace(sochiWeather, `"visibility": 10000,`, "", 1)
	f := &fakeProvider{geocodeBody: sochiGeo, weatherBody: body}
	c := newTestClient(t, f)

	cur, err := c.Current(context.Background(), "Сочи")
	require.NoError(t, err)
	require.False(t, cur.Visibility.Known)
	require.Equal(t, "нет данных", cur.Visibility.String())
}

func TestClientCurrent_PinnedLocationSkipsGeocoding(t *testing.T) {
	f := &fakeProvider{weatherBody: sochiWeather}
	c := newTestClient(t, f)

	_, err := c.Current(context.Background(), "Красная Поляна")
	require.NoError(t, err)

	require.Zero(t, f.geocodeCalls.Load())
	q := f.lastQuery.Load().(url.Values)
	require.Equal(t, []string{"542681"}, q["id"])
	require.Empty(t, q["lat"])
}

func TestClientCurrent_LocationNotFound(t *testing.T) {
	f := &fakeProvider{geocodeBody: `[]`}
	c := newTestClient(t, f)

	_, err := c.Current(context.Background(), "Атлантида")
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestClientCurrent_UpstreamStatus(t *testing.T) {
	f := &fakeProvider{geocodeBody: sochiGeo, weatherBody: `{"cod":401,"message":"Invalid API key"}`, status: http.StatusUnauthorized}
	c := newTestClient(t, f)

	_, err := c.Current(context.Background(), "Сочи")
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Equal(t, "current", upstream.Op)
	require.Contains(t, err.Error(), "status=401")
}

func TestClientCurrent_MalformedPayload(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `<html>`,
		"no weather": `{"main": {"temp": 1}, "wind": {}, "sys": {}}`,
		"no main":    `{"weather": [{"description": "ясно"}], "wind": {}, "sys": {}}`,
	} {
		t.Run(name, func(t *testing.T) {
			f := &fakeProvider{geocodeBody: sochiGeo, weatherBody: body}
			c := newTestClient(t, f)

			_, err := c.Current(context.Background(), "Сочи")
			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream), "got %v", err)
		})
	}
}

func TestClientCurrent_ProviderDown(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()

	c := NewClient(Config{BaseURL: ts.URL, GeoURL: ts.URL, Location: moscow(t)}, zaptest.NewLogger(t))
	_, err := c.Current(context.Background(), "Сочи")

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	require.Equal(t, "geocode", upstream.Op)
}

func TestClientForecast_FiveDayFeed(t *testing.T) {
	start := time.Date(2024, 7, 10, 0, 0, 0, 0, moscow(t)).Unix()
	var items []string
	for i := 0; i < 40; i++ {
		items = append(items, fmt.Sprintf(
			`{"dt": %d, "main": {"temp": %d.4}, "weather": [{"description": "небольшой дождь"}]}`,
			start+int64(i)*3*3600, 20+i%5))
	}
	f := &fakeProvider{geocodeBody: sochiGeo, forecastBody: `{"cod":"200","list":[` + strings.Join(items, ",") + `]}`}
	c := newTestClient(t, f)

	days, err := c.Forecast(context.Background(), "Сочи", 7)
	require.NoError(t, err)

	require.Len(t, days, 5)
	for i, day := range days {
		require.Equal(t, 10+i, day.Date.Day())
		require.Equal(t, 20, day.TempMin)
		require.Equal(t, 24, day.TempMax)
		require.Equal(t, []string{"🌦"}, day.Emojis)
	}
}

func TestClientForecast_LocationNotFound(t *testing.T) {
	f := &fakeProvider{geocodeBody: `[]`}
	c := newTestClient(t, f)

	_, err := c.Forecast(context.Background(), "Атлантида", 7)
	require.ErrorIs(t, err, ErrLocationNotFound)
}

func TestClientForecast_MalformedPayload(t *testing.T) {
	for name, body := range map[string]string{
		"not json":        `<html>`,
		"no list":         `{}`,
		"provider error":  `{"cod":"404","message":"city not found"}`,
		"empty list":      `{"cod":"200","list":[]}`,
		"entry sans main": `{"list":[{"dt":1720576800}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			f := &fakeProvider{geocodeBody: sochiGeo, forecastBody: body}
			c := newTestClient(t, f)

			days, err := c.Forecast(context.Background(), "Сочи", 7)
			require.Nil(t, days)
			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream), "got %v", err)
			require.Equal(t, "forecast", upstream.Op)
		})
	}
}
