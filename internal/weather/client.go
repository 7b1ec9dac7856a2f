package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"
)

const (
	DefaultBaseURL  = "https://api.openweathermap.org/data/2.5"
	DefaultGeoURL   = "https://api.openweathermap.org/geo/1.0"
	DefaultTimezone = "Europe/Moscow"

	// hPa -> mmHg
	pressureFactor = 0.750062
)

// DefaultPinnedIDs lists locations that geocoding resolves poorly; they are
// queried by the provider's own city id instead.
var DefaultPinnedIDs = map[string]int{
	"Красная Поляна": 542681,
}

type Config struct {
	APIKey    string
	BaseURL   string
	GeoURL    string
	Country   string
	Lang      string
	Units     string
	Location  *time.Location
	PinnedIDs map[string]int
	Timeout   time.Duration
}

// Current is the normalized current-conditions view.
type Current struct {
	Description   string
	Emoji         string
	Temp          int
	FeelsLike     int
	Humidity      int
	Pressure      int
	WindSpeed     int
	WindDirection string
	Clouds        int
	Sunrise       time.Time
	Sunset        time.Time
	Visibility    Visibility
}

// Visibility distinguishes "provider sent no value" from a measured distance.
type Visibility struct {
	Known bool
	Km    float64
}

func (v Visibility) String() string {
	if !v.Known {
		return "нет данных"
	}
	return strconv.FormatFloat(v.Km, 'f', -1, 64) + " км"
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.GeoURL == "" {
		cfg.GeoURL = DefaultGeoURL
	}
	if cfg.Country == "" {
		cfg.Country = "RU"
	}
	if cfg.Lang == "" {
		cfg.Lang = "ru"
	}
	if cfg.Units == "" {
		cfg.Units = "metric"
	}
	if cfg.Location == nil {
		loc, err := time.LoadLocation(DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
		cfg.Location = loc
	}
	if cfg.PinnedIDs == nil {
		cfg.PinnedIDs = DefaultPinnedIDs
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.GeoURL = strings.TrimRight(cfg.GeoURL, "/")

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Location returns the zone used for day boundaries and clock times.
func (c *Client) Location() *time.Location {
	return c.cfg.Location
}

type geoResult struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type conditionsPayload struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Visibility *float64 `json:"visibility"`
	Wind       *struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Sys *struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

type forecastPayload struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main *struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

// Current fetches current conditions for city.
func (c *Client) Current(ctx context.Context, city string) (Current, error) {
	params, err := c.resolve(ctx, city)
	if err != nil {
		return Current{}, err
	}

	var raw conditionsPayload
	if err := c.getJSON(ctx, "current", c.cfg.BaseURL+"/weather", params, &raw); err != nil {
		return Current{}, err
	}
	if raw.Main == nil || raw.Wind == nil || raw.Sys == nil || len(raw.Weather) == 0 {
		return Current{}, &UpstreamError{Op: "current", Err: errors.New("incomplete conditions payload")}
	}

	description := raw.Weather[0].Description
	cur := Current{
		Description:   description,
		Emoji:         ClassifyEmoji(description),
		Temp:          roundTemp(raw.Main.Temp),
		FeelsLike:     roundTemp(raw.Main.FeelsLike),
		Humidity:      raw.Main.Humidity,
		Pressure:      int(math.RoundToEven(raw.Main.Pressure * pressureFactor)),
		WindSpeed:     roundTemp(raw.Wind.Speed),
		WindDirection: WindDirection(raw.Wind.Deg),
		Clouds:        raw.Clouds.All,
		Sunrise:       time.Unix(raw.Sys.Sunrise, 0).In(c.cfg.Location),
		Sunset:        time.Unix(raw.Sys.Sunset, 0).In(c.cfg.Location),
	}
	if raw.Visibility != nil {
		cur.Visibility = Visibility{Known: true, Km: math.Round(*raw.Visibility/100) / 10}
	}
	return cur, nil
}

// Forecast fetches the provider's multi-day feed and aggregates it per local
// day. The provider covers five days, so fewer than days entries is normal.
func (c *Client) Forecast(ctx context.Context, city string, days int) ([]DailyForecast, error) {
	params, err := c.resolve(ctx, city)
	if err != nil {
		return nil, err
	}

	var raw forecastPayload
	if err := c.getJSON(ctx, "forecast", c.cfg.BaseURL+"/forecast", params, &raw); err != nil {
		return nil, err
	}
	if len(raw.List) == 0 {
		return nil, &UpstreamError{Op: "forecast", Err: errors.New("incomplete forecast payload")}
	}

	samples := make([]Sample, 0, len(raw.List))
	for i, item := range raw.List {
		if item.Main == nil {
			return nil, &UpstreamError{Op: "forecast", Err: fmt.Errorf("forecast entry %d has no main block", i)}
		}
		s := Sample{
			Time: time.Unix(item.Dt, 0),
			Temp: item.Main.Temp,
		}
		if len(item.Weather) > 0 {
			s.Description = item.Weather[0].Description
		}
		samples = append(samples, s)
	}

	return Aggregate(samples, c.cfg.Location, days), nil
}

// resolve turns a city name into the query parameters of the data endpoints.
func (c *Client) resolve(ctx context.Context, city string) (url.Values, error) {
	params := url.Values{}
	params.Set("appid", c.cfg.APIKey)
	params.Set("units", c.cfg.Units)
	params.Set("lang", c.cfg.Lang)

	if id, ok := c.cfg.PinnedIDs[city]; ok {
		params.Set("id", strconv.Itoa(id))
		return params, nil
	}

	geo := url.Values{}
	geo.Set("q", city+","+c.cfg.Country)
	geo.Set("limit", "1")
	geo.Set("appid", c.cfg.APIKey)

	var results []geoResult
	if err := c.getJSON(ctx, "geocode", c.cfg.GeoURL+"/direct", geo, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		c.logger.Warn("Geocoding returned no results", zap.String("city", city))
		return nil, fmt.Errorf("%w: %s", ErrLocationNotFound, city)
	}

	params.Set("lat", strconv.FormatFloat(results[0].Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(results[0].Lon, 'f', -1, 64))
	return params, nil
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("Weather provider call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return &UpstreamError{Op: op, Err: fmt.Errorf("status=%d body=%s", resp.StatusCode, string(payload))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &UpstreamError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
