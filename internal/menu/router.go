package menu

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/activity"
	"github.com/xaenox/blacksea-bot/internal/excursions"
	"github.com/xaenox/blacksea-bot/internal/models"
	"github.com/xaenox/blacksea-bot/internal/weather"
)

// Trigger keys bound to buttons.
const (
	TriggerStart         = "start"
	TriggerWeather       = "weather"
	TriggerAccommodation = "accommodation"
	TriggerFlights       = "flights"
	TriggerExcursions    = "excursions"
	TriggerStickers      = "stickers"
	TriggerBackToCities  = "back_to_cities"
	TriggerBackToCurrent = "back_to_current"

	PrefixCategory  = "category_"
	PrefixExcursion = "excursion_"
	PrefixCity      = "city_"
	PrefixWeekly    = "weekly_"
)

const failureText = "Произошла ошибка при обработке запроса. Пожалуйста, попробуйте еще раз."

type WeatherService interface {
	Current(ctx context.Context, city string) (weather.Current, error)
	Forecast(ctx context.Context, city string, days int) ([]weather.DailyForecast, error)
}

type Catalog interface {
	Categories() []string
	ByCategory(category string) []excursions.Excursion
	ByID(id string) (excursions.Excursion, error)
}

// Recorder is the activity trail as the router sees it.
type Recorder interface {
	Track(ctx context.Context, u models.User, a activity.Action) error
	Log(ctx context.Context, u models.User, a activity.Action) error
}

type Links struct {
	Group         string
	Stickers      string
	Accommodation string
	Flights       string
}

var DefaultLinks = Links{
	Group:         "https://t.me/blackseaeveryday",
	Stickers:      "https://t.me/addstickers/blacksea365",
	Accommodation: "https://sutochno.tp.st/zntj72if",
	Flights:       "https://aviasales.tp.st/WFskNTRl",
}

type Config struct {
	Links        Links
	Cities       []City
	ForecastDays int
}

type handler func(ctx context.Context, req Request, param string) (Content, error)

type prefixRoute struct {
	prefix string
	handle handler
}

// Router maps triggers to screens. Exact keys are matched before prefixes,
// and prefixes are tried in registration order.
type Router struct {
	cfg      Config
	weather  WeatherService
	catalog  Catalog
	recorder Recorder
	renderer Renderer
	sessions *Sessions
	logger   *zap.Logger

	exact    map[string]handler
	prefixes []prefixRoute
}

func NewRouter(cfg Config, weatherSvc WeatherService, catalog Catalog, recorder Recorder, renderer Renderer, sessions *Sessions, logger *zap.Logger) *Router {
	if cfg.Links == (Links{}) {
		cfg.Links = DefaultLinks
	}
	if len(cfg.Cities) == 0 {
		cfg.Cities = DefaultCities
	}
	if cfg.ForecastDays <= 0 {
		cfg.ForecastDays = weather.DefaultForecastDays
	}
	if sessions == nil {
		sessions = NewSessions()
	}

	r := &Router{
		cfg:      cfg,
		weather:  weatherSvc,
		catalog:  catalog,
		recorder: recorder,
		renderer: renderer,
		sessions: sessions,
		logger:   logger,
	}

	r.exact = map[string]handler{
		TriggerStart:         r.mainMenu,
		TriggerWeather:       r.cityList,
		TriggerBackToCities:  r.cityList,
		TriggerBackToCurrent: r.backToCurrent,
		TriggerAccommodation: r.accommodation,
		TriggerFlights:       r.flights,
		TriggerStickers:      r.stickers,
		TriggerExcursions:    r.categories,
	}
	r.prefixes = []prefixRoute{
		{PrefixCategory, r.excursionList},
		{PrefixExcursion, r.excursionDetail},
		{PrefixCity, r.cityWeather},
		{PrefixWeekly, r.weeklyForecast},
	}
	return r
}

// Start handles the /start command.
func (r *Router) Start(ctx context.Context, req Request) {
	r.entry(ctx, req, "Запуск бота", "/start")
}

// Menu handles the /menu command.
func (r *Router) Menu(ctx context.Context, req Request) {
	r.entry(ctx, req, "Открытие главного меню", "/menu")
}

func (r *Router) entry(ctx context.Context, req Request, name, command string) {
	r.logger.Info("Entry command",
		zap.String("interaction_id", activity.InteractionID(ctx)),
		zap.Int64("user_id", req.User.ID),
		zap.String("user", req.User.FullName()),
		zap.String("command", command))

	r.track(ctx, req.User, activity.Action{Name: name, Type: models.ActionCommand, Data: command})
	r.run(ctx, req, r.mainMenu, "")
}

// Dispatch resolves a button trigger and renders its screen. Unknown
// triggers are dropped without rendering or recording anything; they come
// from stale keyboards.
func (r *Router) Dispatch(ctx context.Context, req Request) {
	h, param, ok := r.match(req.Trigger)
	if !ok {
		r.logger.Debug("Ignoring unknown trigger",
			zap.String("interaction_id", activity.InteractionID(ctx)),
			zap.Int64("user_id", req.User.ID),
			zap.String("trigger", req.Trigger))
		return
	}

	label := buttonLabel(req.Trigger)
	r.logger.Info("Button pressed",
		zap.String("interaction_id", activity.InteractionID(ctx)),
		zap.Int64("user_id", req.User.ID),
		zap.String("user", req.User.FullName()),
		zap.String("button", label))

	r.track(ctx, req.User, activity.Action{Name: "нажал кнопку " + label, Type: models.ActionButtonClick})
	r.run(ctx, req, h, param)
}

func (r *Router) match(trigger string) (handler, string, bool) {
	if h, ok := r.exact[trigger]; ok {
		return h, "", true
	}
	for _, route := range r.prefixes {
		if param, ok := strings.CutPrefix(trigger, route.prefix); ok {
			return route.handle, param, true
		}
	}
	return nil, "", false
}

// run is the failure boundary: whatever goes wrong while building or
// rendering a screen ends as the generic failure message.
func (r *Router) run(ctx context.Context, req Request, h handler, param string) {
	err := r.show(ctx, req, h, param)
	if err == nil {
		return
	}

	r.logger.Error("Failed to handle trigger",
		zap.Error(err),
		zap.String("interaction_id", activity.InteractionID(ctx)),
		zap.Int64("user_id", req.User.ID),
		zap.String("trigger", req.Trigger))

	failure := Content{
		Text:     failureText,
		Keyboard: [][]Button{{action("🏠 Главное меню", TriggerStart)}},
	}
	target := Target{ChatID: req.Target.ChatID}
	if err := r.renderer.Render(ctx, target, failure); err != nil {
		r.logger.Error("Failed to send failure message",
			zap.Error(err),
			zap.Int64("chat_id", req.Target.ChatID))
	}
}

// show builds and renders one screen. A panic in either step is returned
// as an error.
func (r *Router) show(ctx context.Context, req Request, h handler, param string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	content, err := h(ctx, req, param)
	if err != nil {
		return err
	}
	return r.renderer.Render(ctx, req.Target, content)
}

// track never fails the interaction; a lost audit row is logged only.
func (r *Router) track(ctx context.Context, u models.User, a activity.Action) {
	if err := r.recorder.Track(ctx, u, a); err != nil {
		r.logger.Error("Failed to record activity",
			zap.Error(err),
			zap.Int64("user_id", u.ID),
			zap.String("action", a.Name))
	}
}

func (r *Router) log(ctx context.Context, u models.User, a activity.Action) {
	if err := r.recorder.Log(ctx, u, a); err != nil {
		r.logger.Error("Failed to record activity",
			zap.Error(err),
			zap.Int64("user_id", u.ID),
			zap.String("action", a.Name))
	}
}

// buttonLabel turns "city_Красная Поляна" into "City Красная Поляна".
func buttonLabel(trigger string) string {
	var b strings.Builder
	prevLetter := false
	for _, ch := range strings.ReplaceAll(trigger, "_", " ") {
		if unicode.IsLetter(ch) {
			if prevLetter {
				ch = unicode.ToLower(ch)
			} else {
				ch = unicode.ToUpper(ch)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(ch)
	}
	return b.String()
}
