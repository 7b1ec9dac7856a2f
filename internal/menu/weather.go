package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xaenox/blacksea-bot/internal/activity"
	"github.com/xaenox/blacksea-bot/internal/models"
	"github.com/xaenox/blacksea-bot/internal/weather"
)

type City struct {
	Name  string
	Emoji string
}

// DefaultCities in the order the weather menu lists them.
var DefaultCities = []City{
	{"Сочи", "🌴"},
	{"Мацеста", "💆‍♂️"},
	{"Хоста", "🌺"},
	{"Кудепста", "🌅"},
	{"Адлер", "✈️"},
	{"Красная Поляна", "🏔"},
	{"Дагомыс", "🏊‍♂️"},
	{"Лоо", "⛱"},
	{"Вардане", "🌊"},
	{"Лазаревское", "🏖"},
}

const (
	notFoundText    = "❌ Город не найден"
	unavailableText = "❌ Не удалось получить данные о погоде. Пожалуйста, попробуйте позже."
)

const currentFormat = `%s %s

🌡 Температура: %d°C
🌡 Ощущается как: %d°C
💧 Влажность: %d%%
🌪 Ветер: %d м/с, %s
🌫 Давление: %d мм рт.ст.
☁️ Облачность: %d%%
🌅 Восход: %s
🌇 Закат: %s
👁 Видимость: %s`

func (r *Router) city(name string) (City, bool) {
	for _, c := range r.cfg.Cities {
		if c.Name == name {
			return c, true
		}
	}
	return City{}, false
}

func (r *Router) cityList(ctx context.Context, req Request, _ string) (Content, error) {
	r.log(ctx, req.User, activity.Action{Name: "weather_menu", Type: models.ActionMenuView})

	keyboard := make([][]Button, 0, len(r.cfg.Cities)+1)
	for _, c := range r.cfg.Cities {
		keyboard = append(keyboard, []Button{action(c.Emoji+" "+c.Name, PrefixCity+c.Name)})
	}
	keyboard = append(keyboard, []Button{backToMenu})

	return Content{Text: "🌡 Выберите город для просмотра погоды:", Keyboard: keyboard}, nil
}

func (r *Router) cityWeather(ctx context.Context, req Request, name string) (Content, error) {
	content := Content{
		Keyboard: [][]Button{
			{action("📅 Прогноз на неделю", PrefixWeekly+name)},
			{action("« Назад к городам", TriggerWeather)},
			{backToMenu},
		},
	}

	city, supported := r.city(name)
	var (
		cur weather.Current
		err error
	)
	if supported {
		r.sessions.SetCity(req.User.ID, name)
		cur, err = r.weather.Current(ctx, name)
	} else {
		err = fmt.Errorf("%w: %s", weather.ErrLocationNotFound, name)
	}

	status := models.StatusSuccess
	if err != nil {
		status = models.StatusError
		content.Text = r.weatherErrorText(ctx, name, err)
	} else {
		content.Text = city.Emoji + " Погода в городе " + name + ":\n\n" + formatCurrent(cur)
	}

	r.log(ctx, req.User, activity.Action{
		Name:   "weather_request",
		Type:   models.ActionAPIRequest,
		Data:   "city: " + name,
		Status: status,
	})
	return content, nil
}

func (r *Router) weeklyForecast(ctx context.Context, req Request, name string) (Content, error) {
	content := Content{
		Keyboard: [][]Button{
			{action("« К текущей погоде", PrefixCity+name)},
			{action("« Назад к городам", TriggerWeather)},
			{backToMenu},
		},
	}

	city, supported := r.city(name)
	var (
		days []weather.DailyForecast
		err  error
	)
	if supported {
		days, err = r.weather.Forecast(ctx, name, r.cfg.ForecastDays)
	} else {
		err = fmt.Errorf("%w: %s", weather.ErrLocationNotFound, name)
	}

	status := models.StatusSuccess
	if err != nil {
		status = models.StatusError
		content.Text = r.weatherErrorText(ctx, name, err)
	} else {
		content.Text = city.Emoji + " Прогноз погоды в городе " + name + " на неделю:\n\n" + formatForecast(days)
	}

	r.log(ctx, req.User, activity.Action{
		Name:   "forecast_request",
		Type:   models.ActionAPIRequest,
		Data:   "city: " + name,
		Status: status,
	})
	return content, nil
}

func (r *Router) backToCurrent(ctx context.Context, req Request, _ string) (Content, error) {
	if name, ok := r.sessions.City(req.User.ID); ok {
		return r.cityWeather(ctx, req, name)
	}
	return r.cityList(ctx, req, "")
}

func (r *Router) weatherErrorText(ctx context.Context, city string, err error) string {
	if errors.Is(err, weather.ErrLocationNotFound) {
		r.logger.Info("City not found",
			zap.String("interaction_id", activity.InteractionID(ctx)),
			zap.String("city", city))
		return notFoundText
	}
	r.logger.Warn("Weather provider failed",
		zap.Error(err),
		zap.String("interaction_id", activity.InteractionID(ctx)),
		zap.String("city", city))
	return unavailableText
}

func formatCurrent(c weather.Current) string {
	return fmt.Sprintf(currentFormat,
		c.Emoji, c.Description,
		c.Temp,
		c.FeelsLike,
		c.Humidity,
		c.WindSpeed, c.WindDirection,
		c.Pressure,
		c.Clouds,
		c.Sunrise.Format("15:04"),
		c.Sunset.Format("15:04"),
		c.Visibility)
}

func formatForecast(days []weather.DailyForecast) string {
	var b strings.Builder
	for _, d := range days {
		fmt.Fprintf(&b, "📅 %s, %s:\n", d.Weekday, d.Date.Format("02.01.2006"))
		fmt.Fprintf(&b, "🌡 %d°C ... %d°C\n", d.TempMin, d.TempMax)
		fmt.Fprintf(&b, "%s %s\n\n", strings.Join(d.Emojis, " "), strings.Join(d.Descriptions, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}
