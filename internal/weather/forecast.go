package weather

import (
	"sort"
	"time"
)

const DefaultForecastDays = 7

// Sample is one provider observation of the forecast feed.
type Sample struct {
	Time        time.Time
	Temp        float64
	Description string
}

// DailyForecast aggregates every sample that falls on one local calendar day.
type DailyForecast struct {
	Date         time.Time
	Weekday      string
	TempMin      int
	TempMax      int
	Descriptions []string
	Emojis       []string
}

var weekdayNames = [7]string{
	time.Sunday:    "Воскресенье",
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
}

// WeekdayName returns the localized weekday name.
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// Aggregate buckets samples by calendar date in loc and returns at most days
// entries sorted by date. Descriptions and emojis keep first-seen order.
func Aggregate(samples []Sample, loc *time.Location, days int) []DailyForecast {
	if days <= 0 {
		days = DefaultForecastDays
	}

	buckets := make(map[string]*DailyForecast)
	for _, s := range samples {
		local := s.Time.In(loc)
		key := local.Format("2006-01-02")
		temp := roundTemp(s.Temp)

		day, ok := buckets[key]
		if !ok {
			day = &DailyForecast{
				Date:    time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
				Weekday: WeekdayName(local.Weekday()),
				TempMin: temp,
				TempMax: temp,
			}
			buckets[key] = day
		}

		if temp < day.TempMin {
			day.TempMin = temp
		}
		if temp > day.TempMax {
			day.TempMax = temp
		}
		if s.Description != "" {
			day.Descriptions = appendUnique(day.Descriptions, s.Description)
			day.Emojis = appendUnique(day.Emojis, ClassifyEmoji(s.Description))
		}
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > days {
		keys = keys[:days]
	}

	out := make([]DailyForecast, 0, len(keys))
	for _, k := range keys {
		out = append(out, *buckets[k])
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
