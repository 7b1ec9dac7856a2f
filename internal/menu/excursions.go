package menu

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/xaenox/blacksea-bot/internal/activity"
	"github.com/xaenox/blacksea-bot/internal/excursions"
	"github.com/xaenox/blacksea-bot/internal/models"
)

var (
	backToCategories = action("« Назад к категориям", TriggerExcursions)
	homeButton       = action("🏠 В главное меню", TriggerStart)
)

func (r *Router) categories(ctx context.Context, req Request, _ string) (Content, error) {
	categories := r.catalog.Categories()
	if len(categories) == 0 {
		return Content{
			Text:     "❌ В данный момент информация об экскурсиях недоступна.\nПожалуйста, попробуйте позже.",
			Keyboard: [][]Button{{backToMenu}},
		}, nil
	}

	r.log(ctx, req.User, activity.Action{Name: "excursions_menu", Type: models.ActionMenuView})

	keyboard := make([][]Button, 0, len(categories)+1)
	for _, c := range categories {
		keyboard = append(keyboard, []Button{action("🌴 "+c, PrefixCategory+c)})
	}
	keyboard = append(keyboard, []Button{backToMenu})

	return Content{Text: "🌴 Выберите категорию экскурсий:", Keyboard: keyboard}, nil
}

func (r *Router) excursionList(ctx context.Context, req Request, category string) (Content, error) {
	items := r.catalog.ByCategory(category)
	if len(items) == 0 {
		return Content{
			Text:     "❌ В данной категории пока нет доступных экскурсий.",
			Keyboard: [][]Button{{backToCategories, homeButton}},
		}, nil
	}

	var b strings.Builder
	b.WriteString("🌴 Экскурсии в категории " + category + ":\n\n")
	keyboard := make([][]Button, 0, len(items)+1)
	for _, e := range items {
		b.WriteString("• " + e.Name + "\n")
		keyboard = append(keyboard, []Button{action("🏔 "+e.Name, PrefixExcursion+e.ID)})
	}
	keyboard = append(keyboard, []Button{backToCategories, homeButton})

	return Content{Text: strings.TrimRight(b.String(), "\n"), Keyboard: keyboard}, nil
}

func (r *Router) excursionDetail(ctx context.Context, req Request, id string) (Content, error) {
	e, err := r.catalog.ByID(id)
	if errors.Is(err, excursions.ErrNotFound) {
		r.log(ctx, req.User, activity.Action{
			Name:   "excursion_view",
			Type:   models.ActionMenuView,
			Data:   "excursion: " + id,
			Status: models.StatusError,
		})
		return Content{
			Text:     "❌ К сожалению, информация об этой экскурсии недоступна.",
			Keyboard: [][]Button{{backToCategories, homeButton}},
		}, nil
	}
	if err != nil {
		return Content{}, err
	}

	r.log(ctx, req.User, activity.Action{
		Name: "excursion_view",
		Type: models.ActionMenuView,
		Data: "excursion: " + e.ID,
	})

	return Content{
		Text:     formatExcursion(e),
		PhotoURL: e.Photo,
		Keyboard: [][]Button{
			{action("« Назад к списку", PrefixCategory+e.Category)},
			{backToCategories, action("🏠 Главное меню", TriggerStart)},
		},
	}, nil
}

func formatExcursion(e excursions.Excursion) string {
	var b strings.Builder
	b.WriteString("🏔 " + e.Name + "\n\n")
	if e.Description != "" {
		b.WriteString("📝 " + e.Description + "\n\n")
	}
	b.WriteString("💰 Цена: " + strconv.FormatFloat(e.Price, 'f', -1, 64) + " ₽\n")
	if e.Popular {
		b.WriteString("⭐️ Популярная экскурсия!\n")
	}
	if e.Available {
		b.WriteString("✅ Доступна для бронирования")
	} else {
		b.WriteString("❌ Временно недоступна")
	}
	return b.String()
}
