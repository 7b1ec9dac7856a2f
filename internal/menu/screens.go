package menu

import (
	"context"
)

const welcomeText = `👋 Привет! Я ваш помощник по отдыху на Черноморском побережье!

Что я могу:
🌡 Показать погоду в разных городах
🎫 Помочь с выбором экскурсий
🏨 Найти жильё
✈️ Подобрать авиабилеты

Выберите интересующий вас раздел:`

const accommodationText = `🏨 Жильё на Черноморском побережье!

Найдите идеальное жильё для отдыха с помощью Суточно.ру:

🏠 Квартиры и дома
🏖 Апартаменты у моря
🌅 Виды на море
🎯 В центре города
💰 Лучшие цены
🔒 Безопасное бронирование
👥 Отзывы от гостей

Нажмите кнопку ниже, чтобы найти лучшие предложения по аренде:`

const flightsText = `✈️ Авиабилеты на Черноморское побережье!

Найдите самые выгодные предложения на авиабилеты с помощью Aviasales:

🎯 Поиск по всем авиакомпаниям
💰 Лучшие цены на рынке
🔔 Уведомления о снижении цен
🎫 Бронирование онлайн
💳 Безопасная оплата
🌍 Поиск по всему миру

Нажмите кнопку ниже, чтобы найти самые выгодные предложения по авиабилетам:`

const stickersText = "🎨 Наконец-то у нас появились фирменные стикеры!\n\n" +
	"Нажмите кнопку ниже, чтобы добавить стикеры в свой Telegram:"

var backToMenu = action("« Назад в меню", TriggerStart)

// MainMenu is the welcome screen shown by /start, /menu and the start button.
func (r *Router) MainMenu() Content {
	return Content{
		Text: welcomeText,
		Keyboard: [][]Button{
			{action("😎 Погода", TriggerWeather)},
			{action("🌴 Мои экскурсии", TriggerExcursions)},
			{action("🏖 Жильё", TriggerAccommodation), action("✈️ Авиабилеты", TriggerFlights)},
			{action("🎨 Получить фирменные стикеры", TriggerStickers)},
			{link("🌊 Телеграм группа", r.cfg.Links.Group)},
		},
	}
}

func (r *Router) mainMenu(context.Context, Request, string) (Content, error) {
	return r.MainMenu(), nil
}

func (r *Router) accommodation(context.Context, Request, string) (Content, error) {
	return Content{
		Text: accommodationText,
		Keyboard: [][]Button{
			{link("🏠 Перейти на сайт", r.cfg.Links.Accommodation)},
			{backToMenu},
		},
	}, nil
}

func (r *Router) flights(context.Context, Request, string) (Content, error) {
	return Content{
		Text: flightsText,
		Keyboard: [][]Button{
			{link("✈️ Найти авиабилеты", r.cfg.Links.Flights)},
			{backToMenu},
		},
	}, nil
}

func (r *Router) stickers(context.Context, Request, string) (Content, error) {
	return Content{
		Text: stickersText,
		Keyboard: [][]Button{
			{link("🎨 Добавить стикеры", r.cfg.Links.Stickers)},
			{backToMenu},
		},
	}, nil
}
