package activity

import "github.com/xaenox/blacksea-bot/internal/models"

var actionTypeDescriptions = map[models.ActionType]string{
	models.ActionCommand:     "Команда",
	models.ActionButtonClick: "Нажатие кнопки",
	models.ActionAPIRequest:  "API запрос",
	models.ActionMenuView:    "Просмотр меню",
	models.ActionUserData:    "Данные пользователя",
	models.ActionMessage:     "Сообщение",
}

var actionDescriptions = map[string]string{
	"weather_menu":     "Открытие меню погоды",
	"weather_request":  "Запрос погоды",
	"forecast_request": "Запрос прогноза погоды",
	"phone_shared":     "Отправка номера телефона",
	"request_phone":    "Запрос номера телефона",
	"main_menu":        "Возврат в главное меню",
	"excursions_menu":  "Открытие меню экскурсий",
	"excursion_view":   "Просмотр экскурсии",
	"concierge":        "Вопрос консьержу",
}

var statusDescriptions = map[models.Status]string{
	models.StatusSuccess:   "Успешно",
	models.StatusError:     "Ошибка",
	models.StatusPending:   "В процессе",
	models.StatusCancelled: "Отменено",
}

// Describe renders the human-readable action_description column.
func Describe(action string, actionType models.ActionType) string {
	desc, ok := actionDescriptions[action]
	if !ok {
		desc = action
	}
	if actionType == "" {
		return desc
	}
	typeDesc, ok := actionTypeDescriptions[actionType]
	if !ok {
		typeDesc = string(actionType)
	}
	return typeDesc + ": " + desc
}

// DescribeStatus renders a status code for people.
func DescribeStatus(s models.Status) string {
	if desc, ok := statusDescriptions[s]; ok {
		return desc
	}
	return string(s)
}
