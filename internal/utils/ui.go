package utils

import (
	"github.com/go-telegram/bot/models"
)

type Button struct {
	Text         string
	CallbackData string
}

// BuildInlineKeyboard lays buttons out in rows of up to two, which is as wide
// as the funnel ever needs.
func BuildInlineKeyboard(buttons []Button) models.InlineKeyboardMarkup {
	pad := func(s string) string { return " " + s + " " }
	rows := make([][]models.InlineKeyboardButton, 0)
	row := make([]models.InlineKeyboardButton, 0, 2)
	for i, button := range buttons {
		if i > 0 && i%2 == 0 {
			rows = append(rows, row)
			row = make([]models.InlineKeyboardButton, 0, 2)
		}
		row = append(row, models.InlineKeyboardButton{
			Text:         pad(button.Text),
			CallbackData: button.CallbackData,
		})
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	return models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}
