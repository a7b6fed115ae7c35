package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"
	"github.com/set-night/taskfaucet/internal/domain"
)

// Callback data. Task ids follow the prefixed ones verbatim.
const (
	CallbackViewTasks        = "view_tasks"
	CallbackClaim            = "claim_sol"
	CallbackProfile          = "my_profile"
	CallbackStatistics       = "statistics"
	CallbackHelp             = "help"
	CallbackBackToMain       = "back_to_main"
	CallbackAdminPanel       = "admin_panel"
	CallbackAdminStats       = "admin_stats"
	CallbackAdminManageTasks = "admin_manage_tasks"
	CallbackAdminAddTask     = "admin_add_task"
	CallbackAdminBroadcast   = "admin_broadcast"
	CallbackAdminResetAll    = "admin_reset_all"

	PrefixViewTask        = "view_task_"
	PrefixVerifyTask      = "verify_task_"
	PrefixAdminDeleteTask = "admin_delete_task_"
)

// InlineButton creates a single inline keyboard button.
func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// URLButton creates a URL inline keyboard button.
func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text: text,
		URL:  url,
	}
}

// InlineKeyboard creates an inline keyboard from rows of buttons.
func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ButtonRow creates a row of inline buttons.
func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// MainMenu is the keyboard under every user-facing screen. Admins get an extra row.
func MainMenu(isAdmin bool) *models.InlineKeyboardMarkup {
	rows := [][]models.InlineKeyboardButton{
		ButtonRow(
			InlineButton("🎯 Complete Tasks", CallbackViewTasks),
			InlineButton("💰 Claim TON", CallbackClaim),
		),
		ButtonRow(
			InlineButton("👤 My Profile", CallbackProfile),
			InlineButton("📊 Statistics", CallbackStatistics),
		),
	}
	if isAdmin {
		rows = append(rows, ButtonRow(InlineButton("👑 Admin Panel", CallbackAdminPanel)))
	}
	rows = append(rows, ButtonRow(InlineButton("❓ Help", CallbackHelp)))
	return InlineKeyboard(rows...)
}

func AdminMenu() *models.InlineKeyboardMarkup {
	return InlineKeyboard(
		ButtonRow(
			InlineButton("📤 Add Task", CallbackAdminAddTask),
			InlineButton("📋 Manage Tasks", CallbackAdminManageTasks),
		),
		ButtonRow(
			InlineButton("📣 Broadcast Message", CallbackAdminBroadcast),
			InlineButton("📊 System Stats", CallbackAdminStats),
		),
		ButtonRow(InlineButton("🔄 Reset All Balances", CallbackAdminResetAll)),
		ButtonRow(InlineButton("🔙 Main Menu", CallbackBackToMain)),
	)
}

// TaskList shows one button per task, completed ones marked.
func TaskList(tasks []*domain.Task, completed map[string]bool) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(tasks)+1)
	for _, t := range tasks {
		mark := "🔄"
		if completed[t.ID] {
			mark = "✅"
		}
		rows = append(rows, ButtonRow(InlineButton(
			fmt.Sprintf("%s %s - %s TON", mark, t.Name, FormatAmount(t.Reward)),
			PrefixViewTask+t.ID,
		)))
	}
	rows = append(rows, ButtonRow(InlineButton("🔙 Main Menu", CallbackBackToMain)))
	return InlineKeyboard(rows...)
}

// TaskDetail offers the link, verification when not yet done, and navigation.
func TaskDetail(t *domain.Task, completed bool) *models.InlineKeyboardMarkup {
	var rows [][]models.InlineKeyboardButton
	if t.Link != "" {
		rows = append(rows, ButtonRow(URLButton("🔗 Open Link", t.Link)))
	}
	if !completed {
		rows = append(rows, ButtonRow(InlineButton("✅ Verify & Earn TON", PrefixVerifyTask+t.ID)))
	}
	rows = append(rows, ButtonRow(
		InlineButton("📋 Back to Tasks", CallbackViewTasks),
		InlineButton("🏠 Main Menu", CallbackBackToMain),
	))
	return InlineKeyboard(rows...)
}

func ManageTasks(tasks []*domain.Task) *models.InlineKeyboardMarkup {
	rows := make([][]models.InlineKeyboardButton, 0, len(tasks)+1)
	for _, t := range tasks {
		rows = append(rows, ButtonRow(InlineButton(
			fmt.Sprintf("🗑️ %s (%s TON)", t.Name, FormatAmount(t.Reward)),
			PrefixAdminDeleteTask+t.ID,
		)))
	}
	rows = append(rows, ButtonRow(InlineButton("🔙 Admin Panel", CallbackAdminPanel)))
	return InlineKeyboard(rows...)
}

func BackToMain() *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(InlineButton("🔙 Main Menu", CallbackBackToMain)))
}

func BackToAdmin() *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(InlineButton("🔙 Admin Panel", CallbackAdminPanel)))
}
