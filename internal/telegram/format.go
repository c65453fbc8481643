package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"meal-planner/internal/app"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"
)

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func formatShoppingList(view *app.ShoppingListView) string {
	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n")
	sb.WriteString(fmt.Sprintf("_%s_\n\n", view.Summary()))

	if len(view.Items) == 0 {
		sb.WriteString("Nothing to buy. Plan some meals first.")
		return sb.String()
	}
	for _, it := range view.Items {
		box := "⬜️"
		if it.Checked {
			box = "✅"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", box, escape(itemLabel(it))))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func itemLabel(it shopping.AggregatedItem) string {
	parts := []string{shopping.FormatQuantity(it.Quantity)}
	if it.Unit != "" {
		parts = append(parts, it.Unit)
	}
	return strings.Join(append(parts, it.Name), " ")
}

// shoppingKeyboard adds one toggle button per item whose key fits in the
// callback data. It returns nil for an empty list.
func shoppingKeyboard(items []shopping.AggregatedItem) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, it := range items {
		data := checkPrefix + it.Key
		if len(data) > maxCallbackData {
			continue
		}
		label := "☐ " + it.Name
		if it.Checked {
			label = "☑ " + it.Name
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(label, data)))
	}
	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func formatPlan(plan planner.MealPlan, recipes []recipe.Recipe) string {
	titles := make(map[string]string, len(recipes))
	for _, r := range recipes {
		titles[r.ID] = r.Title
	}

	var sb strings.Builder
	sb.WriteString("📅 *Weekly Meal Plan*\n\n")
	days := planner.SortedDays(plan)
	if len(days) == 0 {
		sb.WriteString("_No meals planned._")
		return sb.String()
	}
	for _, day := range days {
		names := make([]string, 0, len(plan[day]))
		for _, id := range plan[day] {
			if title, ok := titles[id]; ok {
				names = append(names, escape(title))
			} else {
				names = append(names, "_deleted recipe_")
			}
		}
		sb.WriteString(fmt.Sprintf("*%s*: %s\n", escape(day), strings.Join(names, ", ")))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func formatRecipes(recipes []recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString("📖 *Recipes*\n\n")
	if len(recipes) == 0 {
		sb.WriteString("_No recipes found._")
		return sb.String()
	}
	for _, r := range recipes {
		sb.WriteString(fmt.Sprintf("• *%s* (%d min, %s, serves %d)", escape(r.Title), r.PrepTimeMinutes, recipe.Difficulty(r.PrepTimeMinutes), r.Servings))
		if r.HasTag(recipe.TagHighIron) {
			sb.WriteString(" 🩸")
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func formatStaples(staples shopping.StapleSet) string {
	keys := staples.Slice()
	if len(keys) == 0 {
		return "🧂 *Staples*\n\n_No staples yet. Use /staples <name> to add one._"
	}
	var sb strings.Builder
	sb.WriteString("🧂 *Staples*\n\n")
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("• %s\n", escape(k)))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func formatMetrics(activity []metrics.DailyActivity, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent Activity*\n")
	if len(activity) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range activity {
		sb.WriteString(fmt.Sprintf("• *%s*: %d runs, %d items (avg %.1f ms)\n", d.Date, d.Runs, d.Items, d.AvgLatencyMS))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s", health.DataDiskSize))
	return sb.String()
}
