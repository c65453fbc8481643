package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"meal-planner/internal/app"
	"meal-planner/internal/config"
	"meal-planner/internal/metrics"
	"meal-planner/internal/planner"
	"meal-planner/internal/recipe"
	"meal-planner/internal/shopping"
)

// checkPrefix marks inline button data that toggles a shopping list item.
const checkPrefix = "chk|"

// maxCallbackData is Telegram's limit for inline button data, in bytes.
const maxCallbackData = 64

// Service is the part of the app the bot talks to.
type Service interface {
	ShoppingList(ctx context.Context) (*app.ShoppingListView, error)
	ExportChecklist(ctx context.Context) (string, error)
	ToggleChecked(ctx context.Context, name string) (bool, error)
	MealPlan(ctx context.Context) (planner.MealPlan, error)
	ListRecipes(ctx context.Context, filter recipe.Filter) ([]recipe.Recipe, error)
	Staples(ctx context.Context) (shopping.StapleSet, error)
	ToggleStaple(ctx context.Context, name string) (bool, error)
	DailyActivity(ctx context.Context, days int) ([]metrics.DailyActivity, error)
}

// Sender is the subset of *tgbotapi.BotAPI used to reply.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot serves the meal planner over a Telegram webhook.
type Bot struct {
	api    Sender
	svc    Service
	cfg    *config.Config
	logger *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, svc Service, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", cfg.TelegramWebhookURL, err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("response", resp.Description))

	return newBot(api, cfg, svc, logger), nil
}

func newBot(api Sender, cfg *config.Config, svc Service, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bot{api: api, svc: svc, cfg: cfg, logger: logger}
}

// Handler returns the webhook endpoint. Updates are processed in the
// background so Telegram gets an immediate 200.
func (b *Bot) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			b.logger.Warn("error parsing update", zap.Error(err))
			http.Error(w, "bad update", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusOK)

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			b.HandleUpdate(ctx, update)
		}()
	})
}

// HandleUpdate dispatches one update from an allowed user.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		if !b.allowed(update.CallbackQuery.From) {
			return
		}
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		if !b.allowed(update.Message.From) {
			return
		}
		b.processMessage(ctx, update.Message)
	}
}

func (b *Bot) allowed(from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	if !b.cfg.IsAllowedUser(from.ID) {
		b.logger.Warn("unauthorized access attempt", zap.Int64("user_id", from.ID), zap.String("username", from.UserName))
		return false
	}
	return true
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "list":
		b.sendShoppingList(ctx, msg.Chat.ID)
	case "export":
		b.handleExport(ctx, msg.Chat.ID)
	case "plan":
		b.handlePlan(ctx, msg.Chat.ID)
	case "recipes":
		b.handleRecipes(ctx, msg.Chat.ID, recipe.ParseFilter(msg.CommandArguments()))
	case "staples":
		b.handleStaples(ctx, msg.Chat.ID, msg.CommandArguments())
	case "metrics":
		if msg.From.ID != b.cfg.AdminTelegramID {
			b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
			return
		}
		b.handleMetricsCommand(ctx, msg.Chat.ID)
	default:
		b.reply(msg.Chat.ID, helpText)
	}
}

const helpText = "🧑‍🍳 *Meal Planner*\n\n" +
	"/list - shopping list with tick boxes\n" +
	"/export - shopping list as a markdown checklist\n" +
	"/plan - this week's meals\n" +
	"/recipes [all|under60|highIron] - browse recipes\n" +
	"/staples [name] - list staples or toggle one"

func (b *Bot) sendShoppingList(ctx context.Context, chatID int64) {
	view, err := b.svc.ShoppingList(ctx)
	if err != nil {
		b.replyError(chatID, "building the shopping list", err)
		return
	}
	msg := tgbotapi.NewMessage(chatID, formatShoppingList(view))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb := shoppingKeyboard(view.Items); kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send shopping list", zap.Error(err))
	}
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	key, ok := strings.CutPrefix(query.Data, checkPrefix)
	if !ok {
		return
	}

	// Answer callback to remove spinner
	if _, err := b.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		b.logger.Debug("failed to answer callback", zap.Error(err))
	}

	if _, err := b.svc.ToggleChecked(ctx, key); err != nil {
		b.logger.Error("failed to toggle item", zap.String("key", key), zap.Error(err))
		return
	}
	if query.Message == nil {
		return
	}

	view, err := b.svc.ShoppingList(ctx)
	if err != nil {
		b.replyError(query.Message.Chat.ID, "building the shopping list", err)
		return
	}
	edit := tgbotapi.NewEditMessageText(query.Message.Chat.ID, query.Message.MessageID, formatShoppingList(view))
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = shoppingKeyboard(view.Items)
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("failed to update shopping list", zap.Error(err))
	}
}

func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	checklist, err := b.svc.ExportChecklist(ctx)
	if err != nil {
		b.replyError(chatID, "exporting the list", err)
		return
	}
	if checklist == "" {
		b.reply(chatID, "_Nothing to export._")
		return
	}
	b.reply(chatID, "```\n"+checklist+"\n```")
}

func (b *Bot) handlePlan(ctx context.Context, chatID int64) {
	plan, err := b.svc.MealPlan(ctx)
	if err != nil {
		b.replyError(chatID, "loading the plan", err)
		return
	}
	recipes, err := b.svc.ListRecipes(ctx, recipe.FilterAll)
	if err != nil {
		b.replyError(chatID, "loading recipes", err)
		return
	}
	b.reply(chatID, formatPlan(plan, recipes))
}

func (b *Bot) handleRecipes(ctx context.Context, chatID int64, filter recipe.Filter) {
	recipes, err := b.svc.ListRecipes(ctx, filter)
	if err != nil {
		b.replyError(chatID, "loading recipes", err)
		return
	}
	b.reply(chatID, formatRecipes(recipes))
}

func (b *Bot) handleStaples(ctx context.Context, chatID int64, name string) {
	if name = strings.TrimSpace(name); name != "" {
		isStaple, err := b.svc.ToggleStaple(ctx, name)
		if err != nil {
			b.replyError(chatID, "updating staples", err)
			return
		}
		state := "is no longer a staple"
		if isStaple {
			state = "is now a staple"
		}
		b.reply(chatID, fmt.Sprintf("*%s* %s.", escape(name), state))
		return
	}

	staples, err := b.svc.Staples(ctx)
	if err != nil {
		b.replyError(chatID, "loading staples", err)
		return
	}
	b.reply(chatID, formatStaples(staples))
}

func (b *Bot) handleMetricsCommand(ctx context.Context, chatID int64) {
	activity, err := b.svc.DailyActivity(ctx, 7)
	if err != nil {
		b.reply(chatID, "❌ Error fetching metrics.")
		return
	}
	health := metrics.GetSysHealth(b.cfg.DatabasePath, b.cfg.SnapshotDir)
	b.reply(chatID, formatMetrics(activity, health))
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send reply", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) replyError(chatID int64, doing string, err error) {
	b.logger.Error("request failed", zap.String("while", doing), zap.Error(err))
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	b.reply(chatID, fmt.Sprintf("❌ *Error %s:*\n```\n%v\n```", doing, safeErr))
}
