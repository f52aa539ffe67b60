package service

import (
	"context"
	"fmt"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"contract_calc/internal/models"
	"contract_calc/internal/modules/config"
	history "contract_calc/internal/modules/history/service"
	"contract_calc/pkg/logger"
)

// BotAPI — часть *tgbot.BotAPI, которой пользуется бот.
type BotAPI interface {
	Send(c tgbot.Chattable) (tgbot.Message, error)
	Request(c tgbot.Chattable) (*tgbot.APIResponse, error)
	GetUpdatesChan(config tgbot.UpdateConfig) tgbot.UpdatesChannel
	StopReceivingUpdates()
}

// Calculator — сервис расчётов.
type Calculator interface {
	Martingale(ctx context.Context, userID int64, p models.StrategyParameters) (*models.MartingaleResult, error)
	Standard(ctx context.Context, userID int64, p models.StandardTradeParameters) (models.StandardTradeResult, error)
	History(ctx context.Context, userID int64, limit int) ([]*models.Calculation, error)
	LastMartingale(ctx context.Context, userID int64) (*models.MartingaleResult, error)
	MaxAdds() int
}

// Telegram
type Telegram struct {
	bot      BotAPI
	cfg      *config.Config
	repo     history.Settings
	calc     Calculator
	await    *awaitStore
	defaults models.StrategyParameters
}

func NewTelegram(cfg *config.Config, repo history.Settings, calc Calculator) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return New(b, cfg, repo, calc), nil
}

// New — бот поверх готового клиента (в тестах фейк).
func New(bot BotAPI, cfg *config.Config, repo history.Settings, calc Calculator) *Telegram {
	return &Telegram{
		bot:      bot,
		cfg:      cfg,
		repo:     repo,
		calc:     calc,
		await:    newAwaitStore(),
		defaults: cfg.Defaults.Strategy(),
	}
}

func (t *Telegram) Send(ctx context.Context, chatID int64, msg string) (tgbot.Message, error) {
	out := tgbot.NewMessage(chatID, msg)
	out.ParseMode = tgbot.ModeMarkdown
	return t.SendMessage(ctx, out)
}

func (t *Telegram) SendF(ctx context.Context, chatID int64, format string, args ...any) (tgbot.Message, error) {
	return t.Send(ctx, chatID, fmt.Sprintf(format, args...))
}

func (t *Telegram) SendMessage(_ context.Context, message tgbot.MessageConfig) (tgbot.Message, error) {
	sent, err := t.bot.Send(message)
	if err != nil {
		logger.Error("telegram send to %d: %v", message.ChatID, err)
	}
	return sent, err
}

func (t *Telegram) editTextAndMarkup(chatID int64, msgID int, text string, kb tgbot.InlineKeyboardMarkup) error {
	edit := tgbot.NewEditMessageTextAndMarkup(chatID, msgID, text, kb)
	edit.ParseMode = tgbot.ModeMarkdown
	_, err := t.bot.Request(edit)
	return err
}

// Start читает апдейты, пока не отменён ctx или не вызван Stop. Блокирует.
func (t *Telegram) Start(ctx context.Context) {
	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)

	logger.Info("telegram bot started")
	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			t.handleUpdate(ctx, update)
		}
	}
}

func (t *Telegram) Stop() {
	t.bot.StopReceivingUpdates()
}
