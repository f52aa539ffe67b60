package service

import (
	"context"
	"errors"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
	"contract_calc/internal/report"
	"contract_calc/pkg/logger"
)

// callback data
const (
	cbEditStrategy      = "mg_edit:"
	cbEditStandard      = "std_edit:"
	cbPreset            = "preset:"
	cbStrategyDirection = "mg_dir"
	cbStandardDirection = "std_dir"
	cbFullTable         = "mg_table"
	cbReset             = "mg_reset"
	cbRunMartingale     = "run:mg"
	cbRunStandard       = "run:std"
)

// кнопки главного меню
const (
	btnMartingale = "🎯 Мартингейл"
	btnContract   = "📐 Сделка"
	btnHistory    = "🗂 История"
	btnHelp       = "❓ Помощь"
	cancelWord    = "отмена"
)

func (t *Telegram) handleUpdate(ctx context.Context, update tgbot.Update) {
	// 1) Обычные сообщения
	if msg := update.Message; msg != nil {
		chatID := msg.Chat.ID

		if msg.IsCommand() {
			t.clearAwait(chatID)
			switch msg.Command() {
			case "start":
				if err := t.handleStart(ctx, chatID); err != nil {
					logger.Error("handleStart error: %v", err)
				}
			case "martingale", "settings":
				t.handleSettingsMenu(ctx, chatID)
			case "calc":
				t.runMartingale(ctx, chatID)
			case "contract":
				t.handleStandardMenu(ctx, chatID)
			case "history":
				t.handleHistory(ctx, chatID)
			case "export":
				t.handleExport(ctx, chatID)
			case "help":
				t.handleHelp(ctx, chatID)
			default:
				_, _ = t.Send(ctx, chatID, "Не знаю такой команды, см. /help")
			}
			return
		}

		t.handleTextMessage(ctx, msg)
		return
	}

	// 2) Inline-кнопки (CallbackQuery)
	if cb := update.CallbackQuery; cb != nil {
		// у callback всегда свой message
		if cb.Message == nil || cb.Message.Chat == nil {
			return
		}
		t.handleCallback(ctx, cb.Message.Chat.ID, cb)
		return
	}

	// 3) Остальное (inline mode и т.п.) игнорируем
}

func (t *Telegram) handleStart(ctx context.Context, chatID int64) error {
	if _, err := t.getUser(ctx, chatID); err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй ещё раз /start")
		return err
	}

	replyKb := tgbot.NewReplyKeyboard(
		tgbot.NewKeyboardButtonRow(
			tgbot.NewKeyboardButton(btnMartingale),
			tgbot.NewKeyboardButton(btnContract),
		),
		tgbot.NewKeyboardButtonRow(
			tgbot.NewKeyboardButton(btnHistory),
			tgbot.NewKeyboardButton(btnHelp),
		),
	)

	msgText := "Привет! Я калькулятор фьючерсных сделок.\n\n" +
		"🎯 *Мартингейл* — лестница доливок: средняя цена, TP, комиссии, фандинг и ликвидация на каждом шаге.\n" +
		"📐 *Сделка* — PnL, ROE и ликвидация одной сделки.\n\n" +
		"Параметры настраиваются кнопками, значения можно вводить с запятой."

	msg := tgbot.NewMessage(chatID, msgText)
	msg.ParseMode = tgbot.ModeMarkdown
	msg.ReplyMarkup = replyKb

	_, err := t.SendMessage(ctx, msg)
	return err
}

func (t *Telegram) handleTextMessage(ctx context.Context, msg *tgbot.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// 0) если ждём ввод значения
	if key, ok := t.peekAwait(chatID); ok {
		if strings.EqualFold(text, cancelWord) {
			t.clearAwait(chatID)
			t.backToMenu(ctx, chatID, key)
			return
		}
		t.handleAwaitValue(ctx, chatID, text, key)
		return
	}

	switch text {
	case btnMartingale:
		t.handleSettingsMenu(ctx, chatID)
	case btnContract:
		t.handleStandardMenu(ctx, chatID)
	case btnHistory:
		t.handleHistory(ctx, chatID)
	case btnHelp:
		t.handleHelp(ctx, chatID)
	default:
		_, _ = t.Send(ctx, chatID, "Выбери действие в меню или /help")
	}
}

func (t *Telegram) handleSettingsMenu(ctx context.Context, chatID int64) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	msg := tgbot.NewMessage(chatID, formatStrategySettings(user))
	msg.ParseMode = tgbot.ModeMarkdown
	msg.ReplyMarkup = buildStrategyKeyboard(user)
	_, _ = t.SendMessage(ctx, msg)
}

func (t *Telegram) handleStandardMenu(ctx context.Context, chatID int64) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	msg := tgbot.NewMessage(chatID, formatStandardSettings(user.Settings.Standard))
	msg.ParseMode = tgbot.ModeMarkdown
	msg.ReplyMarkup = buildStandardKeyboard(user.Settings.Standard)
	_, _ = t.SendMessage(ctx, msg)
}

// refreshMenu перерисовывает меню в том же сообщении, если оно есть.
func (t *Telegram) refreshMenu(ctx context.Context, chatID int64, msg *tgbot.Message, standard bool) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	text, kb := formatStrategySettings(user), buildStrategyKeyboard(user)
	if standard {
		text, kb = formatStandardSettings(user.Settings.Standard), buildStandardKeyboard(user.Settings.Standard)
	}
	if msg != nil {
		if err := t.editTextAndMarkup(chatID, msg.MessageID, text, kb); err == nil {
			return
		}
	}
	out := tgbot.NewMessage(chatID, text)
	out.ParseMode = tgbot.ModeMarkdown
	out.ReplyMarkup = kb
	_, _ = t.SendMessage(ctx, out)
}

func (t *Telegram) backToMenu(ctx context.Context, chatID int64, key string) {
	if kind, _ := splitAwait(key); kind == awaitStandard {
		t.handleStandardMenu(ctx, chatID)
		return
	}
	t.handleSettingsMenu(ctx, chatID)
}

func (t *Telegram) handleCallback(ctx context.Context, chatID int64, cb *tgbot.CallbackQuery) {
	// отвечаем ТГ, чтобы убрать "часики" на кнопке
	_, _ = t.bot.Request(tgbot.NewCallback(cb.ID, ""))

	data := cb.Data
	switch data {
	case cbStrategyDirection:
		t.toggleDirection(ctx, chatID, cb.Message)
		return
	case cbStandardDirection:
		t.toggleStandardDirection(ctx, chatID, cb.Message)
		return
	case cbFullTable:
		t.toggleFullTable(ctx, chatID, cb.Message)
		return
	case cbReset:
		t.resetStrategy(ctx, chatID, cb.Message)
		return
	case cbRunMartingale:
		t.runMartingale(ctx, chatID)
		return
	case cbRunStandard:
		t.runStandard(ctx, chatID)
		return
	}

	switch {
	case strings.HasPrefix(data, cbEditStrategy):
		t.askValue(ctx, chatID, awaitKey(awaitStrategy, strings.TrimPrefix(data, cbEditStrategy)))
	case strings.HasPrefix(data, cbEditStandard):
		t.askValue(ctx, chatID, awaitKey(awaitStandard, strings.TrimPrefix(data, cbEditStandard)))
	case strings.HasPrefix(data, cbPreset):
		t.applyPreset(ctx, chatID, strings.TrimPrefix(data, cbPreset))
	}
}

func (t *Telegram) runMartingale(ctx context.Context, chatID int64) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	res, err := t.calc.Martingale(ctx, chatID, user.Settings.Strategy)
	if err != nil {
		t.sendCalcError(ctx, chatID, err)
		return
	}

	rows := t.cfg.Telegram.MaxTableRows
	if user.Settings.FullTable {
		rows = 0
	}
	_, _ = t.Send(ctx, chatID, report.MartingaleMarkdown(res, rows))
}

func (t *Telegram) runStandard(ctx context.Context, chatID int64) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	p := user.Settings.Standard
	res, err := t.calc.Standard(ctx, chatID, p)
	if err != nil {
		t.sendCalcError(ctx, chatID, err)
		return
	}
	_, _ = t.Send(ctx, chatID, report.StandardMarkdown(p, res))
}

func (t *Telegram) sendCalcError(ctx context.Context, chatID int64, err error) {
	var verr calc.ValidationErrors
	if errors.As(err, &verr) {
		_, _ = t.Send(ctx, chatID, validationText(verr))
		return
	}
	logger.Error("calculation for %d: %v", chatID, err)
	_, _ = t.Send(ctx, chatID, "⚠️ Не удалось посчитать, попробуй позже.")
}

func (t *Telegram) handleHistory(ctx context.Context, chatID int64) {
	list, err := t.calc.History(ctx, chatID, 10)
	if err != nil {
		logger.Error("history for %d: %v", chatID, err)
		_, _ = t.Send(ctx, chatID, "⚠️ Не удалось загрузить историю.")
		return
	}
	_, _ = t.Send(ctx, chatID, formatHistory(list))
}

func (t *Telegram) handleHelp(ctx context.Context, chatID int64) {
	text := "*Команды*\n\n" +
		"/martingale — параметры мартингейла\n" +
		"/calc — посчитать мартингейл с текущими параметрами\n" +
		"/contract — калькулятор одной сделки\n" +
		"/history — последние расчёты\n" +
		"/export — CSV последнего мартингейла\n\n" +
		report.HelpMarkdown()
	_, _ = t.Send(ctx, chatID, text)
}

// directionFlip — long <-> short.
func directionFlip(d models.Direction) models.Direction {
	if d == models.DirectionShort {
		return models.DirectionLong
	}
	return models.DirectionShort
}
