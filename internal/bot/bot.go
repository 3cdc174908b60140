// Package bot телеграм-интерфейс трекера: меню на инлайн-кнопках и
// пошаговые анкеты добавления товара, продажи и аренды.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vlasovdm/resell-tracker/internal/config"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/service"

	"github.com/google/uuid"
)

// шаги анкет
const (
	stepItemName     = "item_name"
	stepItemCategory = "item_category"
	stepItemPrice    = "item_price"
	stepItemComment  = "item_comment"
	stepItemPhoto    = "item_photo"
	stepSellPrice    = "sell_price"
	stepCarName      = "car_name"
	stepCarCost      = "car_cost"
	stepRentPrice    = "rent_price"
	stepRentHours    = "rent_hours"
	stepRentEndTime  = "rent_end_time"
)

// wizardState промежуточные данные пошаговой анкеты одного чата
type wizardState struct {
	Step string

	ItemName string
	Category models.Category
	Price    decimal.Decimal
	Comment  string

	SellItemID uuid.UUID

	CarName      string
	RentCarID    uuid.UUID
	IsPast       bool
	PricePerHour decimal.Decimal
	Hours        int

	StatsCarID uuid.UUID
}

type Bot struct {
	api      *tgbotapi.BotAPI
	services *service.Services
	config   *config.Config
	states   map[int64]*wizardState
}

func New(cfg *config.Config, services *service.Services) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:      api,
		services: services,
		config:   cfg,
		states:   map[int64]*wizardState{},
	}, nil
}

// Start цикл long polling, апдейты обрабатываются последовательно
func (b *Bot) Start(ctx context.Context) {
	log.Info().Str("username", b.api.Self.UserName).Msg("Бот запущен")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case upd := <-updates:
			if upd.Message != nil {
				b.handleMessage(ctx, upd.Message)
			} else if upd.CallbackQuery != nil {
				b.handleCallback(ctx, upd.CallbackQuery)
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, m *tgbotapi.Message) {
	if m.Text == "/start" {
		delete(b.states, m.Chat.ID)
		if _, err := b.services.User.GetOrCreate(ctx, m.From.ID, m.From.UserName); err != nil {
			log.Error().Err(err).Int64("telegram_id", m.From.ID).Msg("не удалось завести пользователя")
		}
		b.sendMainMenu(m.Chat.ID, "Привет! Я помогу вести учет перекупа и аренды авто.")
		return
	}

	state, ok := b.states[m.Chat.ID]
	if !ok {
		b.sendMainMenu(m.Chat.ID, "Выберите раздел:")
		return
	}

	switch state.Step {
	case stepItemName, stepItemPrice, stepItemComment, stepItemPhoto:
		b.handleResellStep(ctx, m, state)
	case stepSellPrice:
		b.handleSellStep(ctx, m, state)
	case stepCarName, stepCarCost, stepRentPrice, stepRentHours, stepRentEndTime:
		b.handleRentalStep(ctx, m, state)
	default:
		b.sendMainMenu(m.Chat.ID, "Выберите раздел:")
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	data := cb.Data
	chatID := cb.Message.Chat.ID

	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			log.Warn().Err(err).Msg("callback answer")
		}
	}()

	switch {
	case data == "back_to_main", data == "cancel":
		delete(b.states, chatID)
		b.editToMainMenu(chatID, cb.Message.MessageID)

	case data == "menu_resell":
		b.edit(chatID, cb.Message.MessageID, "📦 Перекуп:", resellMenuKeyboard())
	case data == "menu_rental":
		b.edit(chatID, cb.Message.MessageID, "🚗 Аренда авто:", rentalMenuKeyboard())

	case data == "resell_add":
		b.startAddItem(chatID)
	case strings.HasPrefix(data, "cat_"):
		b.handleCategoryChoice(chatID, cb.Message.MessageID, strings.TrimPrefix(data, "cat_"))
	case data == "resell_sell":
		b.showUnsoldItems(ctx, cb)
	case strings.HasPrefix(data, "sell_item_"):
		b.startSellItem(chatID, strings.TrimPrefix(data, "sell_item_"))
	case data == "resell_stats":
		b.edit(chatID, cb.Message.MessageID, "📈 Выберите период для статистики:", periodKeyboard("rstat_"))
	case strings.HasPrefix(data, "rstat_"):
		b.showResellStats(ctx, cb, strings.TrimPrefix(data, "rstat_"))
	case data == "resell_history":
		b.showSalesHistory(ctx, cb)
	case strings.HasPrefix(data, "del_item_"):
		b.deleteItem(ctx, cb, strings.TrimPrefix(data, "del_item_"))

	case data == "rental_add_car":
		b.startAddCar(chatID)
	case data == "rental_my_cars":
		b.showMyCars(ctx, cb)
	case strings.HasPrefix(data, "view_car_"):
		b.showCarOptions(ctx, cb, strings.TrimPrefix(data, "view_car_"))
	case strings.HasPrefix(data, "rent_car_"):
		b.startRentCar(chatID, cb.Message.MessageID, strings.TrimPrefix(data, "rent_car_"))
	case data == "rent_is_past_yes", data == "rent_is_past_no":
		b.handleIsPastChoice(chatID, cb.Message.MessageID, data == "rent_is_past_yes")
	case strings.HasPrefix(data, "car_stats_"):
		b.startCarStats(chatID, cb.Message.MessageID, strings.TrimPrefix(data, "car_stats_"))
	case strings.HasPrefix(data, "cstat_"):
		b.showCarStats(ctx, cb, strings.TrimPrefix(data, "cstat_"))
	case strings.HasPrefix(data, "del_car_"):
		b.deleteCar(ctx, cb, strings.TrimPrefix(data, "del_car_"))
	case data == "rental_stats":
		b.edit(chatID, cb.Message.MessageID, "📈 Выберите период для статистики:", periodKeyboard("nstat_"))
	case strings.HasPrefix(data, "nstat_"):
		b.showRentalStats(ctx, cb, strings.TrimPrefix(data, "nstat_"))
	case data == "rental_active":
		b.showActiveRentals(ctx, cb)
	}
}

func (b *Bot) send(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("не удалось отправить сообщение")
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("не удалось изменить сообщение")
	}
}

func (b *Bot) sendMainMenu(chatID int64, text string) {
	b.send(chatID, text, mainMenuKeyboard())
}

func (b *Bot) editToMainMenu(chatID int64, messageID int) {
	b.edit(chatID, messageID, "Выберите раздел:", mainMenuKeyboard())
}
