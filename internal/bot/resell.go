package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/timeutil"
)

var periodTitles = map[models.Period]string{
	models.PeriodDay:   "за день",
	models.PeriodWeek:  "за неделю",
	models.PeriodMonth: "за месяц",
	models.PeriodAll:   "за всё время",
}

func (b *Bot) startAddItem(chatID int64) {
	b.states[chatID] = &wizardState{Step: stepItemName}
	b.send(chatID, "📦 Введите название товара:", cancelKeyboard())
}

func (b *Bot) handleCategoryChoice(chatID int64, messageID int, raw string) {
	state, ok := b.states[chatID]
	if !ok || state.Step != stepItemCategory {
		return
	}

	category, ok := models.ParseCategory(raw)
	if !ok {
		return
	}

	state.Category = category
	state.Step = stepItemPrice
	b.edit(chatID, messageID, "💰 Введите цену покупки (только число):", cancelKeyboard())
}

// handleResellStep текстовые шаги анкеты добавления товара
func (b *Bot) handleResellStep(ctx context.Context, m *tgbotapi.Message, state *wizardState) {
	chatID := m.Chat.ID

	switch state.Step {
	case stepItemName:
		state.ItemName = m.Text
		state.Step = stepItemCategory
		b.send(chatID, "🏷 Выберите категорию:", categoryKeyboard())

	case stepItemPrice:
		price, err := decimal.NewFromString(strings.ReplaceAll(m.Text, ",", "."))
		if err != nil || !price.IsPositive() {
			b.send(chatID, "❌ Введите корректное число!", nil)
			return
		}
		state.Price = price
		state.Step = stepItemComment
		b.send(chatID, "💬 Введите комментарий (или «-», чтобы пропустить):", cancelKeyboard())

	case stepItemComment:
		if m.Text != "-" {
			state.Comment = m.Text
		}
		state.Step = stepItemPhoto
		b.send(chatID, "📷 Пришлите фото товара (или «-», чтобы пропустить):", cancelKeyboard())

	case stepItemPhoto:
		photoFileID := ""
		if len(m.Photo) > 0 {
			photoFileID = m.Photo[len(m.Photo)-1].FileID
		} else if m.Text != "-" {
			b.send(chatID, "❌ Пришлите фото или «-»!", nil)
			return
		}

		item, err := b.services.Item.Create(ctx, b.mustUserID(ctx, m.From), &models.ItemCreate{
			Name:          state.ItemName,
			Category:      string(state.Category),
			PurchasePrice: state.Price,
			Comment:       state.Comment,
			PhotoFileID:   photoFileID,
		})
		delete(b.states, chatID)
		if err != nil {
			log.Error().Err(err).Msg("не удалось создать товар")
			b.send(chatID, "❌ Не получилось сохранить товар, попробуйте еще раз", backKeyboard())
			return
		}

		b.send(chatID, fmt.Sprintf(
			"✅ Товар «%s» добавлен!\nКатегория: %s\nЦена покупки: %s₽",
			item.Name, item.Category.Title(), item.PurchasePrice.StringFixed(2),
		), resellMenuKeyboard())
	}
}

// showUnsoldItems меню выбора товара для продажи
func (b *Bot) showUnsoldItems(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	items, err := b.services.Item.ListUnsold(ctx, b.mustUserID(ctx, cb.From))
	if err != nil {
		log.Error().Err(err).Msg("не удалось получить товары")
		b.edit(chatID, cb.Message.MessageID, "❌ Ошибка, попробуйте еще раз", backKeyboard())
		return
	}

	if len(items) == 0 {
		b.edit(chatID, cb.Message.MessageID, "❌ Нет товаров в наличии", backKeyboard())
		return
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items)+1)
	for _, item := range items {
		label := fmt.Sprintf("%s — %s₽", item.Name, item.PurchasePrice.StringFixed(2))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "sell_item_"+item.ID.String()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "back_to_main"),
	))

	b.edit(chatID, cb.Message.MessageID, "💰 Какой товар продали?", tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) startSellItem(chatID int64, rawID string) {
	itemID, err := uuid.Parse(rawID)
	if err != nil {
		return
	}

	b.states[chatID] = &wizardState{Step: stepSellPrice, SellItemID: itemID}
	b.send(chatID, "💰 За сколько продали? (только число):", cancelKeyboard())
}

func (b *Bot) handleSellStep(ctx context.Context, m *tgbotapi.Message, state *wizardState) {
	chatID := m.Chat.ID

	price, err := decimal.NewFromString(strings.ReplaceAll(m.Text, ",", "."))
	if err != nil || !price.IsPositive() {
		b.send(chatID, "❌ Введите корректное число!", nil)
		return
	}

	sale, err := b.services.Item.Sell(ctx, b.mustUserID(ctx, m.From), state.SellItemID, price)
	delete(b.states, chatID)
	if err != nil {
		log.Error().Err(err).Msg("не удалось продать товар")
		b.send(chatID, "❌ Не получилось записать продажу", backKeyboard())
		return
	}

	b.send(chatID, fmt.Sprintf("✅ Товар продан за %s₽!", sale.SalePrice.StringFixed(2)), resellMenuKeyboard())
}

func (b *Bot) showResellStats(ctx context.Context, cb *tgbotapi.CallbackQuery, rawPeriod string) {
	chatID := cb.Message.Chat.ID
	period := models.ParsePeriod(rawPeriod)

	summary, err := b.services.Stats.Summary(ctx, b.mustUserID(ctx, cb.From), period, timeutil.Now())
	if err != nil {
		log.Error().Err(err).Msg("не удалось посчитать статистику")
		b.edit(chatID, cb.Message.MessageID, "❌ Ошибка, попробуйте еще раз", backKeyboard())
		return
	}

	text := fmt.Sprintf(
		"📈 Статистика %s:\n\n💵 Доход: %s₽\n💸 Расходы: %s₽\n📊 Прибыль: %s₽\n",
		periodTitles[period],
		summary.Income.StringFixed(2),
		summary.Expenses.StringFixed(2),
		summary.Profit.StringFixed(2),
	)
	if summary.Profit.IsPositive() {
		text += "✅ Успешно!"
	} else if summary.Profit.IsNegative() {
		text += "⚠️ Убыток!"
	}

	b.edit(chatID, cb.Message.MessageID, text, backKeyboard())
}

// showSalesHistory первая страница истории продаж, последние сверху
func (b *Bot) showSalesHistory(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	report, err := b.services.Stats.SalesReport(
		ctx, b.mustUserID(ctx, cb.From),
		models.PeriodAll, models.DealAll, 1, 0, timeutil.Now(),
	)
	if err != nil {
		log.Error().Err(err).Msg("не удалось получить историю продаж")
		b.edit(chatID, cb.Message.MessageID, "❌ Ошибка, попробуйте еще раз", backKeyboard())
		return
	}

	if report.TotalSales == 0 {
		b.edit(chatID, cb.Message.MessageID, "❌ История пуста", backKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("📜 История продаж:\n\n")
	for idx, sale := range report.Sales {
		status := "➖"
		if sale.Profit.IsPositive() {
			status = "✅"
		} else if sale.Profit.IsNegative() {
			status = "⚠️"
		}
		fmt.Fprintf(&sb, "%d. %s\n   Куплено: %s₽ → Продано: %s₽\n   %s Прибыль: %s₽\n   Дата: %s\n\n",
			idx+1, sale.ItemName,
			sale.PurchasePrice.StringFixed(2), sale.SalePrice.StringFixed(2),
			status, sale.Profit.StringFixed(2),
			timeutil.FormatDateTime(sale.SaleDate),
		)
	}
	fmt.Fprintf(&sb, "\n📊 Всего прибыль: %s₽", report.TotalProfit.StringFixed(2))
	if report.TotalPages > 1 {
		fmt.Fprintf(&sb, "\nСтраница 1 из %d", report.TotalPages)
	}

	b.edit(chatID, cb.Message.MessageID, sb.String(), backKeyboard())
}

func (b *Bot) deleteItem(ctx context.Context, cb *tgbotapi.CallbackQuery, rawID string) {
	chatID := cb.Message.Chat.ID

	itemID, err := uuid.Parse(rawID)
	if err != nil {
		return
	}

	if err := b.services.Item.Delete(ctx, b.mustUserID(ctx, cb.From), itemID); err != nil {
		log.Error().Err(err).Msg("не удалось удалить товар")
		b.edit(chatID, cb.Message.MessageID, "❌ Не получилось удалить товар", backKeyboard())
		return
	}

	b.edit(chatID, cb.Message.MessageID, "✅ Товар удалён", backKeyboard())
}

// mustUserID внутренний id пользователя, при первом обращении он создается
func (b *Bot) mustUserID(ctx context.Context, from *tgbotapi.User) int64 {
	user, err := b.services.User.GetOrCreate(ctx, from.ID, from.UserName)
	if err != nil {
		log.Error().Err(err).Int64("telegram_id", from.ID).Msg("не удалось получить пользователя")
		return 0
	}
	return user.ID
}
