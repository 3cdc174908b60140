package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vlasovdm/resell-tracker/internal/models"
	"github.com/vlasovdm/resell-tracker/internal/timeutil"
)

func (b *Bot) startAddCar(chatID int64) {
	b.states[chatID] = &wizardState{Step: stepCarName}
	b.send(chatID, "🚗 Введите название автомобиля:", cancelKeyboard())
}

// handleRentalStep текстовые шаги анкет добавления авто и аренды
func (b *Bot) handleRentalStep(ctx context.Context, m *tgbotapi.Message, state *wizardState) {
	chatID := m.Chat.ID

	switch state.Step {
	case stepCarName:
		state.CarName = m.Text
		state.Step = stepCarCost
		b.send(chatID, "💰 Введите стоимость автомобиля (только число):", cancelKeyboard())

	case stepCarCost:
		cost, err := decimal.NewFromString(strings.ReplaceAll(m.Text, ",", "."))
		if err != nil || !cost.IsPositive() {
			b.send(chatID, "❌ Введите корректное число!", nil)
			return
		}

		car, err := b.services.Rental.CreateCar(ctx, b.mustUserID(ctx, m.From), &models.CarCreate{
			Name: state.CarName,
			Cost: cost,
		})
		delete(b.states, chatID)
		if err != nil {
			log.Error().Err(err).Msg("не удалось добавить автомобиль")
			b.send(chatID, "❌ Не получилось сохранить автомобиль", backKeyboard())
			return
		}

		b.send(chatID, fmt.Sprintf(
			"✅ Автомобиль «%s» добавлен!\nСтоимость: %s₽",
			car.Name, car.Cost.StringFixed(2),
		), rentalMenuKeyboard())

	case stepRentPrice:
		price, err := decimal.NewFromString(strings.ReplaceAll(m.Text, ",", "."))
		if err != nil || !price.IsPositive() {
			b.send(chatID, "❌ Введите корректное число!", nil)
			return
		}
		state.PricePerHour = price
		state.Step = stepRentHours
		b.send(chatID, "⏰ Введите количество часов аренды (только число):", cancelKeyboard())

	case stepRentHours:
		hours, err := strconv.Atoi(m.Text)
		if err != nil || hours <= 0 {
			b.send(chatID, "❌ Введите корректное число!", nil)
			return
		}
		state.Hours = hours
		state.Step = stepRentEndTime
		b.send(chatID,
			"🕐 Введите время окончания аренды в формате ЧЧ:ММ или количество часов от текущего времени:\n"+
				"Пример: 18:30 или +3 (для 3 часов от текущего времени)",
			cancelKeyboard())

	case stepRentEndTime:
		rental, err := b.services.Rental.CreateRental(ctx, b.mustUserID(ctx, m.From), &models.RentalCreate{
			CarID:        state.RentCarID,
			PricePerHour: state.PricePerHour,
			Hours:        state.Hours,
			EndTime:      m.Text,
			IsPast:       state.IsPast,
		}, timeutil.Now())
		if err != nil {
			b.send(chatID, "❌ Введите корректное время!", nil)
			return
		}
		delete(b.states, chatID)

		pastLabel := ""
		if rental.IsPast {
			pastLabel = " 📅 (прошлая аренда)"
		}
		b.send(chatID, fmt.Sprintf(
			"✅ Автомобиль сдан в аренду!%s\nЦена: %s₽/ч × %d ч\nОбщий доход: %s₽\nНачало: %s\nОкончание: %s",
			pastLabel,
			rental.PricePerHour.StringFixed(2), rental.Hours,
			rental.Income().StringFixed(2),
			timeutil.FormatDateTime(rental.RentalStart),
			timeutil.FormatDateTime(rental.RentalEnd),
		), rentalMenuKeyboard())
	}
}

func (b *Bot) showMyCars(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	cars, err := b.services.Rental.ListCars(ctx, b.mustUserID(ctx, cb.From), timeutil.Now())
	if err != nil {
		log.Error().Err(err).Msg("не удалось получить автомобили")
		b.edit(chatID, cb.Message.MessageID, "❌ Ошибка, попробуйте еще раз", backKeyboard())
		return
	}

	if len(cars) == 0 {
		b.edit(chatID, cb.Message.MessageID, "❌ У вас нет автомобилей", backKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("🚗 Ваши автомобили:\n\n")
	for idx, car := range cars {
		fmt.Fprintf(&sb, "%d. %s\n   Стоимость: %s₽\n   Доход: %s₽ (окупаемость %s%%)\n   Добавлено: %s\n\n",
			idx+1, car.Name,
			car.Cost.StringFixed(2),
			car.TotalIncome.StringFixed(2),
			car.PaybackPercent.StringFixed(1),
			timeutil.FormatDateTime(car.CreatedAt),
		)
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cars)+1)
	for _, car := range cars {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚗 "+car.Name, "view_car_"+car.ID.String()),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "back_to_main"),
	))

	b.edit(chatID, cb.Message.MessageID, sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) showCarOptions(ctx context.Context, cb *tgbotapi.CallbackQuery, rawID string) {
	chatID := cb.Message.Chat.ID

	carID, err := uuid.Parse(rawID)
	if err != nil {
		return
	}

	cars, err := b.services.Rental.ListCars(ctx, b.mustUserID(ctx, cb.From), timeutil.Now())
	if err != nil {
		log.Error().Err(err).Msg("не удалось получить автомобили")
		return
	}

	for _, car := range cars {
		if car.ID != carID {
			continue
		}

		text := fmt.Sprintf("🚗 %s\nСтоимость: %s₽\nОкупаемость: %s%%\n\nВыберите действие:",
			car.Name, car.Cost.StringFixed(2), car.PaybackPercent.StringFixed(1))

		keyboard := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("💰 Сдал в аренду", "rent_car_"+rawID),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("📊 Статистика", "car_stats_"+rawID),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🗑 Удалить авто", "del_car_"+rawID),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⬅️ Назад", "rental_my_cars"),
			),
		)

		b.edit(chatID, cb.Message.MessageID, text, keyboard)
		return
	}

	b.edit(chatID, cb.Message.MessageID, "❌ Автомобиль не найден", backKeyboard())
}

func (b *Bot) startRentCar(chatID int64, messageID int, rawID string) {
	carID, err := uuid.Parse(rawID)
	if err != nil {
		return
	}

	b.states[chatID] = &wizardState{RentCarID: carID}
	b.edit(chatID, messageID, "❓ Это аренда, которая уже прошла в прошлом?", isPastKeyboard())
}

func (b *Bot) handleIsPastChoice(chatID int64, messageID int, isPast bool) {
	state, ok := b.states[chatID]
	if !ok {
		return
	}

	state.IsPast = isPast
	state.Step = stepRentPrice
	b.edit(chatID, messageID, "💰 Введите цену за час (только число):", cancelKeyboard())
}

func (b *Bot) startCarStats(chatID int64, messageID int, rawID string) {
	carID, err := uuid.Parse(rawID)
	if err != nil {
		return
	}

	b.states[chatID] = &wizardState{StatsCarID: carID}
	b.edit(chatID, messageID, "📈 Выберите период для статистики:", periodKeyboard("cstat_"))
}

// showCarStats доход по конкретному автомобилю за период
func (b *Bot) showCarStats(ctx context.Context, cb *tgbotapi.CallbackQuery, rawPeriod string) {
	chatID := cb.Message.Chat.ID
	period := models.ParsePeriod(rawPeriod)

	state, ok := b.states[chatID]
	if !ok || state.StatsCarID == uuid.Nil {
		b.edit(chatID, cb.Message.MessageID, "❌ Автомобиль не выбран", backKeyboard())
		return
	}

	income, err := b.services.Stats.RentalIncomeByCar(ctx, state.StatsCarID, period, timeutil.Now())
	if err != nil {
		log.Error().Err(err).Msg("не удалось посчитать доход по авто")
		b.edit(chatID, cb.Message.MessageID, "❌ Ошибка, попробуйте еще раз", backKeyboard())
		return
	}
	delete(b.states, chatID)

	text := fmt.Sprintf("📈 Статистика %s:\n\n💵 Доход: %s₽", periodTitles[period], income.StringFixed(2))
	b.edit(chatID, cb.Message.MessageID, text, backKeyboard())
}

// showRentalStats статистика по всему автопарку за период
func (b *Bot) showRentalStats(ctx context.Context, cb *tgbotapi.CallbackQuery, rawPeriod string) {
	chatID := cb.Message.Chat.ID
	period := models.ParsePeriod(rawPeriod)

	income, err := b.services.Stats.RentalIncomeTotal(ctx, b.mustUserID(ctx, cb.From), period, timeutil.Now())
	if err != nil {
		log.Error().Err(err).Msg("не удалось посчитать доход аренды")
		b.edit(chatID, cb.Message.MessageID, "❌ Ошибка, попробуйте еще раз", backKeyboard())
		return
	}

	text := fmt.Sprintf("📈 Статистика аренды %s:\n\n💵 Доход: %s₽", periodTitles[period], income.StringFixed(2))
	b.edit(chatID, cb.Message.MessageID, text, backKeyboard())
}

func (b *Bot) showActiveRentals(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	rentals, err := b.services.Rental.ListActive(ctx, b.mustUserID(ctx, cb.From), timeutil.Now())
	if err != nil {
		log.Error().Err(err).Msg("не удалось получить активные аренды")
		b.edit(chatID, cb.Message.MessageID, "❌ Ошибка, попробуйте еще раз", backKeyboard())
		return
	}

	if len(rentals) == 0 {
		b.edit(chatID, cb.Message.MessageID, "❌ Нет активных аренд", backKeyboard())
		return
	}

	var sb strings.Builder
	sb.WriteString("⏰ Активные аренды:\n\n")
	for idx, rental := range rentals {
		fmt.Fprintf(&sb, "%d. %s\n   %d ч × %s₽ = %s₽\n   До: %s\n\n",
			idx+1, rental.CarName,
			rental.Hours, rental.PricePerHour.StringFixed(2),
			rental.Income().StringFixed(2),
			timeutil.FormatDateTime(rental.RentalEnd),
		)
	}

	b.edit(chatID, cb.Message.MessageID, sb.String(), backKeyboard())
}

func (b *Bot) deleteCar(ctx context.Context, cb *tgbotapi.CallbackQuery, rawID string) {
	chatID := cb.Message.Chat.ID

	carID, err := uuid.Parse(rawID)
	if err != nil {
		return
	}

	if err := b.services.Rental.DeleteCar(ctx, b.mustUserID(ctx, cb.From), carID); err != nil {
		log.Error().Err(err).Msg("не удалось удалить автомобиль")
		b.edit(chatID, cb.Message.MessageID, "❌ Не получилось удалить автомобиль", backKeyboard())
		return
	}

	b.edit(chatID, cb.Message.MessageID, "✅ Автомобиль удален", backKeyboard())
}
