// Package timeutil отвечает за календарные сравнения дат в едином часовом поясе.
// Все проверки "тот же день/неделя/месяц" делаются в московском времени,
// иначе границы суток поплывут относительно того, что видит пользователь.
package timeutil

import (
	"time"

	"github.com/vlasovdm/resell-tracker/internal/models"
)

var location = mustLoadLocation("Europe/Moscow")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// Location единый часовой пояс приложения
func Location() *time.Location {
	return location
}

// Now текущее время в московском часовом поясе.
// В сервисы время передается явным параметром, Now вызывается только на входе
// (хэндлер, бот), чтобы тесты могли подставить фиксированный момент.
func Now() time.Time {
	return time.Now().In(location)
}

// Normalize приводит время к московскому поясу. Вызывается на границе чтения
// из хранилища, чтобы внутренняя логика никогда не сравнивала время в разных поясах.
func Normalize(t time.Time) time.Time {
	return t.In(location)
}

// SameDay обе даты в один календарный день
func SameDay(a, b time.Time) bool {
	a, b = a.In(location), b.In(location)
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameWeek обе даты в одну ISO-неделю
func SameWeek(a, b time.Time) bool {
	y1, w1 := a.In(location).ISOWeek()
	y2, w2 := b.In(location).ISOWeek()
	return y1 == y2 && w1 == w2
}

// SameMonth обе даты в один календарный месяц
func SameMonth(a, b time.Time) bool {
	a, b = a.In(location), b.In(location)
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// InPeriod попадает ли момент ts в окно периода относительно now
func InPeriod(p models.Period, ts, now time.Time) bool {
	switch p {
	case models.PeriodDay:
		return SameDay(ts, now)
	case models.PeriodWeek:
		return SameWeek(ts, now)
	case models.PeriodMonth:
		return SameMonth(ts, now)
	default:
		return true
	}
}

// FormatDateTime дата и время для вывода пользователю
func FormatDateTime(t time.Time) string {
	return t.In(location).Format("02.01.2006 15:04")
}

// FormatDate только дата
func FormatDate(t time.Time) string {
	return t.In(location).Format("02.01.2006")
}
