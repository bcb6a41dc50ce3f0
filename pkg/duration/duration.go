// Package duration разбирает человекочитаемую длительность услуги ("1h 30min",
// "2 hours 15 mins") в минуты.
package duration

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultMinutes длительность по умолчанию, если строка пустая или не содержит ни одного токена
const DefaultMinutes = 30

// Порядок альтернатив важен: длинные формы идут раньше коротких,
// иначе "minutes" разобралось бы как "m" + мусор
var tokenRegex = regexp.MustCompile(`(?i)(\d+)\s*(hours|hour|h|minutes|minute|mins|min|m)`)

// Parse возвращает длительность в минутах
// Токены вида <число><единица> суммируются в любом порядке, нераспознанные фрагменты игнорируются.
// Никогда не возвращает ошибку: при отсутствии токенов (или нулевой сумме) возвращает DefaultMinutes
func Parse(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultMinutes
	}

	minutes := 0
	for _, match := range tokenRegex.FindAllStringSubmatch(text, -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}

		unit := strings.ToLower(match[2])
		if strings.HasPrefix(unit, "h") {
			minutes += value * 60
		} else {
			minutes += value
		}
	}

	if minutes <= 0 {
		return DefaultMinutes
	}
	return minutes
}

// ParsePtr то же, что Parse, но nil трактуется как пустая строка
func ParsePtr(text *string) int {
	if text == nil {
		return DefaultMinutes
	}
	return Parse(*text)
}

// Sum суммирует длительности нескольких услуг
func Sum(texts ...string) int {
	total := 0
	for _, text := range texts {
		total += Parse(text)
	}
	return total
}
