package assist

import (
	"fmt"
	"strings"
)

// Language код целевого языка перевода.
type Language string

const (
	English Language = "en"
	Spanish Language = "es"
	French  Language = "fr"
	Arabic  Language = "ar"
	Chinese Language = "zh"
)

var languageNames = map[Language]string{
	English: "English",
	Spanish: "Spanish",
	French:  "French",
	Arabic:  "Arabic",
	Chinese: "Chinese",
}

// Languages поддерживаемые языки в порядке показа.
func Languages() []Language {
	return []Language{English, Spanish, French, Arabic, Chinese}
}

func (l Language) Valid() bool {
	_, ok := languageNames[l]
	return ok
}

// Name английское название для промпта перевода, пустое для неподдерживаемых кодов.
func (l Language) Name() string {
	return languageNames[l]
}

// ParseLanguage нормализует код от пользователя. Неподдерживаемый код возвращается как есть вместе с ошибкой.
func ParseLanguage(code string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(code)))
	if !l.Valid() {
		return l, fmt.Errorf("unsupported language %q", code)
	}
	return l, nil
}
