package ai

import (
	"context"
	"errors"
	"fmt"
)

// Client транспорт до модели. Реализации взаимозаменяемы.
type Client interface {
	SendRequest(ctx context.Context, req Request) (string, error)
}

// Request один обмен с моделью: текст (или текст с картинкой) на входе, текст на выходе.
type Request struct {
	Prompt string
	Image  *Image // nil для чисто текстовых запросов

	// JSON просит у провайдера ответ в JSON, если он это умеет.
	JSON       bool
	SchemaName string
	Schema     map[string]any // необязательная JSON-схема ответа, только с объектом в корне
}

// Image сырые байты картинки для vision-запроса.
type Image struct {
	Data     []byte
	MIMEType string
}

// ErrNoReply возвращается, если провайдер ответил, но текста в ответе нет.
var ErrNoReply = errors.New("model returned no reply")

// StatusError отказ провайдера (не 2xx, квота, авторизация, блокировка по безопасности).
type StatusError struct {
	Provider   string
	StatusCode int
	Reason     string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: status=%d: %s", e.Provider, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s: status=%d", e.Provider, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.Err }
