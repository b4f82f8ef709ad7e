package assist

import (
	"errors"
	"fmt"
)

// ErrorKind причина неудачного вызова.
type ErrorKind int

const (
	// TransportFailure: сеть, таймаут или отмена до получения полного ответа.
	TransportFailure ErrorKind = iota + 1
	// UpstreamRejected: сервис модели отказал (авторизация, квота, блокировка).
	UpstreamRejected
	// MalformedReply: ответ не разбирается в ожидаемую форму.
	MalformedReply
	// ValidationFailed: вход или разобранный ответ нарушает условие.
	ValidationFailed
)

// Названия операций для Error.Op.
const (
	OpValidate     = "validate request"
	OpFetchImage   = "fetch image"
	OpProcessImage = "process image"
	OpInvoke       = "invoke model"
	OpParse        = "parse reply"
)

// Сентинелы для errors.Is, по одному на вид.
var (
	ErrTransport  = errors.New("transport failure")
	ErrUpstream   = errors.New("upstream rejected")
	ErrMalformed  = errors.New("malformed reply")
	ErrValidation = errors.New("validation failed")
)

func (k ErrorKind) String() string {
	switch k {
	case TransportFailure:
		return "transport_failure"
	case UpstreamRejected:
		return "upstream_rejected"
	case MalformedReply:
		return "malformed_reply"
	case ValidationFailed:
		return "validation_failed"
	default:
		return "unknown"
	}
}

// Retryable сообщает, может ли тот же запрос пройти при повторе.
func (k ErrorKind) Retryable() bool {
	return k == TransportFailure || k == UpstreamRejected
}

func (k ErrorKind) sentinel() error {
	switch k {
	case TransportFailure:
		return ErrTransport
	case UpstreamRejected:
		return ErrUpstream
	case MalformedReply:
		return ErrMalformed
	case ValidationFailed:
		return ErrValidation
	default:
		return nil
	}
}

// Error единственный тип ошибки, который возвращает Invoke.
type Error struct {
	Kind       ErrorKind
	Op         string
	StatusCode int // статус провайдера для UpstreamRejected, иначе 0
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("assist: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("assist: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is сверяет вид с сентинелом, errors.Is(err, ErrTransport) работает и через обёртки.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf возвращает вид первой *Error в цепочке err или ноль.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func validationf(op, format string, args ...any) *Error {
	return newError(ValidationFailed, op, fmt.Errorf(format, args...))
}
