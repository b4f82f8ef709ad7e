package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New возвращает dev-логгер в режиме отладки и production JSON-логгер иначе.
// Возвращаемая функция сбрасывает буфер.
func New(debug bool) (*zap.SugaredLogger, func(), error) {
	var (
		zl  *zap.Logger
		err error
	)
	if debug {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}

	sugar := zl.Sugar()
	sync := func() {
		// на некоторых терминалах sync для stderr/stdout возвращает EINVAL
		_ = sugar.Sync()
	}
	return sugar, sync, nil
}
