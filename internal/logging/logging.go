package logging

import (
	"go.uber.org/zap"
)

// New builds the application logger: a development config (console encoder,
// debug level) when debug is set, production JSON otherwise.
func New(debug bool) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
