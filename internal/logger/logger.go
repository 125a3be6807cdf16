package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the application logger.
// Production uses JSON on stdout; development uses the console writer.
func New(isProduction bool) zerolog.Logger {
	if isProduction {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(zerolog.DebugLevel)
}
