package internal

import (
	"fmt"
	"time"
)

type Config struct {
	Host             string        `env:"HOST,required=true"`
	Port             int           `env:"PORT,required=true"`
	BadgerFilepath   string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel         string        `env:"LOG_LEVEL,required=true"`
	AuthSecret       string        `env:"AUTH_SECRET,required=true"`
	MaxContentLength int           `env:"MAX_CONTENT_LENGTH,required=true"`
	SendBufferSize   int           `env:"SEND_BUFFER_SIZE,required=true"`
	WriteTimeout     time.Duration `env:"WRITE_TIMEOUT,required=true"`
	MetricInterval   time.Duration `env:"METRIC_INTERVAL,required=true"`
	RestartInterval  time.Duration `env:"RESTART_INTERVAL,required=true"`
	CharReplacement  string        `env:"CHARACTER_REPLACEMENT,required=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
