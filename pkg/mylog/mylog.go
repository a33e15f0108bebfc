package mylog

import (
	"fmt"
	"log"
	"os"
	"strings"
)

type Logger interface {
	Printf(string, ...interface{})
}

type Level int

const (
	LevelFatal Level = iota - 1
	LevelError
	LevelInfo
	LevelDebug
)

var levelStrings = map[string]Level{
	"FATAL": LevelFatal,
	"ERROR": LevelError,
	"INFO":  LevelInfo,
	"DEBUG": LevelDebug,
}

var prefixes = map[Level]string{
	LevelFatal: "[FATAL] ",
	LevelError: "[ERROR] ",
	LevelInfo:  "[INFO ] ",
	LevelDebug: "[DEBUG] ",
}

type MyLog struct {
	logLevel Level
	logger   Logger
	exit     func(code int)
}

// NewLog return a MyLog writing messages up to the given level on logger
func NewLog(lvl string, logger Logger) (*MyLog, error) {
	level, ok := levelStrings[strings.ToUpper(strings.TrimSpace(lvl))]
	if !ok {
		return nil, fmt.Errorf("invalid log level '%s'", lvl)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &MyLog{
		logLevel: level,
		logger:   logger,
		exit:     os.Exit,
	}, nil
}

// Fatal prepare the output of FATAL message
func (l *MyLog) Fatal() logcontext {
	return logcontext{l, LevelFatal}
}

// Error prepare the output of ERROR message
func (l *MyLog) Error() logcontext {
	return logcontext{l, LevelError}
}

// Info prepare the output of INFO message
func (l *MyLog) Info() logcontext {
	return logcontext{l, LevelInfo}
}

// Debug prepare the output of DEBUG message
func (l *MyLog) Debug() logcontext {
	return logcontext{l, LevelDebug}
}

// IsDebug return true if log level is DEBUG
func (l *MyLog) IsDebug() bool {
	if l == nil {
		return true
	}
	return l.logLevel >= LevelDebug
}

// logcontext get the level of current message
type logcontext struct {
	mylog *MyLog
	lvl   Level
}

// Printf print message when its level is enabled.
// When the message is FATAL, the program exits.
// If the logger isn't initialized, it logs to the console
func (c logcontext) Printf(fmt string, args ...interface{}) {
	if c.mylog == nil {
		if c.lvl == LevelFatal {
			log.Fatalf(prefixes[c.lvl]+fmt, args...)
		}
		log.Printf(prefixes[c.lvl]+fmt, args...)
		return
	}
	if c.lvl <= c.mylog.logLevel {
		c.mylog.logger.Printf(prefixes[c.lvl]+fmt, args...)
	}
	if c.lvl == LevelFatal {
		c.mylog.exit(1)
	}
}
