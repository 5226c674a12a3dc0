package services

import (
	"Folio/internal/config"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type LogService struct {
	Log *logrus.Logger
}

func NewLogService(configuration *config.Configuration) LogService {
	log := logrus.New()
	setLogOutputType(configuration.Server.LogConfig, log)
	setLogLevel(configuration.Server.LogConfig, log)
	setLogFormatter(configuration.Server.LogConfig, log)
	return LogService{
		Log: log,
	}
}

func setLogFormatter(logConfig config.LogConfig, log *logrus.Logger) {
	switch logConfig.Format {
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func setLogLevel(logConfig config.LogConfig, log *logrus.Logger) {
	level, err := logrus.ParseLevel(strings.ToLower(logConfig.Level))
	if err != nil {
		log.WithField("level", logConfig.Level).Warn("unknown log level, using info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}

// setLogOutputType writes one file per day under log_path when output is
// "file". It falls back to stdout if the file cannot be opened.
func setLogOutputType(logConfig config.LogConfig, log *logrus.Logger) {
	switch logConfig.Output {
	case "stdout", "":
		log.SetOutput(os.Stdout)
	case "stderr":
		log.SetOutput(os.Stderr)
	case "file":
		logFolder := strings.TrimRight(logConfig.LogPath, "/")
		logName := fmt.Sprintf("%s-%s.log", "folio", time.Now().Format("2006-01-02"))
		logPath := filepath.Join(logFolder, logName)
		if err := os.MkdirAll(logFolder, 0o750); err != nil {
			log.WithError(err).Error("failed to create log directory, logging to stdout")
			return
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
		if err != nil {
			log.WithError(err).Error("failed to open log file, logging to stdout")
			return
		}
		log.SetOutput(file)
	}
}
