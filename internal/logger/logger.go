package logger

import (
	"performance-core/internal/config"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus.Logger with additional functionality
type Logger struct {
	*logrus.Logger
}

// NewLogger creates a new structured logger instance
func NewLogger(cfg *config.Config) *Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return &Logger{Logger: log}
}

// WithCampaign adds campaign context to log entries
func (l *Logger) WithCampaign(campaignID string) *logrus.Entry {
	return l.WithField("campaign_id", campaignID)
}

// WithDataSource adds data source context to log entries
func (l *Logger) WithDataSource(dataSourceID string) *logrus.Entry {
	return l.WithField("data_source_id", dataSourceID)
}

// WithIntegration adds integration context to log entries
func (l *Logger) WithIntegration(integrationID string) *logrus.Entry {
	return l.WithField("integration_id", integrationID)
}

// WithRequest adds request context to log entries
func (l *Logger) WithRequest(requestID string) *logrus.Entry {
	return l.WithField("request_id", requestID)
}
