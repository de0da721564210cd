package sms

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// LogGateway writes messages to the application log instead of sending them.
// Used in development so booking flows can run without Twilio credentials.
type LogGateway struct {
	logger *logrus.Logger
}

// NewLogGateway creates a log-only SMS gateway
func NewLogGateway(logger *logrus.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// Send logs the message and returns a synthetic message ID
func (l *LogGateway) Send(to string, body string) (string, error) {
	messageID := fmt.Sprintf("log-%d", time.Now().UnixMicro())

	l.logger.WithFields(logrus.Fields{
		"to":         to,
		"message_id": messageID,
		"body":       body,
	}).Info("SMS suppressed (log gateway)")

	return messageID, nil
}

// GetName returns the name of this SMS gateway
func (l *LogGateway) GetName() string {
	return "Log Gateway"
}
