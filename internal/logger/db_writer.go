package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/shahkeval/lead-management-sub000/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from zap to the worker
type LogEntry struct {
	Level     zapcore.Level
	Message   string
	RequestID string
	Caller    string
}

type logRecord struct {
	Message   string    `bson:"message"`
	RequestID string    `bson:"request_id,omitempty"`
	Caller    string    `bson:"caller"`
	Level     string    `bson:"level"`
	CreatedAt time.Time `bson:"created_at"`
}

// DBLogWriter handles the async writing
type DBLogWriter struct {
	db      *mongo.Database
	logChan chan LogEntry
}

func NewDBLogWriter(mongodb *database.MongodbDB) *DBLogWriter {
	writer := &DBLogWriter{
		db:      mongodb.DB,
		logChan: make(chan LogEntry, 1000),
	}

	go writer.processLogs()

	return writer
}

// AddLog is called by the zap hook. Never blocks the request path.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB log channel full, dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := logRecord{
			Message:   entry.Message,
			RequestID: entry.RequestID,
			Caller:    entry.Caller,
			Level:     entry.Level.String(),
			CreatedAt: time.Now().UTC(),
		}

		// Insert errors are swallowed so logging can never take the app down.
		_, _ = w.db.Collection("logs").InsertOne(context.Background(), record)
	}
}
