package logger

import (
	"sync"

	log_model "parcel-payment/models/log"
	"parcel-payment/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request logs off the request path.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
	wg      sync.WaitGroup
	once    sync.Once
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
	}
}

// Start launches the single writer goroutine.
func (logger *AsyncLogger) Start() {
	logger.wg.Add(1)
	go logger.processLog()
}

func (logger *AsyncLogger) processLog() {
	defer logger.wg.Done()
	Info("Starting asynchronous request logger")

	for logEntry := range logger.channel {
		dbLog := log_model.Log{
			Method:          logEntry.Method,
			URL:             logEntry.URL,
			RequestBody:     logEntry.RequestBody,
			ResponseBody:    logEntry.ResponseBody,
			RequestHeaders:  logEntry.RequestHeaders,
			ResponseHeaders: logEntry.ResponseHeaders,
			StatusCode:      logEntry.StatusCode,
			CreatedAt:       logEntry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			Error("Failed to insert request log entry", err)
		}
	}
}

// Log queues an entry. Entries logged after Close are dropped.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	defer func() {
		// send on closed channel during shutdown
		_ = recover()
	}()
	logger.channel <- entry
}

// Close stops accepting entries and waits for the queue to drain.
func (logger *AsyncLogger) Close() {
	logger.once.Do(func() {
		close(logger.channel)
	})
	logger.wg.Wait()
}
