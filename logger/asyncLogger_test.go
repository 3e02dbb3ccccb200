package logger_test

import (
	"os"
	"testing"
	"time"

	"parcel-payment/logger"
	log_model "parcel-payment/models/log"
	"parcel-payment/testutil"
	"parcel-payment/types"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncLoggerPersistsEntries(t *testing.T) {
	db := testutil.NewDB(t)
	asyncLogger := logger.NewAsyncLogger(db)
	asyncLogger.Start()

	asyncLogger.Log(types.LogEntry{
		Method:     "POST",
		URL:        "/parcels",
		StatusCode: 201,
		CreatedAt:  time.Now(),
	})
	asyncLogger.Log(types.LogEntry{
		Method:     "GET",
		URL:        "/payments",
		StatusCode: 200,
		CreatedAt:  time.Now(),
	})
	asyncLogger.Close()

	var logs []log_model.Log
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "/parcels", logs[0].URL)
	assert.Equal(t, 200, logs[1].StatusCode)
}

func TestAsyncLoggerDropsAfterClose(t *testing.T) {
	db := testutil.NewDB(t)
	asyncLogger := logger.NewAsyncLogger(db)
	asyncLogger.Start()
	asyncLogger.Close()

	assert.NotPanics(t, func() {
		asyncLogger.Log(types.LogEntry{Method: "GET", URL: "/"})
	})
	asyncLogger.Close()
}

func TestSetupCreatesLogFile(t *testing.T) {
	t.Cleanup(func() { log.SetOutput(os.Stdout) })
	closer, err := logger.Setup(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}
