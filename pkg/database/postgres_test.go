package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestBackoffCapsDelay(t *testing.T) {
	b := backoff{maxRetries: 5, delay: 500 * time.Millisecond, maxDelay: 5 * time.Second}

	assert.Equal(t, 500*time.Millisecond, b.nextDelay(0))
	assert.Equal(t, time.Second, b.nextDelay(1))
	assert.Equal(t, 4*time.Second, b.nextDelay(3))
	assert.Equal(t, 5*time.Second, b.nextDelay(4))
	assert.Equal(t, 5*time.Second, b.nextDelay(10))
}

func TestGormLoggerRespectsLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewGormLogger(zap.New(core), gormlogger.Warn)

	l.Info(context.Background(), "ignored %d", 1)
	l.Warn(context.Background(), "kept %d", 2)
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "kept 2", entries[0].Message)
	}

	silent := l.LogMode(gormlogger.Silent)
	silent.Warn(context.Background(), "dropped")
	assert.Len(t, logs.All(), 1)
}
