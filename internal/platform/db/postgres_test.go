package db

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestGormLoggerIgnoresRecordNotFound(t *testing.T) {
	logger, buf := bufferLogger()
	gl := newGormLogger(logger, gormlogger.Warn)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 0 }, gorm.ErrRecordNotFound)
	if buf.Len() != 0 {
		t.Fatalf("expected no log line, got %s", buf.String())
	}
}

func TestGormLoggerReportsFailuresAndSlowQueries(t *testing.T) {
	logger, buf := bufferLogger()
	gl := newGormLogger(logger, gormlogger.Warn)

	gl.Trace(context.Background(), time.Now(), func() (string, int64) { return "INSERT INTO offers", 0 }, errors.New("boom"))
	if !strings.Contains(buf.String(), `"event":"db_query_failed"`) {
		t.Fatalf("expected failed query log, got %s", buf.String())
	}

	buf.Reset()
	gl.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT * FROM offers", 3 }, nil)
	if !strings.Contains(buf.String(), `"event":"db_query_slow"`) {
		t.Fatalf("expected slow query log, got %s", buf.String())
	}

	buf.Reset()
	gl.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("boom"))
	if buf.Len() != 0 {
		t.Fatalf("expected silent mode to log nothing, got %s", buf.String())
	}
}

func TestConnectRequiresDSN(t *testing.T) {
	if _, err := Connect(context.Background(), "", nil); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}
