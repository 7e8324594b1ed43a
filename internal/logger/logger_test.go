package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func jsonLogger(buf *bytes.Buffer) *zap.Logger {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(buf),
		zapcore.DebugLevel,
	)
	return zap.New(core).With(zap.String("service", ServiceName))
}

func TestProperty_LogsAreStructured(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("every entry is a JSON object carrying level, timestamp, message and service", prop.ForAll(
		func(message string, level string) bool {
			var buf bytes.Buffer
			logger := jsonLogger(&buf)

			switch level {
			case "debug":
				logger.Debug(message)
			case "warn":
				logger.Warn(message)
			case "error":
				logger.Error(message)
			default:
				logger.Info(message)
			}
			_ = logger.Sync()

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}

			for _, key := range []string{"level", "timestamp", "msg", "service"} {
				if _, ok := entry[key]; !ok {
					return false
				}
			}
			return entry["msg"] == message && entry["service"] == ServiceName
		},
		gen.AnyString(),
		gen.OneConstOf("debug", "info", "warn", "error"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestProperty_FieldsArePreserved(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("typed fields survive encoding", prop.ForAll(
		func(productID int64, sku string) bool {
			var buf bytes.Buffer
			logger := jsonLogger(&buf)

			logger.Warn("Invalid cart price", zap.Int64("product_id", productID), zap.String("sku", sku))
			_ = logger.Sync()

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				return false
			}

			id, ok := entry["product_id"].(float64)
			return ok && int64(id) == productID && entry["sku"] == sku
		},
		gen.Int64Range(1, 1<<40),
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestNew_AllEnvironments(t *testing.T) {
	for _, env := range []string{"production", "development", "test", ""} {
		logger, err := New(env)
		if err != nil {
			t.Fatalf("New(%q) returned error: %v", env, err)
		}
		if logger == nil {
			t.Fatalf("New(%q) returned nil logger", env)
		}
	}
}

func TestNewWithDefaults(t *testing.T) {
	t.Setenv("SERVER_ENV", "")

	if NewWithDefaults() == nil {
		t.Fatal("Logger should not be nil")
	}
}
