package log

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreLogrus(t *testing.T) {
	formatter, level := logrus.StandardLogger().Formatter, logrus.GetLevel()
	t.Cleanup(func() {
		logrus.SetFormatter(formatter)
		logrus.SetLevel(level)
	})
}

func TestSetup_Formatters(t *testing.T) {
	tests := []struct {
		name string
		env  string
		json bool
	}{
		{name: "desenvolvimento", env: "development", json: false},
		{name: "produção", env: "production", json: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restoreLogrus(t)
			t.Setenv("APP_ENV", tt.env)

			Setup("warn")

			assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
			switch f := logrus.StandardLogger().Formatter.(type) {
			case *logrus.TextFormatter:
				require.False(t, tt.json)
				assert.Equal(t, time.RFC3339, f.TimestampFormat)
				assert.True(t, f.FullTimestamp)
			case *logrus.JSONFormatter:
				require.True(t, tt.json)
				assert.Equal(t, time.RFC3339, f.TimestampFormat)
			default:
				t.Fatalf("formatter inesperado %T", f)
			}
		})
	}
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	restoreLogrus(t)

	Setup("verboso")

	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.False(t, DebugEnabled())
}

func TestCorrelationID(t *testing.T) {
	ctx, id := WithCorrelationID(context.Background())

	assert.NotEmpty(t, id)
	assert.Equal(t, id, GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}
