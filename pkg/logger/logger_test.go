package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggersWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	t.Cleanup(func() {
		ErrorLogger, AuditLogger, RequestLogger = zap.NewNop(), zap.NewNop(), zap.NewNop()
		SecurityLogger, SystemLogger = zap.NewNop(), zap.NewNop()
	})

	require.NoError(t, InitLoggers(dir))
	SystemLogger.Info("Starting application")
	SyncLoggers()

	data, err := os.ReadFile(filepath.Join(dir, "system.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Starting application")
	assert.Contains(t, string(data), "timestamp")

	for _, name := range []string{"errors.log", "audit.log", "request.log", "security.log"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
}
