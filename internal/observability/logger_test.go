package observability

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"iso-asset-editor/internal/config"
)

func TestInitializeJSON(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "debug", Format: "json", ServiceName: "isoedit"}, zapcore.AddSync(&buf))
	GetLogger().Debug("sprite decoded")
	Sync()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
	assert.Equal(t, "isoedit", entry["logger"])
	assert.Equal(t, "sprite decoded", entry["msg"])
}

func TestInitializeConsoleLevelFilter(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "warn", Format: "console", ServiceName: "isoedit"}, zapcore.AddSync(&buf))
	log := GetLogger()
	log.Info("hidden")
	log.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "isoedit.")
}

func TestInitializeOnce(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	var first, second bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&first))
	Initialize(config.LoggerConfig{Level: "info", Format: "json"}, zapcore.AddSync(&second))
	GetLogger().Info("once")

	assert.Contains(t, first.String(), "once")
	assert.Empty(t, second.String())
}

func TestFileSink(t *testing.T) {
	ResetForTest()
	t.Cleanup(ResetForTest)

	path := filepath.Join(t.TempDir(), "isoedit.log")
	var buf bytes.Buffer
	Initialize(config.LoggerConfig{Level: "info", Format: "console", LogFile: path, MaxSize: 1}, zapcore.AddSync(&buf))
	GetLogger().Info("to file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
}

func TestGetLoggerFallback(t *testing.T) {
	ResetForTest()
	assert.NotNil(t, GetLogger())
}
