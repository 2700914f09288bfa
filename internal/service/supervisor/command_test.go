package supervisor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/speaker-autogroup/internal/config"
	"github.com/oshokin/speaker-autogroup/internal/logger"
)

// TestLoadSettings_Overrides checks that CLI values win over the file.
//
//nolint:paralleltest // Changes the shared log level.
func TestLoadSettings_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	contents := "bridge_addr: 127.0.0.1:50051\ninterval: 7s\nmetrics_addr: 127.0.0.1:9100\nlog_level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), config.DefaultFilePermissions))

	defer logger.SetLevel(zapcore.InfoLevel)

	cfg, err := LoadSettings(&Options{ConfigPath: path})
	require.NoError(t, err)
	require.Equal(t, 7*time.Second, cfg.Interval)
	require.Equal(t, "127.0.0.1:9100", cfg.MetricsAddress)
	require.Equal(t, zapcore.DebugLevel, logger.Level())

	cfg, err = LoadSettings(&Options{ConfigPath: path, MetricsAddress: ":9200", LogLevel: "warn"})
	require.NoError(t, err)
	require.Equal(t, ":9200", cfg.MetricsAddress)
	require.Equal(t, zapcore.WarnLevel, logger.Level())

	_, err = LoadSettings(&Options{ConfigPath: path, LogLevel: "chatty"})
	require.ErrorIs(t, err, errUnknownLogLevel)

	_, err = LoadSettings(&Options{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
	require.Error(t, err)
}
