package log_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/plunderswap/sor/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name         string
		isProduction bool
		level        string
		expectErr    bool
	}{
		{name: "production info", isProduction: true, level: "info"},
		{name: "development debug", isProduction: false, level: "debug"},
		{name: "invalid level", isProduction: true, level: "loud", expectErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fileName := filepath.Join(t.TempDir(), "sor.log")

			logger, err := log.NewLogger(tc.isProduction, fileName, tc.level)
			if tc.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			logger.Info("router started", zap.String("chain", "zilliqa"))
			_ = logger.Sync()

			contents, err := os.ReadFile(fileName)
			require.NoError(t, err)
			require.Contains(t, string(contents), "router started")
		})
	}
}

func TestNoOpLogger(t *testing.T) {
	var logger log.Logger = &log.NoOpLogger{}
	logger.Debug("ignored", zap.Int("n", 1))
	require.NoError(t, logger.Sync())
}
