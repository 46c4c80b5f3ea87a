package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGlobals(Te *testing.T) {
	require.NotNil(Te, L())
	require.NotNil(Te, S())
	core, logs := observer.New(zapcore.InfoLevel)
	old := L()
	defer ReplaceGlobals(old)
	ReplaceGlobals(zap.New(core))
	L().Info("hello", zap.String("structure", "a.cif"))
	S().Debugf("not %s", "shown")
	require.Equal(Te, 1, logs.Len())
	assert.Equal(Te, "a.cif", logs.All()[0].ContextMap()["structure"])
}

func TestFileLogger(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "gomof.log")
	lg, err := InitLogger(&Config{Level: "warn", File: name})
	require.NoError(Te, err)
	lg.Info("skipped")
	lg.Warn("written")
	lg.Sync()
	b, err := os.ReadFile(name)
	require.NoError(Te, err)
	assert.True(Te, strings.Contains(string(b), "written"))
	assert.False(Te, strings.Contains(string(b), "skipped"))
}

func TestBadLevel(Te *testing.T) {
	_, err := InitLogger(&Config{Level: "loud"})
	assert.Error(Te, err)
	_, err = InitLogger(&Config{File: Te.TempDir()})
	assert.Error(Te, err)
}
