package log

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var logPath string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "keybind-log")
	if err != nil {
		panic(err)
	}
	logPath = filepath.Join(dir, "debug.log")

	// Init is guarded by sync.Once, so the whole package shares one logger.
	cleanup, err := Init(logPath)
	if err != nil {
		panic(err)
	}

	code := m.Run()
	cleanup()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func readLog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	return string(data)
}

func TestWrite_FormatsLevelCategoryAndFields(t *testing.T) {
	Info(CatStore, "settings saved", "path", "/tmp/settings.json", "commands", 13)

	out := readLog(t)
	require.Contains(t, out, "[INFO] [store] settings saved")
	require.Contains(t, out, "path=/tmp/settings.json")
	require.Contains(t, out, "commands=13")
}

func TestWrite_OddFieldCountMarksMissingValue(t *testing.T) {
	Warn(CatConfig, "partial fields", "orphan")

	require.Contains(t, readLog(t), "orphan=<missing>")
}

func TestErrorErr_AppendsErrorField(t *testing.T) {
	ErrorErr(CatRegistrar, "refresh failed", os.ErrPermission)

	out := readLog(t)
	require.Contains(t, out, "[ERROR] [registrar] refresh failed")
	require.Contains(t, out, "error=permission denied")
}

func TestMinLevel_FiltersBelowThreshold(t *testing.T) {
	SetMinLevel(LevelWarn)
	defer SetMinLevel(LevelDebug)

	Debug(CatUI, "filtered out marker")
	require.NotContains(t, readLog(t), "filtered out marker")
}

func TestNewListener_ReceivesPublishedLines(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := NewListener(ctx)
	require.NotNil(t, listener)

	Error(CatCapture, "session aborted", "command", "screenshot")

	done := make(chan string, 1)
	go func() {
		msg := listener.Listen()()
		if ev, ok := msg.(LogEvent); ok {
			done <- ev.Payload
		} else {
			done <- ""
		}
	}()

	select {
	case line := <-done:
		require.Contains(t, line, "session aborted")
		require.True(t, strings.Contains(line, "command=screenshot"))
	case <-time.After(time.Second):
		t.Fatal("listener did not receive the log line")
	}
}
