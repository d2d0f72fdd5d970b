package logging

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// captureStdout redirects the log package writer for the test's duration.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(old)
		log.SetFlags(oldFlags)
	})
	return &buf
}

func TestLogger_LevelFiltering(t *testing.T) {
	buf := captureStdout(t)
	Initialize("warn")
	defer Initialize("info")

	logger := GetLogger("test")
	logger.Debug("hidden debug")
	logger.Info("hidden info")
	logger.Warn("visible warn")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug/info suppressed at warn level, got %q", out)
	}
	if !strings.Contains(out, "visible warn") {
		t.Errorf("Expected warn message, got %q", out)
	}
}

func TestLogger_FormatIncludesNameAndLevel(t *testing.T) {
	buf := captureStdout(t)
	Initialize("info")

	logger := GetLogger("storage")
	logger.Info("opened %d series", 3)

	out := buf.String()
	if !strings.Contains(out, "[INFO] storage: opened 3 series") {
		t.Errorf("Unexpected log format: %q", out)
	}
}

func TestLogger_WithFieldsAppended(t *testing.T) {
	buf := captureStdout(t)
	Initialize("info")

	logger := GetLogger("analysis").WithField("node", "worker-1")
	logger.InfoWithFields("report ready", Field("score", 0.5))

	out := buf.String()
	if !strings.Contains(out, "node=worker-1") || !strings.Contains(out, "score=0.5") {
		t.Errorf("Expected structured fields in output, got %q", out)
	}
}

func TestLogger_WithFieldReturnsNewInstance(t *testing.T) {
	base := GetLogger("test")
	derived := base.WithField("k", "v")

	if len(base.fields) != 0 {
		t.Error("WithField must not mutate the receiver")
	}
	if derived.fields["k"] != "v" {
		t.Error("Derived logger must carry the new field")
	}
}

func TestLogger_FatalUsesExitFunc(t *testing.T) {
	captureStdout(t)
	Initialize("info")

	exitCode := -1
	oldExit := exitFunc
	exitFunc = func(code int) { exitCode = code }
	defer func() { exitFunc = oldExit }()

	GetLogger("test").Fatal("boom")
	if exitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", exitCode)
	}
}

func TestParseLevel_UnknownFallsBackToInfo(t *testing.T) {
	if parseLevel("verbose") != INFO {
		t.Error("Unknown level must fall back to INFO")
	}
	if parseLevel("DEBUG") != DEBUG || parseLevel("debug") != DEBUG {
		t.Error("Level parsing must be case-insensitive")
	}
}
