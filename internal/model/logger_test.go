package model

import (
	"fmt"
	"testing"
)

type recordingLogger struct {
	lines []string
}

func (rl *recordingLogger) Debug(msg string) { rl.lines = append(rl.lines, "D "+msg) }
func (rl *recordingLogger) Debugf(format string, v ...interface{}) {
	rl.Debug(fmt.Sprintf(format, v...))
}
func (rl *recordingLogger) Info(msg string) { rl.lines = append(rl.lines, "I "+msg) }
func (rl *recordingLogger) Infof(format string, v ...interface{}) {
	rl.Info(fmt.Sprintf(format, v...))
}
func (rl *recordingLogger) Warn(msg string) { rl.lines = append(rl.lines, "W "+msg) }
func (rl *recordingLogger) Warnf(format string, v ...interface{}) {
	rl.Warn(fmt.Sprintf(format, v...))
}

func TestDiscardLogger(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("foo")
	logger.Debugf("%s", "foo")
	logger.Info("foo")
	logger.Infof("%s", "foo")
	logger.Warn("foo")
	logger.Warnf("%s", "foo")
}

func TestValidLoggerOrDefault(t *testing.T) {
	if ValidLoggerOrDefault(nil) != DiscardLogger {
		t.Fatal("expected DiscardLogger")
	}
	rl := &recordingLogger{}
	if ValidLoggerOrDefault(rl) != rl {
		t.Fatal("expected the original logger")
	}
}

func TestArmLogger(t *testing.T) {
	rl := &recordingLogger{}
	logger := &ArmLogger{Arm: "edgenet-1", Logger: rl}
	logger.Debugf("cycle %d", 0)
	logger.Info("submitted")
	logger.Warnf("retrying %s", "poll")
	expect := []string{
		"D [edgenet-1] cycle 0",
		"I [edgenet-1] submitted",
		"W [edgenet-1] retrying poll",
	}
	if len(rl.lines) != len(expect) {
		t.Fatal("unexpected number of lines", rl.lines)
	}
	for idx := range expect {
		if rl.lines[idx] != expect[idx] {
			t.Fatal("unexpected line", rl.lines[idx])
		}
	}
}
