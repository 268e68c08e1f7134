package mocks

import "testing"

func TestLogger(t *testing.T) {
	var calls []string
	record := func(name string) func(string) {
		return func(string) { calls = append(calls, name) }
	}
	recordf := func(name string) func(string, ...interface{}) {
		return func(string, ...interface{}) { calls = append(calls, name) }
	}
	lo := &Logger{
		MockDebug:  record("Debug"),
		MockDebugf: recordf("Debugf"),
		MockInfo:   record("Info"),
		MockInfof:  recordf("Infof"),
		MockWarn:   record("Warn"),
		MockWarnf:  recordf("Warnf"),
	}
	lo.Debug("cycle 0")
	lo.Debugf("cycle %d", 0)
	lo.Info("cycle 0")
	lo.Infof("cycle %d", 0)
	lo.Warn("cycle 0")
	lo.Warnf("cycle %d", 0)
	expect := []string{"Debug", "Debugf", "Info", "Infof", "Warn", "Warnf"}
	if len(calls) != len(expect) {
		t.Fatal("unexpected calls", calls)
	}
	for idx := range expect {
		if calls[idx] != expect[idx] {
			t.Fatal("unexpected calls", calls)
		}
	}
}
