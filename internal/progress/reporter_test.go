package progress

import (
	"testing"
)

func TestNewReporter_CIEnv(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("CI env should select the CIReporter")
	}
}

func TestReportersSatisfyInterface(t *testing.T) {
	// Smoke the full lifecycle of every implementation.
	for _, r := range []Reporter{&TerminalReporter{}, &CIReporter{}, NopReporter{}} {
		r.Start(3)
		r.Update(1, "one")
		r.Update(3, "three")
		r.Finish()
	}
}

func TestTerminalReporter_UpdateBeforeStart(t *testing.T) {
	// Must not panic without a bar.
	r := &TerminalReporter{}
	r.Update(1, "early")
	r.Finish()
}
