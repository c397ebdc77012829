package tui

import "testing"

func TestOpState_Lifecycle(t *testing.T) {
	var op opState

	if op.pending() || op.failed() {
		t.Error("zero opState should be idle")
	}

	op.start()
	if !op.pending() {
		t.Error("start() should make the op pending")
	}

	op.fail("boom")
	if !op.failed() || op.message != "boom" {
		t.Errorf("after fail(): phase=%v message=%q", op.phase, op.message)
	}
	if op.pending() {
		t.Error("failed op should not be pending")
	}

	op.start()
	if op.failed() || op.message != "" {
		t.Error("start() should clear a previous failure")
	}

	op.succeed()
	if op.pending() || op.failed() {
		t.Error("succeeded op should be neither pending nor failed")
	}

	op.fail("boom")
	op.reset()
	if op.failed() || op.message != "" {
		t.Error("reset() should return the op to idle")
	}
}
