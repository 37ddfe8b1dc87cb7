package kernel

import "testing"

// TestBreakpointRoundTrip exercises the "breakpoint round-trip"
// scenario: triggering vector 3 invokes the installed handler and
// control returns to the caller afterward, exactly as resuming at the
// instruction after int3 would on real hardware.
func TestBreakpointRoundTrip(t *testing.T) {
	ic := NewInterruptController()

	var gotRIP uint64
	called := false
	ic.SetHandler(VectorBreakpoint, func(ctx *InterruptContext) {
		called = true
		gotRIP = ctx.RIP
	})

	ctx := &InterruptContext{RIP: 0xdeadbeef}
	ic.Trigger(VectorBreakpoint, ctx)

	if !called {
		t.Fatal("expected breakpoint handler to be invoked")
	}
	if gotRIP != 0xdeadbeef {
		t.Fatalf("expected handler to observe RIP=0xdeadbeef, got 0x%x", gotRIP)
	}
	if ctx.InterruptNumber != VectorBreakpoint {
		t.Fatalf("expected InterruptNumber set to VectorBreakpoint, got %d", ctx.InterruptNumber)
	}
}

func TestTriggerUnregisteredVectorIsNoop(t *testing.T) {
	ic := NewInterruptController()
	ctx := &InterruptContext{}
	ic.Trigger(200, ctx) // no handler installed, must not panic
}

func TestInterruptFlagToggle(t *testing.T) {
	DisableInterrupts()
	if GetInterruptFlag() {
		t.Fatal("expected interrupt flag false after DisableInterrupts")
	}
	EnableInterrupts()
	if !GetInterruptFlag() {
		t.Fatal("expected interrupt flag true after EnableInterrupts")
	}
}

func TestTriggerMasksInterruptsDuringHandler(t *testing.T) {
	EnableInterrupts()
	ic := NewInterruptController()

	var flagDuringHandler bool
	ic.SetHandler(VectorBreakpoint, func(ctx *InterruptContext) {
		flagDuringHandler = GetInterruptFlag()
	})

	ic.Trigger(VectorBreakpoint, &InterruptContext{})

	if flagDuringHandler {
		t.Fatal("expected interrupt flag false while handler was running")
	}
	if !GetInterruptFlag() {
		t.Fatal("expected interrupt flag restored to true after Trigger returns")
	}
}

func TestTriggerRestoresAlreadyDisabledFlag(t *testing.T) {
	DisableInterrupts()
	ic := NewInterruptController()
	ic.SetHandler(VectorBreakpoint, func(ctx *InterruptContext) {})

	ic.Trigger(VectorBreakpoint, &InterruptContext{})

	if GetInterruptFlag() {
		t.Fatal("expected interrupt flag to remain false: it was disabled before Trigger")
	}
	EnableInterrupts()
}
