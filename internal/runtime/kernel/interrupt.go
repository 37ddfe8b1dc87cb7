package kernel

import "sync"

// HandlerFunc handles one interrupt vector. It receives the CPU state
// captured at interrupt entry and may modify it before returning — on
// real hardware, the modified state is what gets restored when the
// handler returns control to the interrupted instruction stream.
type HandlerFunc func(ctx *InterruptContext)

// InterruptContext is the CPU state captured at interrupt entry,
// matching the x86_64 register set the reference kernel's interrupt
// stack frame saves.
type InterruptContext struct {
	RAX, RBX, RCX, RDX uint64
	RSI, RDI, RBP, RSP uint64
	R8, R9, R10, R11   uint64
	R12, R13, R14, R15 uint64

	CS, DS, ES, FS, GS, SS uint16

	RIP, RFLAGS uint64

	ErrorCode       uint64
	InterruptNumber uint8
}

// Vector numbers for the exceptions this controller ships a default
// handler for, matching the x86_64 exception vector assignment.
const (
	VectorDivideByZero = 0
	VectorDebug        = 1
	VectorBreakpoint   = 3
	VectorInvalidOp    = 6
	VectorGPFault      = 13
	VectorPageFault    = 14
)

// InterruptController stands in for the IDT: a 256-entry table of
// handler functions, dispatched by vector number. Unlike a real IDT,
// Trigger is a direct function call — the Go-idiomatic analogue of the
// CPU resuming execution at the instruction after int3 once the
// handler returns, which is what grounds the breakpoint round-trip as
// a testable property rather than something only observable on real
// hardware.
type InterruptController struct {
	mu       sync.RWMutex
	handlers [256]HandlerFunc
}

// NewInterruptController returns a controller with the default
// exception handlers installed (console logging, matching
// serial.rs/lib.rs's approach of printing exception info rather than
// taking any corrective action).
func NewInterruptController() *InterruptController {
	ic := &InterruptController{}
	ic.SetHandler(VectorDivideByZero, defaultDivideByZeroHandler)
	ic.SetHandler(VectorDebug, defaultDebugHandler)
	ic.SetHandler(VectorBreakpoint, defaultBreakpointHandler)
	ic.SetHandler(VectorInvalidOp, defaultInvalidOpcodeHandler)
	ic.SetHandler(VectorGPFault, defaultGeneralProtectionHandler)
	ic.SetHandler(VectorPageFault, defaultPageFaultHandler)
	return ic
}

// SetHandler installs handler for vector, replacing whatever was
// previously registered (including the default, if any).
func (ic *InterruptController) SetHandler(vector uint8, handler HandlerFunc) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.handlers[vector] = handler
}

// Trigger invokes the handler registered for vector with ctx, returning
// once the handler returns. An unregistered vector is a no-op: a real
// CPU would triple-fault on a missing handler, but nothing in this
// controller's callers relies on that failure mode.
//
// Interrupts are masked for the handler's duration and restored to
// their prior state afterward, matching a real x86_64 interrupt gate
// clearing IF on entry and RFLAGS restoring it on iretq.
func (ic *InterruptController) Trigger(vector uint8, ctx *InterruptContext) {
	ic.mu.RLock()
	h := ic.handlers[vector]
	ic.mu.RUnlock()
	if h == nil {
		return
	}
	ctx.InterruptNumber = vector

	wasEnabled := GetInterruptFlag()
	DisableInterrupts()
	h(ctx)
	if wasEnabled {
		EnableInterrupts()
	}
}

func defaultDivideByZeroHandler(ctx *InterruptContext) {
	DefaultConsole.Printf("EXCEPTION: divide by zero at RIP=0x%x\n", ctx.RIP)
}

func defaultDebugHandler(ctx *InterruptContext) {
	DefaultConsole.Printf("DEBUG: debug exception at RIP=0x%x\n", ctx.RIP)
}

func defaultBreakpointHandler(ctx *InterruptContext) {
	DefaultConsole.Printf("BREAKPOINT: breakpoint at RIP=0x%x\n", ctx.RIP)
}

func defaultInvalidOpcodeHandler(ctx *InterruptContext) {
	DefaultConsole.Printf("EXCEPTION: invalid opcode at RIP=0x%x\n", ctx.RIP)
}

func defaultGeneralProtectionHandler(ctx *InterruptContext) {
	DefaultConsole.Printf("EXCEPTION: general protection fault at RIP=0x%x, error=0x%x\n", ctx.RIP, ctx.ErrorCode)
}

func defaultPageFaultHandler(ctx *InterruptContext) {
	DefaultConsole.Printf("EXCEPTION: page fault at RIP=0x%x, error=0x%x\n", ctx.RIP, ctx.ErrorCode)
}
