package sim

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// Interpreter is the default embedded-scripting stand-in for the
// host's real Python interpreter. It wraps a single persistent
// goja.Runtime — created once and reused for every Execute call — the
// same way the teacher's discovery.CodeInterpreter wraps one
// goja.Runtime per tool invocation, except here the runtime itself
// *is* spec.md §3's execution namespace: whatever a script defines at
// the top level remains visible to the next Execute call.
type Interpreter struct {
	vm *goja.Runtime
}

// NewInterpreter creates an Interpreter with an empty namespace. Use
// SetGlobal to pre-populate it with host facades before the first
// Execute call, mirroring spec.md §4.4's "pre-populated with a
// reference to the host... module and... persistence facade".
func NewInterpreter() *Interpreter {
	i := &Interpreter{vm: goja.New()}
	// sleep/now stand in for the real host's time module (spec.md §8
	// scenario S4 drives blocking delays to observe serialization);
	// they are fixed at construction since, unlike print/eprint, they
	// need no per-call output buffer.
	i.vm.Set("sleep", func(seconds float64) {
		time.Sleep(time.Duration(seconds * float64(time.Second)))
	})
	i.vm.Set("now", func() float64 {
		return float64(time.Now().UnixNano()) / float64(time.Second)
	})
	return i
}

// SetGlobal binds name to value in the persistent namespace. Intended
// for one-time setup (e.g. the persist facade) before any
// Execute call runs.
func (i *Interpreter) SetGlobal(name string, value interface{}) {
	i.vm.Set(name, value)
}

// Execute implements host.Interpreter. The namespace is not rolled
// back on error: partial top-level definitions from a failed script
// remain visible to the next call, matching spec.md §4.4's "namespace
// is *not* rolled back" rule.
func (i *Interpreter) Execute(ctx context.Context, code string) (stdout string, stderr string, err error) {
	var out, errOut bytes.Buffer

	i.vm.Set("print", func(args ...interface{}) {
		for idx, a := range args {
			if idx > 0 {
				out.WriteByte(' ')
			}
			fmt.Fprint(&out, a)
		}
		out.WriteByte('\n')
	})
	i.vm.Set("eprint", func(args ...interface{}) {
		for idx, a := range args {
			if idx > 0 {
				errOut.WriteByte(' ')
			}
			fmt.Fprint(&errOut, a)
		}
		errOut.WriteByte('\n')
	})

	_, runErr := i.vm.RunString(code)
	if runErr != nil {
		return out.String(), errOut.String(), runErr
	}
	return out.String(), errOut.String(), nil
}
