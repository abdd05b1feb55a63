package errors

import (
	"runtime"
	"strings"
)

// StackFrame is one line of a stack trace.
type StackFrame struct {
	File       string
	LineNumber int

	// Function name without its package, e.g. (*Client).Verify.
	Name string

	// Import path of the package containing the function.
	Package string
}

func newStackFrame(f runtime.Frame) StackFrame {
	frame := StackFrame{File: f.File, LineNumber: f.Line}
	frame.Package, frame.Name = splitFuncName(f.Function)
	return frame
}

// splitFuncName turns "github.com/gooby/ezauth.(*Client).Verify" into
// "github.com/gooby/ezauth" and "(*Client).Verify".
func splitFuncName(name string) (string, string) {
	pkg := ""
	if lastslash := strings.LastIndex(name, "/"); lastslash >= 0 {
		pkg = name[:lastslash+1]
		name = name[lastslash+1:]
	}
	if period := strings.Index(name, "."); period >= 0 {
		pkg += name[:period]
		name = name[period+1:]
	}
	return pkg, name
}
