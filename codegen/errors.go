package codegen

import "errors"

// ErrUnsupported is wrapped by Generate when a kernel AST references a
// construct, identifier, or function name outside what the code
// generator understands.
var ErrUnsupported = errors.New("codegen: unsupported construct")
