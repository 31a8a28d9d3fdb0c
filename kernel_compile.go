package parcels

import (
	"fmt"
	"os"
	"os/exec"
)

// Compiler turns generated C source into a loadable shared library. The
// default CCCompiler shells out to a system C compiler the way the
// teacher's build tooling assumes one is available on $PATH; tests
// substitute a spy Compiler to exercise the cache without actually
// invoking a compiler (spec §8 seed test: cache hit via spy Compiler).
type Compiler interface {
	// Compile writes source to a temporary .c file, compiles it to a
	// shared library, and writes the result to outputPath.
	Compile(source, outputPath string) error
}

// CCCompiler invokes a C compiler (default "cc", or $CC if set) with
// flags appropriate for a position-independent shared library.
type CCCompiler struct {
	CC    string
	Flags []string
}

// NewCCCompiler returns a CCCompiler using $CC, falling back to "cc".
func NewCCCompiler() *CCCompiler {
	cc := os.Getenv("CC")
	if cc == "" {
		cc = "cc"
	}
	return &CCCompiler{CC: cc, Flags: []string{"-O2", "-fPIC", "-shared"}}
}

func (c *CCCompiler) Compile(source, outputPath string) error {
	srcFile, err := os.CreateTemp("", "parcels-kernel-*.c")
	if err != nil {
		return fmt.Errorf("%w: creating source file: %v", ErrCompile, err)
	}
	defer os.Remove(srcFile.Name())
	if _, err := srcFile.WriteString(source); err != nil {
		srcFile.Close()
		return fmt.Errorf("%w: writing source file: %v", ErrCompile, err)
	}
	if err := srcFile.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrCompile, err)
	}

	args := append(append([]string{}, c.Flags...), "-o", outputPath, srcFile.Name())
	cmd := exec.Command(c.CC, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s: %s", ErrCompile, err, out)
	}
	return nil
}
