package parcels

import (
	"log"
	"os"
)

// Logger is the package-wide logger used by the recovery kernels and the
// kernel compile cache to report deletions and cache misses, following
// the teacher's (spatialmodel-inmap) convention of a single package
// logger rather than a structured logging library (SPEC_FULL.md §10).
// Callers may redirect it, e.g. Logger.SetOutput(io.Discard) in tests.
var Logger = log.New(os.Stderr, "parcels: ", log.LstdFlags)
