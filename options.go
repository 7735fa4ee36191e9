package shaderpp

import (
	"log"
	"os"
)

// logger is the package-wide destination for debug traces: a single
// *log.Logger that every Engine writes through when its own debug flag is
// on. Logging is never load-bearing -- turning it off never changes
// Process's return value.
var logger = log.New(os.Stderr, "[shaderpp] ", log.LstdFlags)

// logf writes a debug trace line if this Engine was constructed with
// WithDebugLogging(true). Traces cover: which path the loader was asked to
// resolve, each #define/#undef mutation, which branch of a conditional was
// taken, and depth-counter consumption during identifier substitution.
func (e *Engine) logf(format string, args ...any) {
	if e != nil && e.debug {
		logger.Printf(format, args...)
	}
}

func (ctx *expansionContext) logf(format string, args ...any) {
	ctx.engine.logf(format, args...)
}
