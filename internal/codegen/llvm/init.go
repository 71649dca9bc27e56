package llvm

import (
	"sync"

	"github.com/HicaroD/ember/internal/config"
	"tinygo.org/x/go-llvm"
)

var initOnce sync.Once

// Initialize registers every target LLVM was built with. Safe to call more
// than once.
func Initialize() {
	initOnce.Do(func() {
		config.Trace("initializing LLVM targets")
		llvm.InitializeAllTargetInfos()
		llvm.InitializeAllTargets()
		llvm.InitializeAllTargetMCs()
		llvm.InitializeAllAsmParsers()
		llvm.InitializeAllAsmPrinters()
	})
}

func DefaultTriple() string {
	return llvm.DefaultTargetTriple()
}
