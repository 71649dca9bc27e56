package config

import "log"

var DEV bool

func SetDevMode(dev bool) {
	DEV = dev
}

// Prints a dev-mode trace line, no-op outside dev mode
func Trace(format string, args ...any) {
	if DEV {
		log.Printf("[DEV MODE] "+format, args...)
	}
}

const (
	SOURCE_EXT = ".em"
	OBJECT_EXT = ".o"
	IR_EXT     = ".ll"
)

type BuildType int

const (
	RELEASE BuildType = iota
	DEBUG
)

func (bt BuildType) String() string {
	switch bt {
	case RELEASE:
		return "release"
	case DEBUG:
		return "debug"
	}
	return "unknown"
}
