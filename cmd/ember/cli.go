package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/HicaroD/ember/internal/config"
)

type Command int

const (
	COMMAND_COMPILE Command = iota
	COMMAND_CHECK
	COMMAND_HELP
	COMMAND_ENV
)

type CliResult struct {
	Command   Command
	BuildType config.BuildType
	DumpIR    bool
	Files     []string
}

var HELP_COMMAND string = `Ember - An ahead-of-time compiler for a small expression language.

Usage:
  ember <command> [arguments]

Available Commands:
  compile <files...> [-release] [-debug] [-dump-ir]   Compiles each file into an object file
      -release      Build in release mode
      -debug        Build in debug mode (default)
      -dump-ir      Also write the textual IR next to each object file

  check <files...>                                    Checks each file and prints its IR

  env                                                 Show environment information

  help                                                Show this help message

Examples:
  ember compile main.em                  Writes main.o next to main.em
  ember compile a.em b.em -release       Compiles both files in release mode
  ember check main.em                    Prints the IR without emitting an object
  ember env                              Display environment details
`

func cli(args []string) (CliResult, error) {
	result := CliResult{}

	if len(args) == 0 {
		result.Command = COMMAND_HELP
		return result, nil
	}

	command := args[0]
	switch command {
	case "env":
		result.Command = COMMAND_ENV
	case "help":
		result.Command = COMMAND_HELP
	case "check", "compile":
		result.Command = COMMAND_COMPILE
		if command == "check" {
			result.Command = COMMAND_CHECK
		}

		releaseBuildSet, debugBuildSet := false, false
		result.BuildType = config.DEBUG

		for _, arg := range args[1:] {
			if !strings.HasPrefix(arg, "-") {
				if filepath.Ext(arg) != config.SOURCE_EXT {
					return result, fmt.Errorf("expected a %s source file, got %s", config.SOURCE_EXT, arg)
				}
				result.Files = append(result.Files, arg)
				continue
			}
			if result.Command == COMMAND_CHECK {
				return result, fmt.Errorf("unknown flag for check: %s", arg)
			}

			switch arg {
			case "-release":
				releaseBuildSet = true
				result.BuildType = config.RELEASE
			case "-debug":
				debugBuildSet = true
				result.BuildType = config.DEBUG
			case "-dump-ir":
				result.DumpIR = true
			default:
				return result, fmt.Errorf("unknown flag for compile: %s", arg)
			}
		}
		if releaseBuildSet && debugBuildSet {
			return result, fmt.Errorf("choose either -release or -debug, not both")
		}
		if len(result.Files) == 0 {
			return result, fmt.Errorf("no source files given to %s", command)
		}
	default:
		return result, fmt.Errorf("unknown command '%s', run 'ember help'", command)
	}
	return result, nil
}
