package main

import (
	"fmt"
	"log"
	"os"

	"github.com/HicaroD/ember/internal/codegen/llvm"
	"github.com/HicaroD/ember/internal/codegen/memory"
	"github.com/HicaroD/ember/internal/compiler"
	"github.com/HicaroD/ember/internal/config"
)

var DevMode string

func main() {
	config.SetDevMode(DevMode == "1")
	if config.DEV {
		fmt.Println("[DEV MODE] initialized")
	}

	args, err := cli(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	envs, err := config.LoadEnvs()
	if err != nil {
		log.Fatal(err)
	}

	switch args.Command {
	case COMMAND_HELP:
		fmt.Print(HELP_COMMAND)
		return
	case COMMAND_ENV:
		llvm.Initialize()
		fmt.Printf("E_DEFAULT_TARGET='%s'\n", llvm.DefaultTriple())
		envs.Each(func(key, value string) {
			fmt.Printf("%s='%s'\n", key, value)
		})
		return
	case COMMAND_CHECK:
		err = compiler.CompileFiles(args.Files, compiler.Options{
			Factory:     memory.NewUnit,
			IROut:       os.Stdout,
			Diagnostics: os.Stderr,
		})
	case COMMAND_COMPILE:
		llvm.Initialize()
		err = compiler.CompileFiles(args.Files, compiler.Options{
			Factory: llvm.Factory(llvm.Options{
				BuildType: args.BuildType,
				Triple:    envs.TARGET,
				CPU:       envs.CPU,
			}),
			EmitObject:  true,
			DumpIR:      args.DumpIR,
			Diagnostics: os.Stderr,
		})
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
