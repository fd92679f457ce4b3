// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/tebeka/atexit"

	"github.com/ezrec/stackvm/config"
	"github.com/ezrec/stackvm/cpu"
	"github.com/ezrec/stackvm/emulator"
	"github.com/ezrec/stackvm/translate"
)

func main() {
	var compile string
	var run string
	var save string
	var listing bool
	var verbose bool
	var strict bool
	var configPath string
	var lang string

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&run, "r", "", ".svm image to run")
	flag.StringVar(&save, "s", "", "Save program to .svm image, do not execute")
	flag.BoolVar(&listing, "l", false, "Print the program listing")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&strict, "strict", false, "Undefined labels are assembly errors")
	flag.StringVar(&configPath, "config", "", ".toml file of machine capacities")
	flag.StringVar(&lang, "lang", "", "Message language, as a BCP 47 tag")

	flag.Parse()

	if len(lang) != 0 {
		translate.SetLanguage(lang)
	}

	switch {
	case flag.NArg() == 1 && len(compile) == 0:
		compile = flag.Arg(0)
	case flag.NArg() != 0:
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(run) != 0 {
		log.Fatalf("%v: -c and -r can not be used together", os.Args[0])
	}

	if len(compile) == 0 && len(run) == 0 {
		fmt.Fprintf(flag.CommandLine.Output(), "%v: Provide a file to load.\n", os.Args[0])
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	if len(configPath) != 0 {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalf("%v", err)
		}
	}

	stdout := bufio.NewWriter(os.Stdout)
	atexit.Register(func() {
		stdout.Flush()
	})

	fail := func(err error) {
		fmt.Fprintf(stdout, "\nError: %v\n", err)
		var cpuErr *cpu.Error
		if errors.As(err, &cpuErr) {
			fmt.Fprintf(stdout, "Stack: [%v]\n", cpuErr.StackString())
		}
		atexit.Exit(1)
	}

	emu := emulator.NewEmulator(cfg)
	emu.Verbose = verbose
	emu.Strict = strict
	emu.Console.Output = stdout

	// Load a new instruction stream.
	if len(compile) != 0 {
		err := emu.LoadFile(compile)
		if err != nil {
			fail(fmt.Errorf("%v: %w", compile, err))
		}
	} else {
		data, err := os.ReadFile(run)
		if errors.Is(err, fs.ErrNotExist) {
			err = fmt.Errorf("%w: '%v'", cpu.FileNotFound, run)
		}
		if err != nil {
			fail(err)
		}
		err = emu.LoadImage(data)
		if err != nil {
			fail(fmt.Errorf("%v: %w", run, err))
		}
	}

	if listing {
		fmt.Fprintln(stdout, emu.Program.Listing())
	}

	if len(save) != 0 {
		data, err := emu.Program.MarshalBinary()
		if err == nil {
			err = os.WriteFile(save, data, 0o644)
		}
		if err != nil {
			fail(fmt.Errorf("%v: %w", save, err))
		}
		atexit.Exit(0)
	}

	emu.Reset()
	err := emu.Run()
	if err != nil {
		if verbose {
			log.Printf("%v", emu.Cpu)
		}
		fail(err)
	}

	atexit.Exit(0)
}
