// Command um loads a Universal Machine program image and runs it to halt
// or fault. See spec.md §6 for the invocation contract this follows.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"um/vm"
)

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: um <program-image>")
		os.Exit(1)
	}

	os.Exit(run(args[0]))
}

// run loads and executes one program image, returning the process exit
// code spec.md §6/§7 specifies: 0 on normal halt, 1 on an input fault
// (bad argument count is handled in main, bad image size or an unreadable
// file here), and a nonzero, fault-specific code on a fatal machine fault.
func run(path string) int {
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer f.Close()

	mem, err := vm.Load(f)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	source, closeSource, err := vm.NewStdinSource()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closeSource()

	machine := vm.New(mem, vm.NewStdoutSink(), source)

	if err := machine.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return 0
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, vm.ErrDecode):
		return 2
	case errors.Is(err, vm.ErrMemory):
		return 3
	case errors.Is(err, vm.ErrArithmetic):
		return 4
	case errors.Is(err, vm.ErrIO):
		return 5
	default:
		return 1
	}
}
