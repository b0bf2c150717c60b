// Command lms runs a Lite MIPS executable to completion.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/adeys/litemips/config"
	"github.com/adeys/litemips/emu"
	"github.com/adeys/litemips/loader"
)

var (
	verbose    bool
	trace      bool
	configPath string
	memSize    uint32
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lms <file>",
		Short: "Run a Lite MIPS executable",
		Args:  cobra.ExactArgs(1),
		RunE:  run,
	}

	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the loaded entry point and final instruction count")
	rootCmd.Flags().BoolVar(&trace, "trace", false, "log every fetched instruction's PC, opcode and raw word")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	rootCmd.Flags().Uint32Var(&memSize, "mem-size", emu.MemorySize, "override the guest address space size, in bytes")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]

	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.TextFormatter{})

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lms: %v\n", err)
		os.Exit(1)
	}

	size := memSize
	if !cmd.Flags().Changed("mem-size") {
		size = cfg.Execution.MemSize
	}
	tracing := trace || cfg.Execution.Trace
	if tracing {
		log.SetLevel(logrus.DebugLevel)
	}

	e := emu.NewEmulator(
		emu.WithLogger(log),
		emu.WithTrace(tracing),
		emu.WithMemSize(size),
		emu.WithMaxInstructions(cfg.Execution.MaxInstructions),
	)

	prog, err := loader.Load(path, e.Memory())
	if err != nil {
		fmt.Fprintf(os.Stderr, "lms: %v\n", err)
		os.Exit(1)
	}
	e.SetEntry(emu.ProgramBase + prog.Entry)

	if verbose {
		fmt.Fprintf(os.Stderr, "entry: 0x%x\n", emu.ProgramBase+prog.Entry)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	result := e.Run(ctx)

	if verbose {
		fmt.Fprintf(os.Stderr, "instructions executed: %d\n", e.InstructionCount())
	}

	os.Exit(exitCode(result))
	return nil
}

func exitCode(result emu.Result) int {
	switch result.Kind {
	case emu.Success:
		return 0
	case emu.IntegerOverflow:
		return 2
	case emu.MemoryAddress:
		return 3
	case emu.InvalidInstruction:
		return 4
	default:
		return 1
	}
}
