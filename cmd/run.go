package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bradford-hamilton/chip8term/internal/chip8"
	"github.com/bradford-hamilton/chip8term/internal/input"
	"github.com/bradford-hamilton/chip8term/internal/render"
	"github.com/bradford-hamilton/chip8term/internal/sound"
)

var (
	flagVariant  string
	flagLayout   string
	flagDebug    bool
	flagDumpInst bool
	flagSound    string
)

// runCmd loads a ROM and either runs it in the terminal or, with
// --dump-inst, prints its decoded instruction stream and exits.
var runCmd = &cobra.Command{
	Use:   "run path/to/rom",
	Short: "Run a CHIP-8 ROM in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE:  runROM,
}

func init() {
	// --version here selects the interpreter's quirk variant, not this
	// binary's own release version (see the top-level `version` command).
	runCmd.Flags().StringVar(&flagVariant, "version", "superchip", "interpreter quirks: cosmac, chip48, or superchip")
	runCmd.Flags().StringVar(&flagLayout, "layout", "qwerty", "keyboard layout: qwerty, natural, or sequential")
	runCmd.Flags().BoolVar(&flagDebug, "debug", false, "start paused with the debug overlay visible")
	runCmd.Flags().BoolVar(&flagDumpInst, "dump-inst", false, "print the ROM's decoded instructions and exit")
	runCmd.Flags().StringVar(&flagSound, "sound", "", "path to an mp3 played while the sound timer is nonzero")
}

func runROM(cmd *cobra.Command, args []string) error {
	romPath := args[0]
	romBytes, err := os.ReadFile(romPath)
	if err != nil {
		return fmt.Errorf("reading rom %q: %w", romPath, err)
	}

	if flagDumpInst {
		for _, line := range chip8.DumpInst(romBytes) {
			fmt.Println(line)
		}
		return nil
	}

	variant, err := chip8.ParseVariant(flagVariant)
	if err != nil {
		return err
	}
	layout, err := input.ParseLayout(flagLayout)
	if err != nil {
		return err
	}

	term, err := render.NewTerminal()
	if err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}
	defer closeTerminalAndRecover(term)

	src := input.NewSource(layout)
	pump := input.NewPump(src, term.Screen())

	config := chip8.Config{Variant: variant, Debug: flagDebug}
	vm := chip8.New(config, term, pump)
	if flagSound != "" {
		if hook, err := sound.NewBeep(flagSound); err == nil {
			vm.WithSoundHook(hook)
		}
	}
	if err := vm.LoadROM(romBytes); err != nil {
		return fmt.Errorf("loading rom %q: %w", romPath, err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := vm.Run(ctx); err != nil {
		if f, ferr := os.Create("panic.log"); ferr == nil {
			fmt.Fprintf(f, "fault: %+v\n", err)
			f.Close()
		}
		return err
	}
	return nil
}

// closeTerminalAndRecover always restores the terminal before returning, so
// the user's shell is never left in raw/alternate-screen mode by an
// interpreter fault; on a panic, it then writes a crash report to panic.log
// and re-panics.
func closeTerminalAndRecover(term *render.Terminal) {
	r := recover()
	term.Close()
	if r == nil {
		return
	}
	if f, err := os.Create("panic.log"); err == nil {
		fmt.Fprintf(f, "panic: %v\n\n%s", r, debug.Stack())
		f.Close()
	}
	panic(r)
}
