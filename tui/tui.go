// Package tui is the interactive terminal front end: a register pane
// that highlights what the last step changed and read, a source pane
// tracking the PC, and an explanation pane describing the current
// mnemonic. It drives the executor one step per keypress.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lumikalt/rizzv-go/encoder"
	"github.com/lumikalt/rizzv-go/env"
	"github.com/lumikalt/rizzv-go/executor"
	"github.com/lumikalt/rizzv-go/isa"
	"github.com/lumikalt/rizzv-go/loader"
	"github.com/lumikalt/rizzv-go/token"
)

// TUI represents the interactive stepper interface
type TUI struct {
	// Core components
	App   *tview.Application
	Pages *tview.Pages

	// Layout containers
	MainLayout *tview.Flex
	LeftPanel  *tview.Flex
	RightPanel *tview.Flex

	// View panels
	SourceView    *tview.TextView
	RegisterView  *tview.TextView
	FRegisterView *tview.TextView
	ExplainView   *tview.TextView
	OutputView    *tview.TextView

	// Simulation state
	Env      *env.Env
	Program  *loader.Program
	Base     executor.Base
	MaxSteps uint64

	seq          uint64
	done         bool
	changedInts  []int
	changedFloat []int
	readRegs     executor.Highlight
}

// New creates the stepper TUI over an assembled program.
func New(e *env.Env, p *loader.Program, base executor.Base, maxSteps uint64) *TUI {
	t := &TUI{
		App:      tview.NewApplication(),
		Env:      e,
		Program:  p,
		Base:     base,
		MaxSteps: maxSteps,
	}

	t.initializeViews()
	t.buildLayout()
	t.setupKeyBindings()

	return t
}

// initializeViews creates all the view panels
func (t *TUI) initializeViews() {
	// Source View
	t.SourceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	t.SourceView.SetBorder(true).SetTitle(" Source ")

	// Register View
	t.RegisterView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	t.RegisterView.SetBorder(true).SetTitle(" Registers ")

	// Float Register View
	t.FRegisterView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	t.FRegisterView.SetBorder(true).SetTitle(" Float Registers ")

	// Explanation View
	t.ExplainView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.ExplainView.SetBorder(true).SetTitle(" Instruction ")

	// Output View
	t.OutputView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	t.OutputView.SetBorder(true).SetTitle(" Output ")
}

// buildLayout constructs the TUI layout
func (t *TUI) buildLayout() {
	// Left panel: Source and Explanation
	t.LeftPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.SourceView, 0, 3, false).
		AddItem(t.ExplainView, 8, 0, false)

	// Right panel: Registers and Float Registers
	t.RightPanel = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(t.RegisterView, 0, 2, false).
		AddItem(t.FRegisterView, 0, 1, false)

	// Main content: Left and Right panels
	mainContent := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(t.LeftPanel, 0, 2, false).
		AddItem(t.RightPanel, 0, 1, false)

	// Main layout: Content + Output
	t.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(mainContent, 0, 4, false).
		AddItem(t.OutputView, 5, 0, false)

	t.Pages = tview.NewPages().
		AddPage("main", t.MainLayout, true, true)
}

// setupKeyBindings sets up keyboard shortcuts
func (t *TUI) setupKeyBindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF10:
			t.StepOnce()
			return nil
		case tcell.KeyF5:
			t.RunToEnd()
			return nil
		case tcell.KeyCtrlC, tcell.KeyEscape:
			t.App.Stop()
			return nil
		}

		switch event.Rune() {
		case 's', ' ', 'n':
			t.StepOnce()
			return nil
		case 'r':
			t.RunToEnd()
			return nil
		case 'b':
			t.cycleBase()
			return nil
		case 'q':
			t.App.Stop()
			return nil
		}

		return event
	})
}

// StepOnce executes a single instruction and refreshes every view.
func (t *TUI) StepOnce() {
	if t.done {
		t.WriteOutput("[yellow]program finished[white]\n")
		return
	}
	if t.Env.PC/4 >= uint32(len(t.Env.Instructions)) {
		t.done = true
		t.WriteOutput("[yellow]program finished[white]\n")
		t.RefreshAll()
		return
	}

	pc := t.Env.PC
	w := t.Env.Instructions[pc/4]
	prev := executor.TakeSnapshot(t.Env)

	jumped, err := executor.Step(t.Env, w)
	if err != nil {
		t.done = true
		t.WriteOutput(fmt.Sprintf("[red]fatal:[white] %v\n", err))
		t.RefreshAll()
		return
	}
	if !jumped {
		t.Env.PC += 4
	}
	t.seq++

	t.changedInts, t.changedFloat = prev.Changed(t.Env)
	t.updateExplanation(pc)

	if t.Env.PC/4 >= uint32(len(t.Env.Instructions)) {
		t.done = true
		t.WriteOutput(fmt.Sprintf("[green]program finished after %d steps[white]\n", t.seq))
	}
	t.RefreshAll()
}

// RunToEnd steps until the program terminates or the step budget runs
// out.
func (t *TUI) RunToEnd() {
	for !t.done {
		if t.MaxSteps > 0 && t.seq >= t.MaxSteps {
			t.WriteOutput(fmt.Sprintf("[red]stopped after %d steps[white]\n", t.seq))
			break
		}
		t.StepOnce()
	}
}

// cycleBase rotates the explainer's number base.
func (t *TUI) cycleBase() {
	switch t.Base {
	case executor.BaseHex:
		t.Base = executor.BaseDec
	case executor.BaseDec:
		t.Base = executor.BaseBin
	default:
		t.Base = executor.BaseHex
	}
	t.RefreshAll()
}

// updateExplanation rebuilds the explanation pane for the instruction
// that just executed, preferring the source token over a disassembly so
// pseudo-instructions keep their written shape.
func (t *TUI) updateExplanation(pc uint32) {
	var name string
	var args []string

	if it, ok := t.Program.ItemAt(pc); ok && it.Tok.Kind == token.KindMnemonic {
		name = it.Tok.Name
		args = loader.ArgStrings(it)
	} else if disasm, err := encoder.Disassemble(t.Env.Instructions[pc/4]); err == nil {
		fields := strings.Fields(disasm)
		name = fields[0]
		args = fields[1:]
	}

	text, read := executor.Explain(t.Env, name, args, t.Base)
	t.readRegs = read

	t.ExplainView.Clear()
	fmt.Fprintf(t.ExplainView, "[yellow]pc=0x%08x[white]  %08x\n\n%s\n",
		pc, t.Env.Instructions[pc/4], tview.Escape(text))
}

// WriteOutput writes to the output view
func (t *TUI) WriteOutput(text string) {
	_, _ = t.OutputView.Write([]byte(text)) // Ignore write errors in TUI
	t.OutputView.ScrollToEnd()
}

// RefreshAll refreshes all view panels
func (t *TUI) RefreshAll() {
	t.UpdateSourceView()
	t.UpdateRegisterView()
	t.UpdateFRegisterView()
	t.App.Draw()
}

// UpdateSourceView renders the source with the next instruction's line
// highlighted.
func (t *TUI) UpdateSourceView() {
	t.SourceView.Clear()

	currentLine := -1
	if !t.done {
		if it, ok := t.Program.ItemAt(t.Env.PC); ok {
			currentLine = it.Loc.Line
		}
	}

	for i, line := range t.Program.Lines {
		lineno := i + 1
		marker := "  "
		color := "[white]"
		if lineno == currentLine {
			marker = "=>"
			color = "[black:yellow]"
		}
		fmt.Fprintf(t.SourceView, "%s[blue]%3d[-] %s%s[-:-]\n",
			marker, lineno, color, tview.Escape(line))
	}
}

// UpdateRegisterView renders the integer register file, marking the
// registers the last step wrote in yellow and the ones it read in aqua.
func (t *TUI) UpdateRegisterView() {
	t.RegisterView.Clear()

	changed := make(map[int]bool, len(t.changedInts))
	for _, i := range t.changedInts {
		changed[i] = true
	}
	read := make(map[int]bool, len(t.readRegs.Ints))
	for _, i := range t.readRegs.Ints {
		read[i] = true
	}

	fmt.Fprintf(t.RegisterView, "[blue]pc[white]   = 0x%08x   steps: %d\n", t.Env.PC, t.seq)
	for i := 0; i < env.NumRegisters; i += 2 {
		for col := 0; col < 2 && i+col < env.NumRegisters; col++ {
			r := i + col
			color := "[white]"
			if changed[r] {
				color = "[yellow]"
			} else if read[r] {
				color = "[aqua]"
			}
			fmt.Fprintf(t.RegisterView, "%s%-4s[white](x%-2d) %s0x%08x[white]  ",
				color, isa.RegName(r), r, color, t.Env.GetReg(r))
		}
		fmt.Fprintln(t.RegisterView)
	}
}

// UpdateFRegisterView renders the float registers that are live:
// nonzero, just changed, or just read.
func (t *TUI) UpdateFRegisterView() {
	t.FRegisterView.Clear()

	changed := make(map[int]bool, len(t.changedFloat))
	for _, i := range t.changedFloat {
		changed[i] = true
	}
	read := make(map[int]bool, len(t.readRegs.Floats))
	for _, i := range t.readRegs.Floats {
		read[i] = true
	}

	shown := 0
	for i := 0; i < env.NumRegisters; i++ {
		v := t.Env.GetFReg(i)
		if v == 0 && !changed[i] && !read[i] {
			continue
		}
		color := "[white]"
		if changed[i] {
			color = "[yellow]"
		} else if read[i] {
			color = "[aqua]"
		}
		fmt.Fprintf(t.FRegisterView, "%s%-5s[white](f%-2d) %s%g[white]\n",
			color, isa.FRegName(i), i, color, v)
		shown++
	}
	if shown == 0 {
		fmt.Fprintln(t.FRegisterView, "[gray]all float registers zero[white]")
	}
}

// Run starts the TUI event loop. Views are populated before the
// screen exists; the first draw happens inside tview's Run.
func (t *TUI) Run() error {
	t.WriteOutput("[green]ready[white]  s/space/F10 step, r/F5 run, b number base, q quit\n")
	t.UpdateSourceView()
	t.UpdateRegisterView()
	t.UpdateFRegisterView()
	return t.App.SetRoot(t.Pages, true).Run()
}

// Stop stops the TUI.
func (t *TUI) Stop() {
	t.App.Stop()
}
