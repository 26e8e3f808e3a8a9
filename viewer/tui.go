package viewer

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/sicxe/assembler/config"
	"github.com/sicxe/assembler/loader"
	"github.com/sicxe/assembler/object"
	"github.com/sicxe/assembler/pass1"
)

// Viewer is a read-only text user interface over a completed
// assembly: it has no command input, no breakpoints, and no
// execution, since there is no running program to control.
type Viewer struct {
	App   *tview.Application
	Pages *tview.Pages

	layout *tview.Flex

	SourceView  *tview.TextView
	SymbolsView *tview.TextView
	ObjectView  *tview.TextView
	MemoryView  *tview.TextView

	pass1  *pass1.Result
	object *object.Program
	loaded *loader.LoadedProgram
}

// NewViewer builds the 4-panel viewer over one completed assembly run.
// loaded may be nil if the object program failed to load into memory,
// in which case the memory panel reports that it has nothing to show.
func NewViewer(p1 *pass1.Result, prog *object.Program, loaded *loader.LoadedProgram, cfg *config.Config) *Viewer {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	v := &Viewer{
		App:    tview.NewApplication(),
		pass1:  p1,
		object: prog,
		loaded: loaded,
	}

	v.initializeViews()
	v.buildLayout(cfg)
	v.setupKeyBindings()
	v.refreshAll()

	return v
}

func (v *Viewer) initializeViews() {
	v.SourceView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.SourceView.SetBorder(true).SetTitle(" Source ")

	v.SymbolsView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.SymbolsView.SetBorder(true).SetTitle(" Symbols ")

	v.ObjectView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.ObjectView.SetBorder(true).SetTitle(" Object Program ")

	v.MemoryView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	v.MemoryView.SetBorder(true).SetTitle(" Memory ")
}

// buildLayout arranges panels according to cfg.Viewer's visibility
// flags; a panel with its flag cleared is simply left out of the flex.
func (v *Viewer) buildLayout(cfg *config.Config) {
	left := tview.NewFlex().SetDirection(tview.FlexRow)
	if cfg.Viewer.ShowSource {
		left.AddItem(v.SourceView, 0, SourcePanelWeight, true)
	}
	if cfg.Viewer.ShowObject {
		left.AddItem(v.ObjectView, 0, ObjectPanelWeight, false)
	}

	right := tview.NewFlex().SetDirection(tview.FlexRow)
	if cfg.Viewer.ShowSymbols {
		right.AddItem(v.SymbolsView, 0, SymbolsPanelWeight, false)
	}
	if cfg.Viewer.ShowMemory {
		right.AddItem(v.MemoryView, 0, MemoryPanelWeight, false)
	}

	v.layout = tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(left, 0, 2, true).
		AddItem(right, 0, 1, false)

	v.Pages = tview.NewPages().AddPage("main", v.layout, true, true)
}

// setupKeyBindings wires Tab to cycle panel focus and q/Ctrl+C to
// quit; there is no command mode to capture other keys.
func (v *Viewer) setupKeyBindings() {
	panels := []tview.Primitive{v.SourceView, v.ObjectView, v.SymbolsView, v.MemoryView}
	focusIdx := 0

	v.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyTab:
			focusIdx = (focusIdx + 1) % len(panels)
			v.App.SetFocus(panels[focusIdx])
			return nil
		case event.Key() == tcell.KeyCtrlC:
			v.App.Stop()
			return nil
		case event.Key() == tcell.KeyRune && (event.Rune() == 'q' || event.Rune() == 'Q'):
			v.App.Stop()
			return nil
		}
		return event
	})
}

func (v *Viewer) refreshAll() {
	v.updateSourceView()
	v.updateSymbolsView()
	v.updateObjectView()
	v.updateMemoryView()
}

// updateSourceView renders the Pass 1 intermediate listing: the
// location counter (for lines that have one) and the raw source line.
func (v *Viewer) updateSourceView() {
	var lines []string
	for _, entry := range v.pass1.Intermediate {
		if entry.HasLocCtr {
			lines = append(lines, fmt.Sprintf("[yellow]%05X[white]  %s", entry.LocCtr, entry.Line.Raw))
		} else {
			lines = append(lines, fmt.Sprintf("       %s", entry.Line.Raw))
		}
	}
	v.SourceView.SetText(strings.Join(lines, "\n"))
}

// updateSymbolsView renders the symbol table in definition order.
func (v *Viewer) updateSymbolsView() {
	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]%-10s %-8s %s[white]", "SYMBOL", "VALUE", "LINE"))
	for _, sym := range v.pass1.Symbols.All() {
		lines = append(lines, fmt.Sprintf("%-10s %05X    %d", sym.Name, sym.Value, sym.Line))
	}
	v.SymbolsView.SetText(strings.Join(lines, "\n"))
}

// updateObjectView renders the H/T/M/E object program text.
func (v *Viewer) updateObjectView() {
	if v.object == nil {
		v.ObjectView.SetText("[yellow]No object program available[white]")
		return
	}
	v.ObjectView.SetText(v.object.String())
}

// updateMemoryView renders a hex/ASCII dump of the loaded memory image
// starting at the program's start address.
func (v *Viewer) updateMemoryView() {
	if v.loaded == nil {
		v.MemoryView.SetText("[yellow]Program was not loaded into memory[white]")
		return
	}

	var lines []string
	base := v.loaded.StartAddress
	for row := uint32(0); row < MemoryDisplayRows; row++ {
		rowAddr := base + row*MemoryDisplayColumns
		data, err := v.loaded.Memory.GetBytes(rowAddr, MemoryDisplayColumns)
		if err != nil {
			break
		}

		var hexBytes []string
		var ascii strings.Builder
		for _, b := range data {
			hexBytes = append(hexBytes, fmt.Sprintf("%02X", b))
			if b >= 32 && b < 127 {
				ascii.WriteByte(b)
			} else {
				ascii.WriteByte('.')
			}
		}

		lines = append(lines, fmt.Sprintf("%05X  %s  %s", rowAddr, strings.Join(hexBytes, " "), ascii.String()))
	}
	v.MemoryView.SetText(strings.Join(lines, "\n"))
}

// Run starts the viewer's event loop; it blocks until the user quits.
func (v *Viewer) Run() error {
	return v.App.SetRoot(v.Pages, true).SetFocus(v.SourceView).Run()
}

// Stop stops the viewer's event loop.
func (v *Viewer) Stop() {
	v.App.Stop()
}
