// Package terminal is a thin demo driver built on gdamore/tcell/v2. It
// exercises the Emulator's RunFrame/input contract end to end; it is not
// part of the core, and it does not render real pixels — the PPU pixel
// pipeline is an explicit non-goal of this emulator.
package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tholt-dev/gbcore"
	"github.com/tholt-dev/gbcore/input"
)

const frameTime = time.Second / 60

var keyButtons = map[tcell.Key]input.Button{
	tcell.KeyRight: input.Right,
	tcell.KeyLeft:  input.Left,
	tcell.KeyUp:    input.Up,
	tcell.KeyDown:  input.Down,
}

var runeButtons = map[rune]input.Button{
	'z': input.A,
	'x': input.B,
	'a': input.Select,
	's': input.Start,
}

// Driver polls terminal key events into joypad snapshots and renders a
// one-line status bar per frame in place of a pixel framebuffer.
type Driver struct {
	screen tcell.Screen
	emu    *gbcore.Emulator

	mu      sync.Mutex
	pressed [8]bool
	running bool
}

func New(emu *gbcore.Emulator) (*Driver, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: initializing screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: initializing screen: %w", err)
	}
	return &Driver{screen: screen, emu: emu, running: true}, nil
}

func (d *Driver) Run() error {
	defer d.screen.Fini()

	d.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	d.screen.Clear()

	go d.handleInput()

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	for d.running {
		select {
		case <-ticker.C:
			result := d.emu.RunFrame(d.snapshot())
			d.render(result)
			if result.InvalidOpcode {
				return fmt.Errorf("terminal: core halted on illegal opcode at frame %d", result.Frame)
			}
		case <-signals:
			d.running = false
		}
	}

	return nil
}

func (d *Driver) handleInput() {
	for d.running {
		switch ev := d.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape {
				d.running = false
				return
			}
			if b, ok := keyButtons[ev.Key()]; ok {
				d.press(b)
			} else if b, ok := runeButtons[ev.Rune()]; ok {
				d.press(b)
			}
		case *tcell.EventResize:
			d.screen.Sync()
		}
	}
}

func (d *Driver) press(b input.Button) {
	d.mu.Lock()
	d.pressed[b] = true
	d.mu.Unlock()
}

// snapshot drains the buffered key presses into one frame's worth of
// joypad state. Terminal key events carry no release signal, so a
// press is modelled as a one-frame pulse rather than a held button.
func (d *Driver) snapshot() input.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := input.Snapshot{Pressed: d.pressed}
	d.pressed = [8]bool{}
	return s
}

func (d *Driver) render(result gbcore.FrameResult) {
	d.screen.Clear()

	title := d.emu.Cartridge().Header.Title
	status := fmt.Sprintf("gbcore | %-16s | frame %d | cycles %d", title, result.Frame, result.Cycles)
	drawLine(d.screen, 0, status)
	drawLine(d.screen, 2, "arrows/zxas move, Esc quits (no pixel output: out of scope for this core)")

	d.screen.Show()
}

func drawLine(screen tcell.Screen, row int, text string) {
	for i, r := range text {
		screen.SetContent(i, row, r, nil, tcell.StyleDefault)
	}
}
