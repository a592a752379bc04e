package cli

import (
	"fmt"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	progressBarStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	progressFillStyle = lipgloss.NewStyle().Foreground(colorGreen)
)

// batchJobMsg reports one finished render to the progress model.
type batchJobMsg struct {
	name string
	ok   bool
}

// batchFinishMsg tells the progress model to quit.
type batchFinishMsg struct{}

// batchModel is the bubbletea model for batch progress.
type batchModel struct {
	total  int
	done   int
	failed int
	last   string
}

func (m batchModel) Init() tea.Cmd {
	return nil
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case batchJobMsg:
		m.done++
		if !msg.ok {
			m.failed++
		}
		m.last = msg.name
		return m, nil
	case batchFinishMsg:
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m batchModel) View() string {
	const width = 30
	filled := 0
	if m.total > 0 {
		filled = m.done * width / m.total
	}
	bar := progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressBarStyle.Render(strings.Repeat("░", width-filled))

	line := fmt.Sprintf("%s %d/%d", bar, m.done, m.total)
	if m.failed > 0 {
		line += " " + StyleWarning.Render(fmt.Sprintf("(%d failed)", m.failed))
	}
	if m.last != "" {
		line += " " + StyleDim.Render(m.last)
	}
	return line + "\n"
}

// batchProgress drives either the bubbletea progress UI or plain log lines.
// jobDone is safe to call from worker goroutines.
type batchProgress struct {
	plain   bool
	total   int
	program *tea.Program

	mu     sync.Mutex
	done   int
	failed int

	finished chan struct{}
}

func newBatchProgress(total int, plain bool) *batchProgress {
	return &batchProgress{
		plain:    plain,
		total:    total,
		finished: make(chan struct{}),
	}
}

func (b *batchProgress) start() {
	if b.plain {
		close(b.finished)
		return
	}
	b.program = tea.NewProgram(batchModel{total: b.total})
	go func() {
		defer close(b.finished)
		// A broken terminal falls back to no UI; renders still run.
		_, _ = b.program.Run()
	}()
}

func (b *batchProgress) jobDone(name string, ok bool) {
	if b.plain {
		b.mu.Lock()
		b.done++
		if !ok {
			b.failed++
		}
		done, failed := b.done, b.failed
		b.mu.Unlock()
		if ok {
			printInfo("[%d/%d] %s", done, b.total, name)
		} else {
			printWarning("[%d/%d] %s failed (%d so far)", done, b.total, name, failed)
		}
		return
	}
	b.program.Send(batchJobMsg{name: name, ok: ok})
}

func (b *batchProgress) finish() {
	if !b.plain {
		b.program.Send(batchFinishMsg{})
	}
	<-b.finished
}
