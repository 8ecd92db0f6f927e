package progress

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/anigrab-cli/anigrab/icon"
	"github.com/anigrab-cli/anigrab/internal/ui"
	"github.com/anigrab-cli/anigrab/style"
	"github.com/anigrab-cli/anigrab/util"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

// logTail caps the scrolling message log kept inside the rendered block.
const logTail = 8

// Tracker renders the interactive run display through a Bubble Tea program on
// stderr. Byte counters are written atomically by the transfer goroutines and
// polled on a render tick, keeping the hot write path free of program
// messages.
type Tracker struct {
	program *tea.Program
	done    chan struct{}
	nextID  int64
}

// NewTracker starts the interactive display.
func NewTracker() *Tracker {
	t := &Tracker{done: make(chan struct{})}
	t.program = tea.NewProgram(
		newTrackerModel(),
		tea.WithOutput(os.Stderr),
		tea.WithoutSignalHandler(),
	)

	go func() {
		defer close(t.done)
		_, _ = t.program.Run()
	}()

	return t
}

// Stage opens a counted stage; its bar runs from 0 to total advances.
func (t *Tracker) Stage(label string, total int) {
	t.program.Send(stageMsg{label: label, total: total})
}

// Advance moves the current stage forward by n steps.
func (t *Tracker) Advance(n int) {
	t.program.Send(advanceMsg(n))
}

// SetStatus replaces the transient status line.
func (t *Tracker) SetStatus(status string) {
	t.program.Send(status)
}

// Write appends a permanent line to the run log.
func (t *Tracker) Write(msg string) {
	t.program.Send(logMsg(msg))
}

// Bytes opens a polled byte sink rendered as a per-file bar.
func (t *Tracker) Bytes(name string, total int64) ByteSink {
	sink := &trackerSink{
		tracker: t,
		id:      atomic.AddInt64(&t.nextID, 1),
		name:    name,
		total:   total,
	}
	t.program.Send(transferMsg{
		id:      sink.id,
		name:    name,
		total:   total,
		current: &sink.current,
	})
	return sink
}

// Close stops the program and waits for the final frame.
func (t *Tracker) Close() error {
	t.program.Send(closeMsg{})
	select {
	case <-t.done:
	case <-time.After(2 * time.Second):
		t.program.Kill()
	}
	return nil
}

type trackerSink struct {
	tracker *Tracker
	id      int64
	name    string
	total   int64
	current int64
}

func (s *trackerSink) Write(b []byte) (int, error) {
	atomic.AddInt64(&s.current, int64(len(b)))
	return len(b), nil
}

func (s *trackerSink) Finish() {
	s.tracker.program.Send(transferEndMsg{id: s.id})
}

func (s *trackerSink) Fail() {
	s.tracker.program.Send(transferEndMsg{id: s.id, failed: true})
}

type (
	stageMsg struct {
		label string
		total int
	}
	advanceMsg int
	logMsg     string

	transferMsg struct {
		id      int64
		name    string
		total   int64
		current *int64
	}
	transferEndMsg struct {
		id     int64
		failed bool
	}
	removeTransferMsg int64

	tickMsg  time.Time
	closeMsg struct{}
)

type transfer struct {
	name    string
	total   int64
	current *int64
	seen    int64
	done    bool
	bar     progressbar.Model
}

type trackerModel struct {
	stageLabel   string
	stageTotal   int
	stageCurrent int
	stageBar     progressbar.Model

	transfers map[int64]*transfer
	order     []int64

	messages []string
	notifier *ui.Model

	width    int
	quitting bool
}

func newTrackerModel() *trackerModel {
	return &trackerModel{
		stageBar:  progressbar.New(progressbar.WithDefaultGradient()),
		transfers: make(map[int64]*transfer),
		notifier:  &ui.Model{},
		width:     80,
	}
}

func tick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *trackerModel) Init() tea.Cmd {
	return tick()
}

func (m *trackerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.stageBar.Width = barWidth(msg.Width)
		for _, tr := range m.transfers {
			tr.bar.Width = barWidth(msg.Width) / 2
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case stageMsg:
		m.stageLabel = msg.label
		m.stageTotal = msg.total
		m.stageCurrent = 0
		return m, m.stageBar.SetPercent(0)

	case advanceMsg:
		m.stageCurrent = util.Min(m.stageCurrent+int(msg), m.stageTotal)
		if m.stageTotal > 0 {
			return m, m.stageBar.SetPercent(float64(m.stageCurrent) / float64(m.stageTotal))
		}
		return m, nil

	case logMsg:
		m.messages = append(m.messages, string(msg))
		if len(m.messages) > logTail {
			m.messages = m.messages[len(m.messages)-logTail:]
		}
		return m, nil

	case transferMsg:
		bar := progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithoutPercentage())
		bar.Width = barWidth(m.width) / 2
		m.transfers[msg.id] = &transfer{
			name:    msg.name,
			total:   msg.total,
			current: msg.current,
			bar:     bar,
		}
		m.order = append(m.order, msg.id)
		return m, nil

	case transferEndMsg:
		tr, ok := m.transfers[msg.id]
		if !ok {
			return m, nil
		}
		if msg.failed {
			m.removeTransfer(msg.id)
			return m, nil
		}

		// Let the completed bar stay on screen for a beat before clearing.
		tr.done = true
		tr.seen = tr.total
		return m, tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
			return removeTransferMsg(msg.id)
		})

	case removeTransferMsg:
		m.removeTransfer(int64(msg))
		return m, nil

	case tickMsg:
		for _, tr := range m.transfers {
			if !tr.done {
				tr.seen = atomic.LoadInt64(tr.current)
			}
		}
		if m.quitting {
			return m, nil
		}
		return m, tick()

	case progressbar.FrameMsg:
		model, cmd := m.stageBar.Update(msg)
		if bar, ok := model.(progressbar.Model); ok {
			m.stageBar = bar
		}
		return m, cmd

	case closeMsg:
		m.quitting = true
		return m, tea.Quit

	case string:
		return m, m.notifier.Update(msg)

	case ui.ClearNotificationMsg:
		return m, m.notifier.Update(msg)
	}

	return m, nil
}

func (m *trackerModel) View() string {
	var lines []string

	for _, msg := range m.messages {
		lines = append(lines, style.Truncate(m.width)(msg))
	}

	if m.stageLabel != "" {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines,
			fmt.Sprintf("%s %s %d/%d", icon.Get(icon.Progress), style.Bold(m.stageLabel), m.stageCurrent, m.stageTotal),
			m.stageBar.View(),
		)
	}

	for _, id := range m.order {
		lines = append(lines, m.renderTransfer(m.transfers[id]))
	}

	output := strings.Join(lines, "\n")
	if !m.quitting {
		output = m.notifier.View(output)
	}
	return output + "\n"
}

func (m *trackerModel) renderTransfer(tr *transfer) string {
	name := truncate.StringWithTail(tr.name, uint(util.Max(m.width/3, 12)), "…")

	if tr.total > 0 {
		percent := util.Min(float64(tr.seen)/float64(tr.total), 1)
		return fmt.Sprintf("%s %s %s / %s",
			name,
			tr.bar.ViewAs(percent),
			humanize.Bytes(uint64(tr.seen)),
			humanize.Bytes(uint64(tr.total)),
		)
	}

	return fmt.Sprintf("%s %s", name, humanize.Bytes(uint64(tr.seen)))
}

func (m *trackerModel) removeTransfer(id int64) {
	delete(m.transfers, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func barWidth(total int) int {
	return util.Max(util.Min(total-10, 60), 10)
}
