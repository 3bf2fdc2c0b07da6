package day

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is a tea.Msg carrying the countdown state, sent every interval.
type TickMsg struct {
	Now       time.Time
	Remaining time.Duration
	Ended     bool
}

// RolloverMsg is a tea.Msg sent once when the planning day changes.
type RolloverMsg struct {
	From string
	To   string
}

// tickInterval is how often the countdown is refreshed.
const tickInterval = time.Second

// Watcher drives the countdown and detects day rollover.
type Watcher struct {
	clock    Clock
	interval time.Duration
	msgCh    chan tea.Msg
	stopCh   chan struct{}

	mu      sync.Mutex
	running bool
	window  Window
	lastDay string
}

// NewWatcher creates a watcher counting down to the end of window.
func NewWatcher(c Clock, window Window) *Watcher {
	return &Watcher{
		clock:    c,
		interval: tickInterval,
		msgCh:    make(chan tea.Msg, 16),
		stopCh:   make(chan struct{}),
		window:   window,
		lastDay:  window.PlanningDay(c.Now()),
	}
}

// SetWindow changes the day window, e.g. after the user edits the schedule.
func (w *Watcher) SetWindow(window Window) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.window = window
}

// Start launches the ticker goroutine and returns a command that waits
// for the first message.
func (w *Watcher) Start() tea.Cmd {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	go w.run()

	return w.WaitForNext()
}

// Stop halts the ticker goroutine.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	w.running = false
}

// WaitForNext returns a tea.Cmd that waits for the next watcher message.
// Call it again after handling each TickMsg or RolloverMsg.
func (w *Watcher) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.msgCh:
			return msg
		case <-w.stopCh:
			return nil
		}
	}
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			tick, rollover := w.step(w.clock.Now())
			if rollover != nil {
				// Rollover must reach the app; block until it does.
				select {
				case w.msgCh <- *rollover:
				case <-w.stopCh:
					return
				}
			}
			select {
			case w.msgCh <- tick:
			default:
				// A missed tick is redrawn by the next one.
			}
		}
	}
}

// step computes the messages for one tick at now.
func (w *Watcher) step(now time.Time) (TickMsg, *RolloverMsg) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var rollover *RolloverMsg
	today := w.window.PlanningDay(now)
	if today != w.lastDay {
		rollover = &RolloverMsg{From: w.lastDay, To: today}
		w.lastDay = today
	}

	_, end := w.window.Closing(now)
	remaining := Countdown(now, end)
	return TickMsg{Now: now, Remaining: remaining, Ended: remaining == 0}, rollover
}
