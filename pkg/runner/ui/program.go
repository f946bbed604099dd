package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/journal/pkg/logging"
	"tableflip.dev/journal/pkg/session"
	"tableflip.dev/journal/pkg/tui"
)

// runProgram starts Bubble Tea and forwards session removals made by other
// processes into the running model.
func (u *UI) runProgram(ctx context.Context, m *tui.Model, log logging.Logger) (*tui.Model, error) {
	var p *tea.Program
	ready := make(chan struct{})
	u.Session.OnChange(func(_ session.Session, ok bool) {
		if ok {
			return
		}
		select {
		case <-ready:
			go p.Send(tui.SessionEnded())
		default:
		}
	})
	go func() {
		if err := u.Session.Watch(ctx); err != nil && ctx.Err() == nil {
			log.Warn(ctx, "watch session", "error", err)
		}
	}()

	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	close(ready)
	final, err := p.Run()
	if fm, ok := final.(*tui.Model); ok {
		m = fm
	}
	return m, err
}
