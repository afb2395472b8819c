package console

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/spahuja/portfolio/internal/eventloop"
	"github.com/spahuja/portfolio/internal/profile"
	"github.com/spahuja/portfolio/internal/shell"
)

const frameBuffer = 8

// loopSession owns one shell controller on a loop.
type loopSession struct {
	loop *eventloop.Loop
	ctrl *shell.Controller
}

func (s *loopSession) Start() {
	s.loop.Post(func() { s.ctrl.StartBoot() })
}

func (s *loopSession) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.loop.Do(ctx, s.ctrl.Close)
}

// openSession mounts a shell on loop and returns its frames and first state.
func openSession(ctx context.Context, loop *eventloop.Loop) (*loopSession, <-chan shell.State, shell.State, error) {
	frames := make(chan shell.State, frameBuffer)
	s := &loopSession{loop: loop}
	var initial shell.State
	err := loop.Do(ctx, func() {
		s.ctrl = shell.New(loop, shell.WithObserver(func(st shell.State) { offer(frames, st) }))
		initial = s.ctrl.State()
	})
	if err != nil {
		return nil, nil, shell.State{}, fmt.Errorf("opening console session: %w", err)
	}
	return s, frames, initial, nil
}

// offer sends st, dropping the oldest buffered state if the reader is behind.
func offer(ch chan shell.State, st shell.State) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// Run shows the console until the user quits or ctx is cancelled.
func Run(ctx context.Context, p *profile.Profile, theme Theme) error {
	loopCtx, stop := context.WithCancel(ctx)
	defer stop()
	loop := eventloop.New(64)
	go loop.Run(loopCtx)

	sess, frames, initial, err := openSession(ctx, loop)
	if err != nil {
		return err
	}
	defer sess.Close()

	prog := tea.NewProgram(New(p, theme, sess, frames, initial), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}
