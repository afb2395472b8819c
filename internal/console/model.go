// Package console runs the boot console and the profile summary in a
// terminal.
package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/spahuja/portfolio/internal/boot"
	"github.com/spahuja/portfolio/internal/profile"
	"github.com/spahuja/portfolio/internal/shell"
)

const barWidth = 28

// Session is the page session the console drives. Implementations forward
// to a shell controller on its own goroutine.
type Session interface {
	Start()
	Close()
}

type frameMsg shell.State

// Model is the bubbletea model of the console.
type Model struct {
	sess    Session
	frames  <-chan shell.State
	state   shell.State
	profile *profile.Profile
	st      styles

	spinner spinner.Model
	bar     progress.Model
	overall progress.Model

	width    int
	quitting bool
}

// New builds a model showing initial until the first frame arrives.
func New(p *profile.Profile, theme Theme, sess Session, frames <-chan shell.State, initial shell.State) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Warning)),
	)
	return Model{
		sess:    sess,
		frames:  frames,
		state:   initial,
		profile: p,
		st:      newStyles(theme),
		spinner: sp,
		bar: progress.New(
			progress.WithSolidFill(string(theme.Accent)),
			progress.WithoutPercentage(),
			progress.WithWidth(barWidth),
		),
		overall: progress.New(
			progress.WithSolidFill(string(theme.Success)),
			progress.WithoutPercentage(),
			progress.WithWidth(barWidth),
		),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForFrame(m.frames))
}

func waitForFrame(frames <-chan shell.State) tea.Cmd {
	if frames == nil {
		return nil
	}
	return func() tea.Msg {
		st, ok := <-frames
		if !ok {
			return nil
		}
		return frameMsg(st)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.quitting = true
			m.sess.Close()
			return m, tea.Quit
		case "enter", " ", "b":
			if m.state.Boot != nil && m.state.Boot.CanStart() {
				m.sess.Start()
			}
		}
		return m, nil

	case frameMsg:
		m.state = shell.State(msg)
		return m, waitForFrame(m.frames)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state.Boot != nil {
		return m.bootView(*m.state.Boot)
	}
	if m.state.Booted {
		return m.profileView()
	}
	return ""
}

func (m Model) bootView(snap boot.Snapshot) string {
	var b strings.Builder

	status := m.st.offline.Render(string(snap.Status))
	if snap.Status == boot.Online {
		status = m.st.online.Render(string(snap.Status))
	}
	fmt.Fprintf(&b, "%s  %s\n\n", m.st.title.Render("SYS.BOOT // "+m.profile.Name), status)

	for _, s := range snap.Steps {
		fmt.Fprintf(&b, "%s %s %s %s\n",
			m.st.primary.Width(20).Render(s.Label),
			m.bar.ViewAs(float64(s.Percent)/100),
			m.st.secondary.Width(5).Align(lipgloss.Right).Render(fmt.Sprintf("%d%%", s.Percent)),
			m.stepState(s.State),
		)
	}
	fmt.Fprintf(&b, "\n%s %s %s\n\n",
		m.st.dim.Width(20).Render("Overall"),
		m.overall.ViewAs(float64(snap.Overall)/100),
		m.st.secondary.Width(5).Align(lipgloss.Right).Render(fmt.Sprintf("%d%%", snap.Overall)),
	)

	switch {
	case snap.CanStart():
		b.WriteString(m.hints([2]string{"enter", "initialize system"}, [2]string{"q", "quit"}))
	default:
		b.WriteString(m.st.dim.Render("Booting...") + "  " + m.hints([2]string{"q", "quit"}))
	}
	return m.st.box.Render(b.String())
}

func (m Model) stepState(s boot.StepState) string {
	switch s {
	case boot.StateOK:
		return m.st.ok.Render("OK")
	case boot.StateLoading:
		return m.spinner.View() + m.st.loading.Render("LOADING")
	default:
		return m.st.pending.Render("PENDING")
	}
}

func (m Model) profileView() string {
	p := m.profile
	var b strings.Builder

	b.WriteString(m.st.title.Render(p.Name) + "\n")
	b.WriteString(m.st.accent.Render(p.Hero.Headline) + "\n")
	b.WriteString(m.st.secondary.Render(strings.Join(nonEmpty(p.School, p.Graduation, p.Location), " · ")) + "\n")

	if len(p.Experiences) > 0 {
		b.WriteString(m.st.section.Render("Experience") + "\n")
		for _, e := range p.Experiences {
			fmt.Fprintf(&b, "  %s %s\n", m.st.primary.Render(e.Title), m.st.dim.Render("@ "+e.Company+" · "+e.Period))
		}
	}
	if len(p.Projects) > 0 {
		b.WriteString(m.st.section.Render("Projects") + "\n")
		for _, pr := range p.Projects {
			fmt.Fprintf(&b, "  %s %s\n", m.st.primary.Render(pr.Title), m.st.dim.Render(pr.Period))
		}
	}
	if len(p.Research) > 0 {
		b.WriteString(m.st.section.Render("Research") + "\n")
		for _, r := range p.Research {
			fmt.Fprintf(&b, "  %s %s\n", m.st.primary.Render(r.Title), m.st.dim.Render(r.Period))
		}
	}
	if groups := p.SkillsByCategory(); len(groups) > 0 {
		b.WriteString(m.st.section.Render("Skills") + "\n")
		for _, g := range groups {
			names := make([]string, len(g.Skills))
			for i, s := range g.Skills {
				names[i] = s.Name
			}
			fmt.Fprintf(&b, "  %s %s\n", m.st.secondary.Render(g.Category+":"), m.st.primary.Render(strings.Join(names, ", ")))
		}
	}
	b.WriteString(m.st.section.Render("Contact") + "\n")
	fmt.Fprintf(&b, "  %s\n", m.st.primary.Render(p.EmailText()))
	if p.LinkedIn != "" {
		fmt.Fprintf(&b, "  %s\n", m.st.primary.Render(p.LinkedIn))
	}
	b.WriteString("\n" + m.hints([2]string{"q", "quit"}))

	out := b.String()
	if m.state.View.Transitioning {
		out = m.st.dim.Render(out)
	}
	return m.st.box.Render(out)
}

func (m Model) hints(pairs ...[2]string) string {
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = m.st.kbdKey.Render(p[0]) + " " + m.st.kbdDesc.Render(p[1])
	}
	return strings.Join(parts, "  ")
}

func nonEmpty(vals ...string) []string {
	var out []string
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
