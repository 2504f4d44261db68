/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package tui renders the live overview in the terminal.
package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/signalsentry/pkg/action"
	"github.com/carverauto/signalsentry/pkg/dashboard"
	"github.com/carverauto/signalsentry/pkg/models"
)

// Dashboard is the live view the terminal UI presents and drives.
type Dashboard interface {
	Snapshot() dashboard.Snapshot
	Updates() <-chan struct{}
	Simulate(ctx context.Context) error
	RefreshDetection(ctx context.Context) error
	Seed(ctx context.Context, force bool) error
	Resolve(ctx context.Context, id int64) error
	Postmortem(ctx context.Context, id int64) error
	RefreshServices(ctx context.Context) error
	IncidentDetail(ctx context.Context, id int64) (*dashboard.IncidentDetail, error)
	ServiceDetail(ctx context.Context, service string, filter models.LogFilter) *dashboard.ServiceDetail
}

var _ Dashboard = (*dashboard.Overview)(nil)

type screen int

const (
	screenOverview screen = iota
	screenIncident
	screenService
)

type updateMsg struct{}

type actionDoneMsg struct {
	name string
	err  error
}

type incidentLoadedMsg struct {
	detail *dashboard.IncidentDetail
	err    error
}

type serviceLoadedMsg struct {
	detail *dashboard.ServiceDetail
}

type model struct {
	ctx  context.Context
	dash Dashboard

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	styles  styles

	snap     dashboard.Snapshot
	screen   screen
	cursor   int
	svc      int
	logLevel int
	incident *dashboard.IncidentDetail
	service  *dashboard.ServiceDetail
	note     string
	width    int

	copy func(string) error
}

func newModel(ctx context.Context, dash Dashboard) *model {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(draculaCyan))

	return &model{
		ctx:     ctx,
		dash:    dash,
		keys:    defaultKeyMap(),
		help:    help.New(),
		spinner: spin,
		styles:  newStyles(),
		snap:    dash.Snapshot(),
		copy:    clipboard.WriteAll,
	}
}

// Run shows the dashboard until the user quits or ctx ends.
func Run(ctx context.Context, dash Dashboard) error {
	p := tea.NewProgram(newModel(ctx, dash), tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	return nil
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.dash.Updates()), m.spinner.Tick)
}

func waitForUpdate(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return updateMsg{}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

		return m, nil
	case updateMsg:
		m.refresh()

		return m, waitForUpdate(m.dash.Updates())
	case actionDoneMsg:
		if errors.Is(msg.err, action.ErrActionPending) {
			m.note = "Another action is still running"
		}

		m.refresh()

		return m, nil
	case incidentLoadedMsg:
		if msg.err != nil {
			m.note = "Incident unavailable"
			return m, nil
		}

		m.incident = msg.detail
		m.screen = screenIncident

		return m, nil
	case serviceLoadedMsg:
		m.service = msg.detail
		m.screen = screenService

		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m *model) refresh() {
	m.snap = m.dash.Snapshot()
	m.cursor = clamp(m.cursor, len(m.snap.Incidents))
	m.svc = clamp(m.svc, len(m.snap.Services))
}

func clamp(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}

	if i >= n {
		return n - 1
	}

	return i
}

func (m *model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.note = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Back):
		m.screen = screenOverview
	case key.Matches(msg, m.keys.Up):
		m.cursor = clamp(m.cursor-1, len(m.snap.Incidents))
	case key.Matches(msg, m.keys.Down):
		m.cursor = clamp(m.cursor+1, len(m.snap.Incidents))
	case key.Matches(msg, m.keys.NextService):
		if n := len(m.snap.Services); n > 0 {
			m.svc = (m.svc + 1) % n
		}
	case key.Matches(msg, m.keys.Open):
		return m, m.loadIncident()
	case key.Matches(msg, m.keys.Logs):
		return m, m.loadService()
	case key.Matches(msg, m.keys.Simulate):
		return m, m.run("simulate", m.dash.Simulate)
	case key.Matches(msg, m.keys.Detect):
		return m, m.run("refresh_detection", m.dash.RefreshDetection)
	case key.Matches(msg, m.keys.Seed):
		return m, m.run("seed", func(ctx context.Context) error { return m.dash.Seed(ctx, false) })
	case key.Matches(msg, m.keys.ForceSeed):
		return m, m.run("seed", func(ctx context.Context) error { return m.dash.Seed(ctx, true) })
	case key.Matches(msg, m.keys.Services):
		return m, m.run("refresh_services", m.dash.RefreshServices)
	case key.Matches(msg, m.keys.Resolve):
		if inc, ok := m.selectedIncident(); ok {
			return m, m.run("resolve", func(ctx context.Context) error { return m.dash.Resolve(ctx, inc.ID) })
		}
	case key.Matches(msg, m.keys.Postmortem):
		if inc, ok := m.selectedIncident(); ok {
			return m, m.run("postmortem", func(ctx context.Context) error { return m.dash.Postmortem(ctx, inc.ID) })
		}
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	}

	return m, nil
}

func (m *model) run(name string, fn func(context.Context) error) tea.Cmd {
	if m.snap.Pending {
		m.note = "Another action is still running"
		return nil
	}

	ctx := m.ctx

	return func() tea.Msg {
		return actionDoneMsg{name: name, err: fn(ctx)}
	}
}

func (m *model) selectedIncident() (models.Incident, bool) {
	if m.screen == screenIncident && m.incident != nil {
		return m.incident.Incident, true
	}

	if len(m.snap.Incidents) == 0 {
		return models.Incident{}, false
	}

	return m.snap.Incidents[m.cursor], true
}

func (m *model) selectedService() (string, bool) {
	if m.screen == screenService && m.service != nil {
		return m.service.Service, true
	}

	if len(m.snap.Services) == 0 {
		return "", false
	}

	return m.snap.Services[m.svc].Service, true
}

func (m *model) loadIncident() tea.Cmd {
	inc, ok := m.selectedIncident()
	if !ok {
		return nil
	}

	ctx, dash := m.ctx, m.dash

	return func() tea.Msg {
		detail, err := dash.IncidentDetail(ctx, inc.ID)
		return incidentLoadedMsg{detail: detail, err: err}
	}
}

// loadService opens the selected service; on the service screen it cycles the log level filter.
func (m *model) loadService() tea.Cmd {
	service, ok := m.selectedService()
	if !ok {
		return nil
	}

	if m.screen == screenService {
		m.logLevel = (m.logLevel + 1) % len(models.LogLevels)
	}

	filter := models.LogFilter{Level: models.LogLevels[m.logLevel]}
	ctx, dash := m.ctx, m.dash

	return func() tea.Msg {
		return serviceLoadedMsg{detail: dash.ServiceDetail(ctx, service, filter)}
	}
}

func (m *model) copySelected() {
	inc, ok := m.selectedIncident()
	if !ok {
		return
	}

	text := fmt.Sprintf("#%d %s %s %s %s", inc.ID, inc.Service, inc.Metric, models.SeverityLabel(inc.Severity), inc.SummaryText())

	if err := m.copy(text); err != nil {
		m.note = "Clipboard unavailable"
		return
	}

	m.note = fmt.Sprintf("Copied incident #%d", inc.ID)
}
