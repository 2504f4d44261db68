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

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/carverauto/signalsentry/pkg/dashboard"
	"github.com/carverauto/signalsentry/pkg/models"
	"github.com/carverauto/signalsentry/pkg/stream"
)

const (
	sparkWidth  = 24
	maxLogLines = 12
	noData      = "—"
)

func (m *model) View() string {
	var body string

	switch m.screen {
	case screenIncident:
		body = m.incidentView()
	case screenService:
		body = m.serviceView()
	default:
		body = m.overviewView()
	}

	return m.styles.app.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		body,
		m.statusView(),
		m.help.View(m.keys),
	))
}

func (m *model) headerView() string {
	state := m.snap.Stream.String()

	var streamStyle lipgloss.Style

	switch m.snap.Stream {
	case stream.StateOpen:
		streamStyle = m.styles.ok
	case stream.StateClosed:
		streamStyle = m.styles.crit
	default:
		streamStyle = m.styles.warn
	}

	line := m.styles.title.Render("SignalSentry") + "  " +
		m.styles.label.Render("stream ") + streamStyle.Render(state)

	if m.snap.Pending {
		line += "  " + m.spinner.View() + m.styles.label.Render(" working")
	}

	return line
}

func (m *model) statusView() string {
	var parts []string

	if m.snap.Status != "" {
		parts = append(parts, m.styles.status.Render(m.snap.Status))
	}

	if m.note != "" {
		parts = append(parts, m.styles.warn.Render(m.note))
	}

	if m.snap.StreamErr != nil {
		parts = append(parts, m.styles.crit.Render("live updates stopped"))
	}

	return strings.Join(parts, "  ")
}

func (m *model) overviewView() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.kpiView(),
		m.styles.panel.Render(m.incidentTable()),
		m.styles.panel.Render(m.serviceTable()),
	)
}

func (m *model) kpiView() string {
	k := m.snap.KPIs

	latency, latencySvc := noData, "no data"
	if k.HighestLatency != nil {
		latency = fmt.Sprintf("%.0f ms", k.HighestLatency.Value)
		latencySvc = k.HighestLatency.Service
	}

	errRate, errSvc := noData, "no data"
	if k.HighestErrorRate != nil {
		errRate = formatPercent(k.HighestErrorRate.Value)
		errSvc = k.HighestErrorRate.Service
	}

	return fmt.Sprintf("%s %s %s   %s %s %s   %s %s %s",
		m.styles.label.Render("active"), m.styles.value.Render(fmt.Sprint(k.ActiveIncidents)),
		m.styles.label.Render(fmt.Sprintf("across %d services", k.Services)),
		m.styles.label.Render("p95"), m.styles.value.Render(latency), m.styles.label.Render(latencySvc),
		m.styles.label.Render("errors"), m.styles.value.Render(errRate), m.styles.label.Render(errSvc))
}

func (m *model) incidentTable() string {
	var sb strings.Builder

	sb.WriteString(m.styles.header.Render("Active incidents"))
	sb.WriteString("\n")

	if len(m.snap.Incidents) == 0 {
		sb.WriteString(m.styles.label.Render("No active incidents"))
		return sb.String()
	}

	for i := range m.snap.Incidents {
		inc := &m.snap.Incidents[i]

		row := fmt.Sprintf("#%-5d %-9s %-16s %-16s %s",
			inc.ID,
			models.SeverityLabel(inc.Severity),
			truncate(inc.Service, 16),
			truncate(inc.Metric, 16),
			inc.DetectedAt.Format("15:04:05"))

		if i == m.cursor {
			row = m.styles.selected.Render(row)
		} else {
			row = m.styles.severity(inc.Severity).Render(row)
		}

		sb.WriteString(row)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m *model) serviceTable() string {
	var sb strings.Builder

	sb.WriteString(m.styles.header.Render("Services"))
	sb.WriteString("\n")

	if len(m.snap.Services) == 0 {
		sb.WriteString(m.styles.label.Render("No service data"))
		return sb.String()
	}

	for i := range m.snap.Services {
		s := &m.snap.Services[i]

		row := fmt.Sprintf("%-16s p95 %-8s err %-7s cpu %-6s mem %-8s %s",
			truncate(s.Service, 16),
			formatGauge(s.LatencyP95Ms, "%.0fms"),
			formatRate(s.ErrorRate),
			formatGauge(s.CPUPct, "%.0f%%"),
			formatGauge(s.MemoryRSSMb, "%.0fMB"),
			sparkline(s.Sparklines[models.MetricLatencyP95], sparkWidth))

		if i == m.svc {
			row = m.styles.selected.Render(row)
		}

		sb.WriteString(row)
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func (m *model) incidentView() string {
	if m.incident == nil {
		return ""
	}

	inc := m.incident.Incident

	statusStyle := m.styles.warn
	if !inc.IsOpen() {
		statusStyle = m.styles.ok
	}

	var sb strings.Builder

	sb.WriteString(m.styles.header.Render(fmt.Sprintf("Incident #%d", inc.ID)))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %s  %s %s  %s %s\n",
		m.styles.label.Render("service"), inc.Service,
		m.styles.label.Render("metric"), inc.Metric,
		m.styles.label.Render("severity"), m.styles.severity(inc.Severity).Render(models.SeverityLabel(inc.Severity)))
	fmt.Fprintf(&sb, "%s %s → %s  %s %s\n",
		m.styles.label.Render("window"), inc.WindowStart.Format("15:04:05"), inc.WindowEnd.Format("15:04:05"),
		m.styles.label.Render("status"), statusStyle.Render(inc.Status))

	if summary := inc.SummaryText(); summary != "" {
		sb.WriteString(summary)
		sb.WriteString("\n")
	}

	if tl := m.incident.Timeline; tl != nil {
		fmt.Fprintf(&sb, "\n%s %s\n", m.styles.label.Render("timeline"), sparkline(tl.Points, sparkWidth*2))
	}

	sb.WriteString("\n")
	sb.WriteString(m.analysisView(m.incident.Analysis))

	return m.styles.panel.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m *model) analysisView(rca *models.RootCauseAnalysis) string {
	if rca == nil || len(rca.Hypotheses) == 0 {
		return m.styles.label.Render("No root cause analysis available")
	}

	var sb strings.Builder

	sb.WriteString(m.styles.header.Render("Root cause hypotheses"))
	sb.WriteString("\n")

	for _, h := range rca.Hypotheses {
		fmt.Fprintf(&sb, "%3d%%  %s\n", h.Confidence, h.Title)

		for _, ev := range h.Evidence {
			fmt.Fprintf(&sb, "      %s %s\n", m.styles.label.Render(ev.Type), ev.Detail)
		}
	}

	return sb.String()
}

func (m *model) serviceView() string {
	if m.service == nil {
		return ""
	}

	d := m.service

	var sb strings.Builder

	sb.WriteString(m.styles.header.Render("Service " + d.Service))
	sb.WriteString("\n")

	for _, metric := range models.ServiceMetrics {
		current := noData

		if d.Summary != nil {
			if v, ok := d.Summary.Gauge(metric); ok {
				current = fmt.Sprintf("%.2f", v)
			}
		}

		fmt.Fprintf(&sb, "%-15s %-10s %s\n", metric, current, sparkline(d.Series[metric], sparkWidth*2))
	}

	fmt.Fprintf(&sb, "\n%s %s\n", m.styles.header.Render("Logs"),
		m.styles.label.Render("level "+models.LogLevels[m.logLevel]))
	sb.WriteString(m.logsView(d))

	return m.styles.panel.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m *model) logsView(d *dashboard.ServiceDetail) string {
	if len(d.Logs) == 0 {
		return m.styles.label.Render("No logs")
	}

	logs := d.Logs
	if len(logs) > maxLogLines {
		logs = logs[:maxLogLines]
	}

	var sb strings.Builder

	for _, entry := range logs {
		level := m.styles.label
		switch entry.Level {
		case models.LogLevelError:
			level = m.styles.crit
		case models.LogLevelWarn:
			level = m.styles.warn
		}

		fmt.Fprintf(&sb, "%s %s %s\n", entry.Timestamp.Format("15:04:05"), level.Render(fmt.Sprintf("%-5s", entry.Level)), entry.Message)
	}

	return sb.String()
}

func formatGauge(v *float64, format string) string {
	if v == nil {
		return noData
	}

	return fmt.Sprintf(format, *v)
}

func formatRate(v *float64) string {
	if v == nil {
		return noData
	}

	return formatPercent(*v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	if n <= 1 {
		return string(r[:n])
	}

	return string(r[:n-1]) + "…"
}
