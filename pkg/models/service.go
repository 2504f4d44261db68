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

package models

// Metric names the backend reports for every service.
const (
	MetricLatencyP95 = "latency_p95_ms"
	MetricErrorRate  = "error_rate"
	MetricCPU        = "cpu_pct"
	MetricMemoryRSS  = "memory_rss_mb"
)

// ServiceMetrics lists the metrics shown on a service detail view, in display order.
var ServiceMetrics = []string{MetricLatencyP95, MetricErrorRate, MetricCPU, MetricMemoryRSS}

// ServiceSummary holds the latest gauges and a short history for one service.
// A nil gauge means the backend has no data for it.
type ServiceSummary struct {
	Service      string                      `json:"service"`
	LatencyP95Ms *float64                    `json:"latency_p95_ms,omitempty"`
	ErrorRate    *float64                    `json:"error_rate,omitempty"`
	CPUPct       *float64                    `json:"cpu_pct,omitempty"`
	MemoryRSSMb  *float64                    `json:"memory_rss_mb,omitempty"`
	Sparklines   map[string][]SparklinePoint `json:"sparklines"`
}

// Clone returns a copy that shares no mutable state with s.
func (s *ServiceSummary) Clone() ServiceSummary {
	out := ServiceSummary{
		Service:      s.Service,
		LatencyP95Ms: cloneFloat(s.LatencyP95Ms),
		ErrorRate:    cloneFloat(s.ErrorRate),
		CPUPct:       cloneFloat(s.CPUPct),
		MemoryRSSMb:  cloneFloat(s.MemoryRSSMb),
	}

	if s.Sparklines != nil {
		out.Sparklines = make(map[string][]SparklinePoint, len(s.Sparklines))
		for metric, points := range s.Sparklines {
			out.Sparklines[metric] = append([]SparklinePoint(nil), points...)
		}
	}

	return out
}

// Gauge returns the current value of the named metric.
func (s *ServiceSummary) Gauge(metric string) (float64, bool) {
	var v *float64

	switch metric {
	case MetricLatencyP95:
		v = s.LatencyP95Ms
	case MetricErrorRate:
		v = s.ErrorRate
	case MetricCPU:
		v = s.CPUPct
	case MetricMemoryRSS:
		v = s.MemoryRSSMb
	}

	if v == nil {
		return 0, false
	}

	return *v, true
}

// ServiceSummaryList is the envelope for GET /services/summary.
type ServiceSummaryList struct {
	Services []ServiceSummary `json:"services"`
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}

	c := *v

	return &c
}
