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

package dashboard

import (
	"github.com/carverauto/signalsentry/pkg/models"
	"github.com/carverauto/signalsentry/pkg/reconcile"
)

// KPIs are the headline figures of the overview.
type KPIs struct {
	ActiveIncidents  int
	Services         int
	HighestLatency   *ServiceGauge
	HighestErrorRate *ServiceGauge
}

// ServiceGauge names the service holding an extreme gauge value.
type ServiceGauge struct {
	Service string
	Value   float64
}

// ComputeKPIs derives the headline figures from a state. Services without a
// value for a gauge are skipped; a nil gauge means no service reported data.
func ComputeKPIs(s reconcile.State) KPIs {
	return KPIs{
		ActiveIncidents:  len(s.Active),
		Services:         len(s.Services),
		HighestLatency:   highest(s.Services, models.MetricLatencyP95),
		HighestErrorRate: highest(s.Services, models.MetricErrorRate),
	}
}

func highest(services []models.ServiceSummary, metric string) *ServiceGauge {
	var top *ServiceGauge

	for i := range services {
		v, ok := services[i].Gauge(metric)
		if !ok {
			continue
		}

		if top == nil || v > top.Value {
			top = &ServiceGauge{Service: services[i].Service, Value: v}
		}
	}

	return top
}
