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

// SparklinePoint is one sample of a bounded, ordered trend series.
type SparklinePoint struct {
	Timestamp Timestamp `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MetricSeries is the response of GET /services/{name}/metrics.
type MetricSeries struct {
	Service string           `json:"service"`
	Metric  string           `json:"metric"`
	Points  []SparklinePoint `json:"points"`
}

// Values returns the point values in order.
func Values(points []SparklinePoint) []float64 {
	out := make([]float64, len(points))
	for i := range points {
		out[i] = points[i].Value
	}

	return out
}
