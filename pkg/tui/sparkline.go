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
	"strings"

	"github.com/carverauto/signalsentry/pkg/models"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline renders the most recent width points scaled to their own range.
func sparkline(points []models.SparklinePoint, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	values := models.Values(points)
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var sb strings.Builder

	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}

		sb.WriteRune(sparkBlocks[idx])
	}

	return sb.String()
}
