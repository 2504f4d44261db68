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

package stream

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/carverauto/signalsentry/pkg/models"
)

// Decode parses one stream payload. Unknown types decode successfully and are
// left for the caller to ignore.
func Decode(data []byte) (models.StreamEvent, error) {
	var evt models.StreamEvent

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return evt, fmt.Errorf("%w: not a JSON object", ErrDecode)
	}

	if err := json.Unmarshal(trimmed, &evt); err != nil {
		return models.StreamEvent{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return evt, nil
}
