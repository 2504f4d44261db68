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

import "context"

// Source is one persistent event subscription.
//
// Stream blocks until the connection ends or ctx is cancelled. It calls opened
// once the subscription is established and handle for every payload, one at a
// time in arrival order. A clean end of stream returns nil; cancellation returns ctx.Err().
type Source interface {
	Stream(ctx context.Context, opened func(), handle func(data []byte)) error
}
