// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package graphql

import (
	"encoding/base64"
	"strconv"
)

// Relay cursors opaquely encode an offset into a collection as it was
// ordered at the time the cursor was issued. Per §6, a cursor is just the
// base64 of the decimal string of a zero-based item index - no envelope,
// so encodeCursor(0) is exactly base64("0").
func encodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

func decodeCursor(cursor string) (offset int, err error) {
	raw, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, newInvalidCursorError("decode cursor: %w", err)
	}
	offset, convErr := strconv.Atoi(string(raw))
	if convErr != nil || offset < 0 {
		return 0, newInvalidCursorError("decode cursor: unrecognized cursor %q", cursor)
	}
	return offset, nil
}
