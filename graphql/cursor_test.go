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
	"testing"
)

func TestEncodeCursor(t *testing.T) {
	tests := []struct {
		offset int
		want   string
	}{
		{0, "MA=="},
		{1, "MQ=="},
		{9, "OQ=="},
		{123, "MTIz"},
	}
	for _, test := range tests {
		if got := encodeCursor(test.offset); got != test.want {
			t.Errorf("encodeCursor(%d) = %q; want %q", test.offset, got, test.want)
		}
	}
}

func TestDecodeCursor(t *testing.T) {
	tests := []struct {
		name    string
		cursor  string
		want    int
		wantErr bool
	}{
		{name: "Zero", cursor: "MA==", want: 0},
		{name: "Positive", cursor: "MTIz", want: 123},
		{name: "NotBase64", cursor: "not valid base64!!", wantErr: true},
		{name: "NotDecimal", cursor: base64.StdEncoding.EncodeToString([]byte("xyz")), wantErr: true},
		{name: "Negative", cursor: base64.StdEncoding.EncodeToString([]byte("-1")), wantErr: true},
		{name: "Empty", cursor: "", wantErr: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := decodeCursor(test.cursor)
			if err != nil {
				if !test.wantErr {
					t.Fatalf("decodeCursor(%q) = _, %v; want no error", test.cursor, err)
				}
				return
			}
			if test.wantErr {
				t.Fatalf("decodeCursor(%q) = %d, <nil>; want error", test.cursor, got)
			}
			if got != test.want {
				t.Errorf("decodeCursor(%q) = %d; want %d", test.cursor, got, test.want)
			}
		})
	}
}

func TestCursorRoundTrip(t *testing.T) {
	for offset := 0; offset < 50; offset++ {
		cursor := encodeCursor(offset)
		got, err := decodeCursor(cursor)
		if err != nil {
			t.Fatalf("decodeCursor(encodeCursor(%d)) error: %v", offset, err)
		}
		if got != offset {
			t.Errorf("decodeCursor(encodeCursor(%d)) = %d; want %d", offset, got, offset)
		}
	}
}
