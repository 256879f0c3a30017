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
	"context"
	"reflect"
	"testing"
)

type connectionTestActor struct {
	ID int
}

type connectionTestQuery struct {
	Actors []*connectionTestActor
}

func newConnectionTestServer(t *testing.T, n int) *Server {
	t.Helper()
	schema := NewSchema()
	queryType := ReflectObjectType(reflect.TypeOf(connectionTestQuery{}), "Query")
	if err := schema.AddType(queryType); err != nil {
		t.Fatal(err)
	}
	if err := schema.SetQuery(queryType); err != nil {
		t.Fatal(err)
	}

	actorsField, ok := schema.GetField("Query", "actors")
	if !ok {
		t.Fatal("actors field not reflected onto Query")
	}
	actorsField.extensions = append(actorsField.extensions, Connection())
	if err := schema.ReplaceField("Query", "actors", *actorsField); err != nil {
		t.Fatal(err)
	}

	root := &connectionTestQuery{Actors: make([]*connectionTestActor, n)}
	for i := range root.Actors {
		root.Actors[i] = &connectionTestActor{ID: i + 1}
	}
	srv, err := NewServer(schema, root, nil)
	if err != nil {
		t.Fatal(err)
	}
	return srv
}

// TestConnectionExtensionPaging exercises the literal scenario 5 numbers:
// first:2 over 5 actors yields totalCount 5, exactly 2 edges, a first cursor
// of base64("0"), and hasNextPage true.
func TestConnectionExtensionPaging(t *testing.T) {
	srv := newConnectionTestServer(t, 5)
	resp := srv.Execute(context.Background(), Request{
		Query: `{
			actors(first: 2) {
				totalCount
				edges {
					cursor
					node { id }
				}
				pageInfo {
					hasNextPage
				}
			}
		}`,
	})
	if len(resp.Errors) > 0 {
		t.Fatal(resp.Errors)
	}

	actors := resp.Data.ValueFor("actors")
	if got := actors.ValueFor("totalCount").Scalar(); got != "5" {
		t.Errorf("totalCount = %q; want 5", got)
	}
	edges := actors.ValueFor("edges")
	if got := edges.Len(); got != 2 {
		t.Fatalf("len(edges) = %d; want 2", got)
	}
	if got, want := edges.At(0).ValueFor("cursor").Scalar(), encodeCursor(0); got != want {
		t.Errorf("edges[0].cursor = %q; want %q", got, want)
	}
	if got, want := edges.At(1).ValueFor("cursor").Scalar(), encodeCursor(1); got != want {
		t.Errorf("edges[1].cursor = %q; want %q", got, want)
	}
	if got := edges.At(0).ValueFor("node").ValueFor("id").Scalar(); got != "1" {
		t.Errorf("edges[0].node.id = %q; want 1", got)
	}
	if got := actors.ValueFor("pageInfo").ValueFor("hasNextPage").Boolean(); !got {
		t.Errorf("pageInfo.hasNextPage = %t; want true", got)
	}
}

// TestConnectionExtensionPagingLastPage checks the boundary the accounting
// law in spec.md's Connection accounting testable property describes:
// edges.length == min(n, max(0, N-a-1)); reaching the end flips
// hasNextPage to false without erroring on a short final page.
func TestConnectionExtensionPagingLastPage(t *testing.T) {
	srv := newConnectionTestServer(t, 5)
	resp := srv.Execute(context.Background(), Request{
		Query: `{
			actors(first: 10, after: "` + encodeCursor(3) + `") {
				totalCount
				edges { node { id } }
				pageInfo { hasNextPage hasPreviousPage }
			}
		}`,
	})
	if len(resp.Errors) > 0 {
		t.Fatal(resp.Errors)
	}
	actors := resp.Data.ValueFor("actors")
	edges := actors.ValueFor("edges")
	if got := edges.Len(); got != 1 {
		t.Fatalf("len(edges) = %d; want 1", got)
	}
	if got := edges.At(0).ValueFor("node").ValueFor("id").Scalar(); got != "5" {
		t.Errorf("edges[0].node.id = %q; want 5", got)
	}
	pageInfo := actors.ValueFor("pageInfo")
	if got := pageInfo.ValueFor("hasNextPage").Boolean(); got {
		t.Errorf("pageInfo.hasNextPage = %t; want false", got)
	}
	if got := pageInfo.ValueFor("hasPreviousPage").Boolean(); !got {
		t.Errorf("pageInfo.hasPreviousPage = %t; want true", got)
	}
}

func TestConnectionExtensionRejectsOversizedPage(t *testing.T) {
	srv := newConnectionTestServer(t, 5)
	resp := srv.Execute(context.Background(), Request{
		Query: `{ actors(first: 1000) { totalCount } }`,
	})
	if len(resp.Errors) == 0 {
		t.Fatal("expected an error for first > maxPageSize, got none")
	}
}
