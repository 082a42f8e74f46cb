// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package jschema

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Remote(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/schemas/main.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{
  "type": "object",
  "properties": {"origin": {"$ref": "points.json#/$defs/Point"}}
}`))
	})
	mux.HandleFunc("/schemas/points.json", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"$defs": {"Point": {"type": "object", "properties": {"x": {"type": "number"}}}}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	graph, err := NewLoader(nil).Load(context.Background(), srv.URL+"/schemas/main.json")
	require.NoError(t, err)

	root := graph.Roots[0]
	assert.Equal(t, "main", root.Name)
	assert.Equal(t, "Point", root.Fields["origin"].Name)
	assert.Equal(t, []string{srv.URL + "/schemas/main.json", srv.URL + "/schemas/points.json"}, graph.Sources)
}

func TestLoad_RemoteNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.NotFound(w, nil)
	}))
	defer srv.Close()

	_, err := NewLoader(nil, WithRetries(2, 0)).Load(context.Background(), srv.URL+"/missing.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaNotFound)
	assert.Equal(t, int32(1), calls.Load(), "4xx responses are not retried")
}

func TestLoad_RemoteRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"type": "string"}`))
	}))
	defer srv.Close()

	graph, err := NewLoader(nil, WithRetries(2, time.Millisecond)).Load(context.Background(), srv.URL+"/s.json")
	require.NoError(t, err)
	assert.Equal(t, KindPrimitive, graph.Roots[0].Kind)
	assert.Equal(t, int32(3), calls.Load())
}

func TestLoad_RemoteGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewLoader(nil, WithRetries(1, 0)).Load(context.Background(), srv.URL+"/s.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaNotFound)
	assert.Equal(t, int32(2), calls.Load())
}

func TestLoad_RemoteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	loader := NewLoader(nil, WithTimeout(50*time.Millisecond), WithRetries(1, 0))
	_, err := loader.Load(context.Background(), srv.URL+"/slow.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaFetchTimeout)
}

func TestLoad_NoFilesystem(t *testing.T) {
	_, err := NewLoader(nil).Load(context.Background(), "local.json")
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}
