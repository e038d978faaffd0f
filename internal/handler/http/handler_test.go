// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-note-vault/internal/app"
	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/crypto"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/mock"
	"github.com/MKhiriev/go-note-vault/internal/service"
	"github.com/MKhiriev/go-note-vault/internal/store"
	"github.com/MKhiriev/go-note-vault/models"
)

type testAPI struct {
	router *chi.Mux
	raw    store.BatchStorage
	svc    service.PersistenceService
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage = config.Storage{Driver: config.DriverMemory}
	cfg.Vault.KDFIterations = 1000

	raw := store.NewMemoryStorage()
	services, err := service.NewServices(store.NewAdapter(raw, nil), cfg, nil)
	require.NoError(t, err)

	h := NewHandler(services, models.NewAppBuildInfo("v1.2.3", "2026-01-01", "abc123"), logger.Nop())
	return testAPI{router: h.Init(), raw: raw, svc: services.PersistenceService}
}

func (a testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

const listDoc = `{"title":"groceries","items":["milk","eggs"],"createdAt":{"__dateType":"Date","value":"2024-01-02T03:04:05.678Z"}}`

func TestItems_SaveLoadRoundTrip(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/api/items/lists", listDoc)
	require.Equal(t, http.StatusNoContent, rec.Code)

	stored, ok, err := api.raw.GetItem(context.Background(), "lists")
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, stored, "groceries")

	rec = api.do(t, http.MethodGet, "/api/items/lists", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, listDoc, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/items/lists/format", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"key":"lists","format":"encrypted"}`, rec.Body.String())
}

func TestItems_EscapedKey(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/api/items/notes%2F2024", `"hello"`)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var v string
	found, err := api.svc.Load(context.Background(), "notes/2024", &v)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "hello", v)
}

func TestItems_Errors(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"load missing", http.MethodGet, "/api/items/missing", "", http.StatusNotFound, app.CodeNotFound},
		{"inspect missing", http.MethodGet, "/api/items/missing/format", "", http.StatusNotFound, app.CodeNotFound},
		{"invalid json", http.MethodPut, "/api/items/lists", `{"a":`, http.StatusBadRequest, app.CodeInvalidData},
		{"empty body", http.MethodPut, "/api/items/lists", "", http.StatusBadRequest, app.CodeInvalidData},
		{"reserved key", http.MethodPut, "/api/items/notevault:salt", `1`, http.StatusBadRequest, app.CodeReservedLogicalKey},
		{"reserved key read", http.MethodGet, "/api/items/notevault:kdf", "", http.StatusBadRequest, app.CodeReservedLogicalKey},
		{"clear without confirm", http.MethodDelete, "/api/items", "", http.StatusBadRequest, app.CodeConfirmationRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestItems_RemoveAndClear(t *testing.T) {
	api := newTestAPI(t)

	require.Equal(t, http.StatusNoContent, api.do(t, http.MethodPut, "/api/items/a", `1`).Code)
	require.Equal(t, http.StatusNoContent, api.do(t, http.MethodPut, "/api/items/b", `2`).Code)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/items/a", "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/items/a", "").Code)
	// removing again is not an error
	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/items/a", "").Code)

	assert.Equal(t, http.StatusNoContent, api.do(t, http.MethodDelete, "/api/items?confirm=true", "").Code)
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/items/b", "").Code)

	for _, k := range []string{"b", "notevault:salt", "notevault:material", "notevault:kdf"} {
		_, ok, err := api.raw.GetItem(context.Background(), k)
		require.NoError(t, err)
		assert.False(t, ok, k)
	}

	rec := api.do(t, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"NO_KEY"}`, rec.Body.String())
}

func TestItems_MigratesPlaintext(t *testing.T) {
	api := newTestAPI(t)
	require.NoError(t, api.raw.SetItem(context.Background(), "legacy", `{"a":1}`))

	rec := api.do(t, http.MethodGet, "/api/items/legacy/format", "")
	assert.JSONEq(t, `{"key":"legacy","format":"plaintext"}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/items/legacy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"a":1}`, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/items/legacy/format", "")
	assert.JSONEq(t, `{"key":"legacy","format":"encrypted"}`, rec.Body.String())
}

func TestItems_StorageFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	raw := mock.NewMockStorage(ctrl)
	keys := mock.NewMockKeyManager(ctrl)
	key, err := crypto.NewAESGCMKey(make([]byte, crypto.KeySize), true)
	require.NoError(t, err)

	keys.EXPECT().Artifacts().Return(nil).AnyTimes()
	keys.EXPECT().GetOrCreateKey(gomock.Any()).Return(key, nil).AnyTimes()
	raw.EXPECT().SetItem(gomock.Any(), "full", gomock.Any()).Return(store.ErrQuotaExceeded)
	raw.EXPECT().GetItem(gomock.Any(), "locked").Return("", false, store.ErrAccessDenied)
	raw.EXPECT().RemoveItem(gomock.Any(), "broken").Return(assert.AnError)

	svc := service.NewPersistenceService(store.NewAdapter(raw, nil), keys, crypto.NewCipherService(), nil)
	h := NewHandler(&service.Services{PersistenceService: svc}, models.NewAppBuildInfo("", "", ""), logger.Nop())
	api := testAPI{router: h.Init()}

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"quota", http.MethodPut, "/api/items/full", `1`, http.StatusInsufficientStorage, app.CodeStorageFull},
		{"access denied", http.MethodGet, "/api/items/locked", "", http.StatusForbidden, app.CodeAccessDenied},
		{"delete failed", http.MethodDelete, "/api/items/broken", "", http.StatusServiceUnavailable, app.CodeStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)
		})
	}
}

func TestVersion(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"version":"v1.2.3","date":"2026-01-01","commit":"abc123"}`, rec.Body.String())
}

func TestInit_WrongMethodIsNotFound(t *testing.T) {
	api := newTestAPI(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/state"},
		{http.MethodPut, "/api/version"},
		{http.MethodPost, "/api/items/lists"},
		{http.MethodPatch, "/api/items"},
		{http.MethodGet, "/api/nonexistent"},
	} {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := api.do(t, tc.method, tc.path, "")
			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestInit_TraceIDAndGzip(t *testing.T) {
	api := newTestAPI(t)
	require.Equal(t, http.StatusNoContent, api.do(t, http.MethodPut, "/api/items/lists", listDoc).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/items/lists", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set(traceIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "trace-42", rec.Header().Get(traceIDHeader))
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	zr, err := gzip.NewReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.JSONEq(t, listDoc, string(body))
}

func TestInit_GzipRequestBody(t *testing.T) {
	api := newTestAPI(t)

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(listDoc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/items/lists", &buf)
	req.Header.Set("Content-Encoding", "gzip")
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/items/lists", "")
	assert.JSONEq(t, listDoc, rec.Body.String())
}
