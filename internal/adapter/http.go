package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-note-vault/internal/app"
	"github.com/MKhiriev/go-note-vault/internal/codec"
	"github.com/MKhiriev/go-note-vault/internal/config"
	"github.com/MKhiriev/go-note-vault/internal/logger"
	"github.com/MKhiriev/go-note-vault/internal/service"
	"github.com/MKhiriev/go-note-vault/internal/utils"
	"github.com/MKhiriev/go-note-vault/models"
)

type httpVaultAdapter struct {
	client *utils.HTTPClient

	logger *logger.Logger
}

// NewHTTPVaultAdapter constructs the HTTP implementation of [VaultAdapter].
// cfg.Address may omit the scheme, "http://" is assumed.
func NewHTTPVaultAdapter(cfg config.Remote, logger *logger.Logger) (VaultAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid remote address: %w", config.ErrInvalidRemoteConfigs, err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout)

	return &httpVaultAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpVaultAdapter) Save(ctx context.Context, logicalKey string, value any) error {
	if logicalKey == "" {
		return service.ErrEmptyLogicalKey
	}
	body, err := codec.Marshal(value)
	if err != nil {
		return err
	}

	resp, err := h.itemRequest(ctx, logicalKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Put("/api/items/{key}")
	if err != nil {
		return transportError("save", err)
	}
	return mapHTTPError(resp)
}

func (h *httpVaultAdapter) Load(ctx context.Context, logicalKey string, target any) (bool, error) {
	if logicalKey == "" {
		return false, service.ErrEmptyLogicalKey
	}

	resp, err := h.itemRequest(ctx, logicalKey).Get("/api/items/{key}")
	if err != nil {
		return false, transportError("load", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if resp.StatusCode() == http.StatusNotFound {
			return false, nil
		}
		return false, err
	}

	doc, err := codec.Parse(resp.String())
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	if err = codec.Assign(doc, target); err != nil {
		return false, err
	}
	return true, nil
}

func (h *httpVaultAdapter) Remove(ctx context.Context, logicalKey string) error {
	if logicalKey == "" {
		return service.ErrEmptyLogicalKey
	}

	resp, err := h.itemRequest(ctx, logicalKey).Delete("/api/items/{key}")
	if err != nil {
		return transportError("remove", err)
	}
	return mapHTTPError(resp)
}

func (h *httpVaultAdapter) Inspect(ctx context.Context, logicalKey string) (models.StoredFormat, bool, error) {
	if logicalKey == "" {
		return models.Plaintext, false, service.ErrEmptyLogicalKey
	}

	var out models.FormatResponse
	resp, err := h.itemRequest(ctx, logicalKey).SetResult(&out).Get("/api/items/{key}/format")
	if err != nil {
		return models.Plaintext, false, transportError("inspect", err)
	}
	if err = mapHTTPError(resp); err != nil {
		if resp.StatusCode() == http.StatusNotFound {
			return models.Plaintext, false, nil
		}
		return models.Plaintext, false, err
	}

	format, ok := models.ParseStoredFormat(out.Format)
	if !ok {
		return models.Plaintext, false, fmt.Errorf("%w: format %q", ErrUnexpectedResponse, out.Format)
	}
	return format, true, nil
}

func (h *httpVaultAdapter) ClearAll(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("confirm", "true").
		Delete("/api/items")
	if err != nil {
		return transportError("clear", err)
	}
	return mapHTTPError(resp)
}

// State asks the server for its engine state. It has no error return, so a
// failed request is logged and reported as [models.StateNoKey].
func (h *httpVaultAdapter) State() models.EngineState {
	var out models.StateResponse
	resp, err := h.client.R().SetResult(&out).Get("/api/state")
	if err == nil {
		err = mapHTTPError(resp)
	}
	if err != nil {
		h.logger.Err(err).Str("func", "httpVaultAdapter.State").Msg("failed to fetch engine state")
		return models.StateNoKey
	}
	return models.ParseEngineState(out.State)
}

func (h *httpVaultAdapter) Version(ctx context.Context) (models.VersionResponse, error) {
	var out models.VersionResponse
	resp, err := h.client.R().SetContext(ctx).SetResult(&out).Get("/api/version")
	if err != nil {
		return out, transportError("version", err)
	}
	return out, mapHTTPError(resp)
}

// itemRequest prepares a request for an /api/items/{key} route. resty
// escapes the key, so keys with slashes stay a single path segment.
func (h *httpVaultAdapter) itemRequest(ctx context.Context, logicalKey string) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetPathParam("key", logicalKey)
}

func transportError(op string, err error) error {
	return fmt.Errorf("%w: %s request: %w", app.ErrStorageUnavailable, op, err)
}

// mapHTTPError turns a non-2xx response into the error the local engine
// would have returned.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.Code != "" {
		return app.ErrorFromCode(body.Code, body.Error)
	}

	text := strings.TrimSpace(string(resp.Body()))
	if text == "" {
		text = http.StatusText(resp.StatusCode())
	}
	if resp.StatusCode() == http.StatusNotFound {
		return fmt.Errorf("%w: http %d: %s", app.ErrNotFound, resp.StatusCode(), text)
	}
	return fmt.Errorf("%w: http %d: %s", app.ErrInternal, resp.StatusCode(), text)
}
