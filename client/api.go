//go:generate go run go.uber.org/mock/mockgen -source=api.go -destination=../mocks/mock_chat_api.go -package=mocks
package client

import (
	"bytes"
	"chat-client/domain"
	"chat-client/errors"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// IChatAPI is the HTTP side of the chat server.
type IChatAPI interface {
	Channels(ctx context.Context) ([]string, error)
	Login(ctx context.Context, username, password string) (AuthResponse, error)
	Register(ctx context.Context, username, email, password string) (AuthResponse, error)
	Verify(ctx context.Context, token string) (domain.User, error)
}

type API struct {
	log     *slog.Logger
	baseURL string
	client  *http.Client
}

func NewAPI(log *slog.Logger, baseURL string, timeout time.Duration) *API {
	return &API{
		log:     log,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *API) Channels(ctx context.Context) ([]string, error) {
	var channels []string
	if err := a.do(ctx, http.MethodGet, "/api/channels", nil, &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

func (a *API) Login(ctx context.Context, username, password string) (AuthResponse, error) {
	body := map[string]string{"username": username, "password": password}
	var resp AuthResponse
	if err := a.do(ctx, http.MethodPost, "/api/auth/login", body, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

func (a *API) Register(ctx context.Context, username, email, password string) (AuthResponse, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var resp AuthResponse
	if err := a.do(ctx, http.MethodPost, "/api/auth/register", body, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// Verify asks the server whether token is still valid and who it belongs to.
func (a *API) Verify(ctx context.Context, token string) (domain.User, error) {
	var user domain.User
	path := "/api/auth/verify?token=" + url.QueryEscape(token)
	if err := a.do(ctx, http.MethodPost, path, nil, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// do sends body as JSON and decodes a 2xx answer into out.
// Any other status becomes ErrInvalidCredentials on 401, ErrRequestRejected otherwise,
// carrying the server's {"error"} text when there is one.
func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := resp.Status
		var rejected errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&rejected); err == nil && rejected.Error != "" {
			reason = rejected.Error
		}
		a.log.Debug("Request rejected", "path", strings.SplitN(path, "?", 2)[0], "status", resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %s", errors.ErrInvalidCredentials, reason)
		}
		return fmt.Errorf("%w: %s", errors.ErrRequestRejected, reason)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
