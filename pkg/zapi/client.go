package zapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"zaprelay/internal/errors"
	"zaprelay/pkg/zapi/types"
)

// Upstream endpoint paths, relative to the instance/token prefix.
const (
	endpointSendText       = "send-text"
	endpointSendDocument   = "send-document"
	endpointSendImage      = "send-image"
	endpointSendButtonList = "send-button-list"
	endpointSendOptionList = "send-option-list"
	endpointStatus         = "status"
	endpointQRCode         = "qr-code/image"
	endpointRestart        = "restart"
	endpointDisconnect     = "disconnect"
)

// ZAPIClient talks to one Z-API instance. Stateless; every method is a single
// request/response round trip.
type ZAPIClient struct {
	config types.ClientConfig
	client *http.Client
}

func NewClient(config types.ClientConfig) *ZAPIClient {
	return &ZAPIClient{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (c *ZAPIClient) endpointURL(endpoint string) string {
	return fmt.Sprintf("%s/instances/%s/token/%s/%s",
		strings.TrimRight(c.config.BaseURL, "/"),
		c.config.InstanceID,
		c.config.Token,
		endpoint,
	)
}

func (c *ZAPIClient) do(ctx context.Context, method, endpoint string, payload interface{}) (*types.GatewayResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpointURL(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.ClientToken != "" {
		req.Header.Set("Client-Token", c.config.ClientToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.NewUnreachableError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewUnreachableError(err)
	}

	// The upstream sometimes answers with an empty or non-JSON body; that
	// alone never fails the call.
	var parsed map[string]interface{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.NewUpstreamError(resp.StatusCode, parsed,
			fmt.Errorf("gateway returned status %d", resp.StatusCode))
	}

	return &types.GatewayResponse{
		StatusCode: resp.StatusCode,
		Body:       parsed,
		Raw:        raw,
	}, nil
}

func (c *ZAPIClient) SendText(ctx context.Context, phone, message string) (*types.GatewayResponse, error) {
	return c.do(ctx, http.MethodPost, endpointSendText, types.SendTextPayload{
		Phone:   phone,
		Message: message,
	})
}

func (c *ZAPIClient) SendDocument(ctx context.Context, phone, url, fileName, caption string) (*types.GatewayResponse, error) {
	return c.do(ctx, http.MethodPost, endpointSendDocument, types.SendDocumentPayload{
		Phone:    phone,
		Document: url,
		FileName: fileName,
		Caption:  caption,
	})
}

func (c *ZAPIClient) SendImage(ctx context.Context, phone, url, caption string) (*types.GatewayResponse, error) {
	return c.do(ctx, http.MethodPost, endpointSendImage, types.SendImagePayload{
		Phone:   phone,
		Image:   url,
		Caption: caption,
	})
}

func (c *ZAPIClient) SendButtonList(ctx context.Context, phone, message string, buttons []string) (*types.GatewayResponse, error) {
	payload := types.SendButtonListPayload{
		Phone:   phone,
		Message: message,
	}
	payload.ButtonList.Buttons = make([]types.ButtonLabel, 0, len(buttons))
	for _, label := range buttons {
		payload.ButtonList.Buttons = append(payload.ButtonList.Buttons, types.ButtonLabel{Label: label})
	}
	return c.do(ctx, http.MethodPost, endpointSendButtonList, payload)
}

func (c *ZAPIClient) SendOptionList(ctx context.Context, phone, title, message string, options []types.OptionItem) (*types.GatewayResponse, error) {
	payload := types.SendOptionListPayload{
		Phone:   phone,
		Message: message,
	}
	payload.OptionList.Title = title
	payload.OptionList.Options = options
	return c.do(ctx, http.MethodPost, endpointSendOptionList, payload)
}

func (c *ZAPIClient) GetStatus(ctx context.Context) (*types.GatewayResponse, error) {
	return c.do(ctx, http.MethodGet, endpointStatus, nil)
}

func (c *ZAPIClient) GetQRCode(ctx context.Context) (*types.GatewayResponse, error) {
	return c.do(ctx, http.MethodGet, endpointQRCode, nil)
}

func (c *ZAPIClient) Restart(ctx context.Context) (*types.GatewayResponse, error) {
	return c.do(ctx, http.MethodGet, endpointRestart, nil)
}

func (c *ZAPIClient) Disconnect(ctx context.Context) (*types.GatewayResponse, error) {
	return c.do(ctx, http.MethodGet, endpointDisconnect, nil)
}
