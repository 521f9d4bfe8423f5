package zapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"zaprelay/internal/errors"
	"zaprelay/pkg/zapi/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method      string
	path        string
	clientToken string
	contentType string
	body        map[string]interface{}
}

func newTestClient(t *testing.T, status int, response string) (*ZAPIClient, *recordedRequest) {
	recorded := &recordedRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded.method = r.Method
		recorded.path = r.URL.Path
		recorded.clientToken = r.Header.Get("Client-Token")
		recorded.contentType = r.Header.Get("Content-Type")

		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &recorded.body)
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	client := NewClient(types.ClientConfig{
		BaseURL:     server.URL,
		InstanceID:  "inst-1",
		Token:       "tok-1",
		ClientToken: "acct-1",
		Timeout:     5 * time.Second,
	})
	return client, recorded
}

func TestSendTextRequestShape(t *testing.T) {
	client, recorded := newTestClient(t, 200, `{"zaapId":"z1","messageId":"m1"}`)

	resp, err := client.SendText(context.Background(), "5511999999999", "hello")
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, recorded.method)
	assert.Equal(t, "/instances/inst-1/token/tok-1/send-text", recorded.path)
	assert.Equal(t, "acct-1", recorded.clientToken)
	assert.Equal(t, "application/json", recorded.contentType)
	assert.Equal(t, "5511999999999", recorded.body["phone"])
	assert.Equal(t, "hello", recorded.body["message"])

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "z1", resp.Body["zaapId"])
}

func TestSendDocumentRequestShape(t *testing.T) {
	client, recorded := newTestClient(t, 200, `{}`)

	_, err := client.SendDocument(context.Background(), "111", "http://cdn/r.pdf", "r.pdf", "report")
	require.NoError(t, err)

	assert.Equal(t, "/instances/inst-1/token/tok-1/send-document", recorded.path)
	assert.Equal(t, "http://cdn/r.pdf", recorded.body["document"])
	assert.Equal(t, "r.pdf", recorded.body["fileName"])
	assert.Equal(t, "report", recorded.body["caption"])
}

func TestSendButtonListRequestShape(t *testing.T) {
	client, recorded := newTestClient(t, 200, `{}`)

	_, err := client.SendButtonList(context.Background(), "111", "Pick one", []string{"Yes", "No"})
	require.NoError(t, err)

	assert.Equal(t, "/instances/inst-1/token/tok-1/send-button-list", recorded.path)
	assert.Equal(t, "Pick one", recorded.body["message"])

	buttonList, ok := recorded.body["buttonList"].(map[string]interface{})
	require.True(t, ok)
	buttons, ok := buttonList["buttons"].([]interface{})
	require.True(t, ok)
	require.Len(t, buttons, 2)
	assert.Equal(t, map[string]interface{}{"label": "Yes"}, buttons[0])
}

func TestSendOptionListRequestShape(t *testing.T) {
	client, recorded := newTestClient(t, 200, `{}`)

	_, err := client.SendOptionList(context.Background(), "111", "Menu", "Choose", []types.OptionItem{
		{ID: "1", Title: "First", Description: "one"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/instances/inst-1/token/tok-1/send-option-list", recorded.path)

	optionList, ok := recorded.body["optionList"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Menu", optionList["title"])
	options, ok := optionList["options"].([]interface{})
	require.True(t, ok)
	require.Len(t, options, 1)
}

func TestSessionEndpoints(t *testing.T) {
	tests := []struct {
		name string
		call func(c *ZAPIClient) error
		path string
	}{
		{"status", func(c *ZAPIClient) error { _, err := c.GetStatus(context.Background()); return err }, "/instances/inst-1/token/tok-1/status"},
		{"qr code", func(c *ZAPIClient) error { _, err := c.GetQRCode(context.Background()); return err }, "/instances/inst-1/token/tok-1/qr-code/image"},
		{"restart", func(c *ZAPIClient) error { _, err := c.Restart(context.Background()); return err }, "/instances/inst-1/token/tok-1/restart"},
		{"disconnect", func(c *ZAPIClient) error { _, err := c.Disconnect(context.Background()); return err }, "/instances/inst-1/token/tok-1/disconnect"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, recorded := newTestClient(t, 200, `{"connected":true}`)
			require.NoError(t, tt.call(client))
			assert.Equal(t, http.MethodGet, recorded.method)
			assert.Equal(t, tt.path, recorded.path)
		})
	}
}

func TestUpstreamFailureMirrorsStatus(t *testing.T) {
	client, _ := newTestClient(t, 400, `{"error":"invalid phone"}`)

	_, err := client.SendText(context.Background(), "bad", "x")
	require.Error(t, err)

	assert.Equal(t, errors.ErrCodeUpstreamAPI, errors.GetCode(err))
	assert.Equal(t, 400, errors.HTTPStatusCode(err))
	assert.Contains(t, err.Error(), "invalid phone")
}

func TestNonJSONBodyIsTolerated(t *testing.T) {
	client, _ := newTestClient(t, 200, "OK")

	resp, err := client.SendText(context.Background(), "111", "x")
	require.NoError(t, err)
	assert.Nil(t, resp.Body)
	assert.Equal(t, []byte("OK"), resp.Raw)
}

func TestEmptyBodyIsTolerated(t *testing.T) {
	client, _ := newTestClient(t, 200, "")

	resp, err := client.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp.Body)
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(types.ClientConfig{
		BaseURL:    server.URL,
		InstanceID: "inst-1",
		Token:      "tok-1",
		Timeout:    time.Second,
	})

	_, err := client.GetStatus(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeUpstreamAPI, errors.GetCode(err))
	assert.True(t, errors.IsRetryable(err))
}

func TestBaseURLTrailingSlash(t *testing.T) {
	client := NewClient(types.ClientConfig{
		BaseURL:    "https://api.z-api.io/",
		InstanceID: "i",
		Token:      "t",
	})

	assert.Equal(t, "https://api.z-api.io/instances/i/token/t/send-text", client.endpointURL(endpointSendText))
}
