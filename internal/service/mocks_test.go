package service

import (
	"context"

	"zaprelay/pkg/zapi/types"
)

// mockGateway answers every capability call with fixed values and records the
// order of calls made against it.
type mockGateway struct {
	resp *types.GatewayResponse
	err  error

	calls []string
}

func (m *mockGateway) note(name string) {
	m.calls = append(m.calls, name)
}

func (m *mockGateway) SendText(ctx context.Context, phone, message string) (*types.GatewayResponse, error) {
	m.note("SendText")
	return m.resp, m.err
}

func (m *mockGateway) SendDocument(ctx context.Context, phone, url, fileName, caption string) (*types.GatewayResponse, error) {
	m.note("SendDocument")
	return m.resp, m.err
}

func (m *mockGateway) SendImage(ctx context.Context, phone, url, caption string) (*types.GatewayResponse, error) {
	m.note("SendImage")
	return m.resp, m.err
}

func (m *mockGateway) SendButtonList(ctx context.Context, phone, message string, buttons []string) (*types.GatewayResponse, error) {
	m.note("SendButtonList")
	return m.resp, m.err
}

func (m *mockGateway) SendOptionList(ctx context.Context, phone, title, message string, options []types.OptionItem) (*types.GatewayResponse, error) {
	m.note("SendOptionList")
	return m.resp, m.err
}

func (m *mockGateway) GetStatus(ctx context.Context) (*types.GatewayResponse, error) {
	m.note("GetStatus")
	return m.resp, m.err
}

func (m *mockGateway) GetQRCode(ctx context.Context) (*types.GatewayResponse, error) {
	m.note("GetQRCode")
	return m.resp, m.err
}

func (m *mockGateway) Restart(ctx context.Context) (*types.GatewayResponse, error) {
	m.note("Restart")
	return m.resp, m.err
}

func (m *mockGateway) Disconnect(ctx context.Context) (*types.GatewayResponse, error) {
	m.note("Disconnect")
	return m.resp, m.err
}
