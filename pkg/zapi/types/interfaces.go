package types

import (
	"context"
)

// Client is the outbound contract against the Z-API gateway. One method per
// upstream capability, one HTTP attempt per call; callers decide whether to
// surface a failure.
type Client interface {
	SendText(ctx context.Context, phone, message string) (*GatewayResponse, error)
	SendDocument(ctx context.Context, phone, url, fileName, caption string) (*GatewayResponse, error)
	SendImage(ctx context.Context, phone, url, caption string) (*GatewayResponse, error)
	SendButtonList(ctx context.Context, phone, message string, buttons []string) (*GatewayResponse, error)
	SendOptionList(ctx context.Context, phone, title, message string, options []OptionItem) (*GatewayResponse, error)
	GetStatus(ctx context.Context) (*GatewayResponse, error)
	GetQRCode(ctx context.Context) (*GatewayResponse, error)
	Restart(ctx context.Context) (*GatewayResponse, error)
	Disconnect(ctx context.Context) (*GatewayResponse, error)
}
