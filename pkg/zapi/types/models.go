package types

import (
	"time"
)

// ClientConfig holds the settings for the Z-API HTTP client.
type ClientConfig struct {
	BaseURL     string
	InstanceID  string
	Token       string
	ClientToken string
	Timeout     time.Duration
}

// OptionItem is one entry of an interactive option list.
type OptionItem struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// GatewayResponse carries whatever the upstream answered. Body is nil when
// the response was empty or not JSON; Raw always holds the bytes received.
type GatewayResponse struct {
	StatusCode int                    `json:"statusCode"`
	Body       map[string]interface{} `json:"body,omitempty"`
	Raw        []byte                 `json:"-"`
}

// Request payloads, one per send capability.

type SendTextPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type SendDocumentPayload struct {
	Phone    string `json:"phone"`
	Document string `json:"document"`
	FileName string `json:"fileName,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

type SendImagePayload struct {
	Phone   string `json:"phone"`
	Image   string `json:"image"`
	Caption string `json:"caption,omitempty"`
}

type ButtonLabel struct {
	Label string `json:"label"`
}

type SendButtonListPayload struct {
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	ButtonList struct {
		Buttons []ButtonLabel `json:"buttons"`
	} `json:"buttonList"`
}

type SendOptionListPayload struct {
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	OptionList struct {
		Title   string       `json:"title,omitempty"`
		Options []OptionItem `json:"options"`
	} `json:"optionList"`
}
