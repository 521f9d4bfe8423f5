package service

import (
	"context"
	"time"

	"zaprelay/internal/errors"
	"zaprelay/internal/events"
	"zaprelay/internal/metrics"
	"zaprelay/internal/models"
	"zaprelay/internal/store"
	"zaprelay/pkg/zapi/types"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SendResult is what a successful send hands back to the caller: the updated
// conversation, the recorded message and the raw upstream response body.
type SendResult struct {
	Conversation *models.Conversation   `json:"conversation"`
	Message      models.Message         `json:"message"`
	Upstream     map[string]interface{} `json:"upstream,omitempty"`
}

// InboundResult is the outcome of ingesting one webhook delivery.
type InboundResult struct {
	Conversation *models.Conversation `json:"conversation"`
	Message      models.Message       `json:"message"`
}

// Relay wires the conversation store, the gateway client and the event hub
// together. All state mutation for a request happens here, after validation
// and after the upstream call succeeded.
type Relay struct {
	store   store.Store
	gateway types.Client
	hub     *events.Hub
	logger  *logrus.Logger
	now     func() time.Time
}

func NewRelay(st store.Store, gateway types.Client, hub *events.Hub, logger *logrus.Logger) *Relay {
	return &Relay{
		store:   st,
		gateway: gateway,
		hub:     hub,
		logger:  logger,
		now:     time.Now,
	}
}

// record appends an outgoing message, broadcasts it and counts it. Only
// called after the gateway accepted the send.
func (r *Relay) record(msg models.Message, contactNumber, displayName string, upstream *types.GatewayResponse) *SendResult {
	conv := r.store.Append(contactNumber, msg, displayName)

	r.hub.Broadcast(events.EventMessage, map[string]interface{}{
		"conversation": conv,
		"message":      msg,
	})
	metrics.IncrementCounter("messages_total", map[string]string{
		"direction": string(msg.Direction),
		"kind":      string(msg.Kind),
	}, "Messages recorded by direction and kind")

	result := &SendResult{Conversation: conv, Message: msg}
	if upstream != nil {
		result.Upstream = upstream.Body
	}
	return result
}

func (r *Relay) outgoing(kind models.MessageKind, content, agentID, agentName string) models.Message {
	return models.Message{
		ID:        uuid.NewString(),
		Direction: models.DirectionOutgoing,
		Kind:      kind,
		Content:   content,
		CreatedAt: r.now().UTC(),
		AgentID:   agentID,
		AgentName: agentName,
	}
}

func (r *Relay) SendText(ctx context.Context, req models.SendTextRequest) (*SendResult, error) {
	var missing []string
	if req.Numero == "" {
		missing = append(missing, "numero")
	}
	if req.Mensagem == "" {
		missing = append(missing, "mensagem")
	}
	if len(missing) > 0 {
		return nil, errors.NewValidationError(missing...)
	}

	resp, err := r.gateway.SendText(ctx, store.Normalize(req.Numero), req.Mensagem)
	if err != nil {
		return nil, err
	}

	msg := r.outgoing(models.KindText, req.Mensagem, req.AgentID, req.AgentName)
	return r.record(msg, req.Numero, req.DisplayName, resp), nil
}

func (r *Relay) SendFile(ctx context.Context, req models.SendFileRequest) (*SendResult, error) {
	var missing []string
	if req.Numero == "" {
		missing = append(missing, "numero")
	}
	if req.ArquivoURL == "" {
		missing = append(missing, "arquivoUrl")
	}
	if len(missing) > 0 {
		return nil, errors.NewValidationError(missing...)
	}

	resp, err := r.gateway.SendDocument(ctx, store.Normalize(req.Numero), req.ArquivoURL, req.FileName, req.Mensagem)
	if err != nil {
		return nil, err
	}

	msg := r.outgoing(models.KindFile, req.Mensagem, req.AgentID, req.AgentName)
	msg.MediaURL = req.ArquivoURL
	msg.FileName = req.FileName
	return r.record(msg, req.Numero, req.DisplayName, resp), nil
}

func (r *Relay) SendImage(ctx context.Context, req models.SendImageRequest) (*SendResult, error) {
	var missing []string
	if req.Numero == "" {
		missing = append(missing, "numero")
	}
	if req.ImagemURL == "" {
		missing = append(missing, "imagemUrl")
	}
	if len(missing) > 0 {
		return nil, errors.NewValidationError(missing...)
	}

	resp, err := r.gateway.SendImage(ctx, store.Normalize(req.Numero), req.ImagemURL, req.Caption)
	if err != nil {
		return nil, err
	}

	msg := r.outgoing(models.KindImage, req.Caption, req.AgentID, req.AgentName)
	msg.MediaURL = req.ImagemURL
	msg.Caption = req.Caption
	return r.record(msg, req.Numero, req.DisplayName, resp), nil
}

func (r *Relay) SendButtons(ctx context.Context, req models.SendButtonsRequest) (*SendResult, error) {
	var missing []string
	if req.Numero == "" {
		missing = append(missing, "numero")
	}
	if req.Titulo == "" {
		missing = append(missing, "titulo")
	}
	if len(req.Botoes) == 0 {
		missing = append(missing, "botoes")
	}
	if len(missing) > 0 {
		return nil, errors.NewValidationError(missing...)
	}

	resp, err := r.gateway.SendButtonList(ctx, store.Normalize(req.Numero), req.Titulo, req.Botoes)
	if err != nil {
		return nil, err
	}

	msg := r.outgoing(models.KindButtons, req.Titulo, req.AgentID, req.AgentName)
	msg.Buttons = req.Botoes
	return r.record(msg, req.Numero, req.DisplayName, resp), nil
}

func (r *Relay) SendList(ctx context.Context, req models.SendListRequest) (*SendResult, error) {
	var missing []string
	if req.Numero == "" {
		missing = append(missing, "numero")
	}
	if len(req.ListaDeItens) == 0 {
		missing = append(missing, "listaDeItens")
	}
	if len(missing) > 0 {
		return nil, errors.NewValidationError(missing...)
	}

	options := make([]types.OptionItem, 0, len(req.ListaDeItens))
	for _, item := range req.ListaDeItens {
		options = append(options, types.OptionItem{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
		})
	}

	resp, err := r.gateway.SendOptionList(ctx, store.Normalize(req.Numero), req.Titulo, req.Titulo, options)
	if err != nil {
		return nil, err
	}

	msg := r.outgoing(models.KindList, req.Titulo, req.AgentID, req.AgentName)
	msg.ListItems = req.ListaDeItens
	return r.record(msg, req.Numero, req.DisplayName, resp), nil
}

// ProcessInbound ingests one webhook delivery: normalize, upsert the sender's
// display name, append, broadcast. The payload was already parsed as JSON;
// nothing past this point is expected to fail for an in-memory store.
func (r *Relay) ProcessInbound(ctx context.Context, payload map[string]interface{}) *InboundResult {
	contact := extractContact(payload)

	displayName := extractDisplayName(payload)
	if displayName != "" {
		r.store.UpsertDisplayName(contact, displayName)
	}

	msg := normalizeInbound(payload, r.now, uuid.NewString)
	conv := r.store.Append(contact, msg, displayName)

	r.logger.WithFields(logrus.Fields{
		"contact": conv.ContactNumber,
		"kind":    msg.Kind,
	}).Info("Inbound message recorded")

	r.hub.Broadcast(events.EventMessage, map[string]interface{}{
		"conversation": conv,
		"message":      msg,
	})
	metrics.IncrementCounter("messages_total", map[string]string{
		"direction": string(msg.Direction),
		"kind":      string(msg.Kind),
	}, "Messages recorded by direction and kind")

	return &InboundResult{Conversation: conv, Message: msg}
}

func (r *Relay) Conversations() []models.ConversationSummary {
	return r.store.List()
}

func (r *Relay) Messages(contactNumber string) []models.Message {
	return r.store.Messages(contactNumber)
}

func (r *Relay) MarkRead(contactNumber string) (*models.Conversation, error) {
	conv, err := r.store.MarkRead(contactNumber)
	if err != nil {
		return nil, err
	}

	r.hub.Broadcast(events.EventConversation, map[string]interface{}{
		"conversation": conv,
	})
	return conv, nil
}

// Session passthroughs. Each calls the gateway once and announces the action
// over the status event.

func (r *Relay) sessionAction(ctx context.Context, action string, call func(context.Context) (*types.GatewayResponse, error)) (*types.GatewayResponse, error) {
	resp, err := call(ctx)
	if err != nil {
		return nil, err
	}

	r.hub.Broadcast(events.EventStatus, map[string]interface{}{
		"action": action,
		"data":   resp.Body,
	})
	return resp, nil
}

func (r *Relay) Status(ctx context.Context) (*types.GatewayResponse, error) {
	return r.sessionAction(ctx, "status", r.gateway.GetStatus)
}

func (r *Relay) QRCode(ctx context.Context) (*types.GatewayResponse, error) {
	return r.sessionAction(ctx, "qrcode", r.gateway.GetQRCode)
}

func (r *Relay) Reconnect(ctx context.Context) (*types.GatewayResponse, error) {
	return r.sessionAction(ctx, "reconnect", r.gateway.Restart)
}

func (r *Relay) Disconnect(ctx context.Context) (*types.GatewayResponse, error) {
	return r.sessionAction(ctx, "disconnect", r.gateway.Disconnect)
}
