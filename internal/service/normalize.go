package service

import (
	"encoding/json"
	"strconv"
	"time"

	"zaprelay/internal/models"
)

// Upstream vendors disagree on field names. Each extraction below walks a
// fixed priority order over the raw payload; the first hit wins.

var (
	contactFields   = []string{"phone", "from", "remoteJid", "number", "chatId", "contact"}
	nameFields      = []string{"pushName", "senderName", "chatName", "notifyName"}
	imageURLFields  = []string{"image", "imageUrl", "photo"}
	fileURLFields   = []string{"document", "documentUrl", "file", "fileUrl"}
	timestampFields = []string{"timestamp", "momment", "messageTimestamp"}
	messageIDFields = []string{"messageId", "id"}
	fileNameFields  = []string{"fileName", "filename"}
)

// contactSentinel stands in when no vendor field carries a contact
// identifier; a payload is never rejected for that alone.
const contactSentinel = "unknown"

func stringField(payload map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s, ok := payload[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func nestedString(payload map[string]interface{}, outer, inner string) (string, bool) {
	obj, ok := payload[outer].(map[string]interface{})
	if !ok {
		return "", false
	}
	v, ok := obj[inner]
	if !ok || v == nil {
		return "", false
	}
	return coerceString(v), true
}

func coerceString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

func extractContact(payload map[string]interface{}) string {
	if contact := stringField(payload, contactFields...); contact != "" {
		return contact
	}
	return contactSentinel
}

func extractDisplayName(payload map[string]interface{}) string {
	return stringField(payload, nameFields...)
}

func extractMessageID(payload map[string]interface{}) string {
	return stringField(payload, messageIDFields...)
}

// extractTimestamp resolves the upstream epoch. Ten digits are read as whole
// seconds, anything longer as milliseconds. Best-effort inference: vendors
// are not guaranteed to emit either resolution.
func extractTimestamp(payload map[string]interface{}, now func() time.Time) time.Time {
	for _, key := range timestampFields {
		v, ok := payload[key]
		if !ok {
			continue
		}

		var epoch int64
		switch t := v.(type) {
		case float64:
			epoch = int64(t)
		case string:
			parsed, err := strconv.ParseInt(t, 10, 64)
			if err != nil {
				continue
			}
			epoch = parsed
		default:
			continue
		}
		if epoch <= 0 {
			continue
		}

		if len(strconv.FormatInt(epoch, 10)) <= 10 {
			return time.Unix(epoch, 0).UTC()
		}
		return time.UnixMilli(epoch).UTC()
	}
	return now().UTC()
}

// mediaURL finds a media link among the given fields, looking one level into
// vendor objects like {"image": {"imageUrl": ...}}.
func mediaURL(payload map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		switch t := payload[key].(type) {
		case string:
			if t != "" {
				return t
			}
		case map[string]interface{}:
			if url := stringField(t, "url", "imageUrl", "documentUrl", "fileUrl"); url != "" {
				return url
			}
		}
	}
	return ""
}

func extractKind(payload map[string]interface{}) models.MessageKind {
	switch stringField(payload, "type") {
	case "text", "chat":
		return models.KindText
	case "image", "photo":
		return models.KindImage
	case "file", "document":
		return models.KindFile
	case "buttons", "button", "buttonList":
		return models.KindButtons
	case "list", "optionList":
		return models.KindList
	}

	if mediaURL(payload, imageURLFields...) != "" {
		return models.KindImage
	}
	if mediaURL(payload, fileURLFields...) != "" {
		return models.KindFile
	}
	return models.KindText
}

func extractContent(payload map[string]interface{}) string {
	if s, ok := nestedString(payload, "message", "text"); ok && s != "" {
		return s
	}
	if s, ok := nestedString(payload, "message", "body"); ok && s != "" {
		return s
	}
	// Z-API nests the body under "text".
	if s, ok := nestedString(payload, "text", "message"); ok && s != "" {
		return s
	}
	for _, key := range []string{"body", "text", "caption"} {
		v, ok := payload[key]
		if !ok || v == nil {
			continue
		}
		if _, isObj := v.(map[string]interface{}); isObj {
			continue
		}
		if s := coerceString(v); s != "" {
			return s
		}
	}
	return ""
}

func extractCaption(payload map[string]interface{}) string {
	if caption := stringField(payload, "caption"); caption != "" {
		return caption
	}
	for _, key := range []string{"image", "document"} {
		if obj, ok := payload[key].(map[string]interface{}); ok {
			if caption := stringField(obj, "caption"); caption != "" {
				return caption
			}
		}
	}
	return ""
}

func extractFileName(payload map[string]interface{}) string {
	if name := stringField(payload, fileNameFields...); name != "" {
		return name
	}
	if obj, ok := payload["document"].(map[string]interface{}); ok {
		return stringField(obj, fileNameFields...)
	}
	return ""
}

// normalizeInbound builds the canonical incoming message from a raw webhook
// payload. The raw payload rides along in Metadata for audit.
func normalizeInbound(payload map[string]interface{}, now func() time.Time, newID func() string) models.Message {
	kind := extractKind(payload)

	msg := models.Message{
		ID:        extractMessageID(payload),
		Direction: models.DirectionIncoming,
		Kind:      kind,
		Content:   extractContent(payload),
		CreatedAt: extractTimestamp(payload, now),
		AgentName: extractDisplayName(payload),
		Metadata:  payload,
	}
	if msg.ID == "" {
		msg.ID = newID()
	}

	switch kind {
	case models.KindImage:
		msg.MediaURL = mediaURL(payload, imageURLFields...)
		msg.Caption = extractCaption(payload)
	case models.KindFile:
		msg.MediaURL = mediaURL(payload, fileURLFields...)
		msg.FileName = extractFileName(payload)
	}

	return msg
}
