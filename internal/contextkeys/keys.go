package contextkeys

import "context"

type contextKey string

const (
	messageTypeKey  contextKey = "message_type"
	callbackDataKey contextKey = "callback_data"
	sessionIDKey    contextKey = "session_id"
)

type MessageType string

const (
	MessageTypeText        MessageType = "text"
	MessageTypeCommand     MessageType = "command"
	MessageTypeClickButton MessageType = "click_button"
	MessageTypeUnknown     MessageType = "unknown"
)

func WithMessageType(ctx context.Context, t MessageType) context.Context {
	return context.WithValue(ctx, messageTypeKey, t)
}

func GetMessageType(ctx context.Context) (MessageType, bool) {
	t, ok := ctx.Value(messageTypeKey).(MessageType)
	return t, ok
}

func WithCallbackData(ctx context.Context, data string) context.Context {
	return context.WithValue(ctx, callbackDataKey, data)
}

func GetCallbackData(ctx context.Context) (string, bool) {
	data, ok := ctx.Value(callbackDataKey).(string)
	return data, ok
}

func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

func GetSessionID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok
}
