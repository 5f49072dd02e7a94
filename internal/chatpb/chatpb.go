// Package chatpb describes the chatroom.ChatService wire contract shared by
// the gRPC server and client. Requests and responses are
// google.protobuf.Struct values with the field names declared here;
// GetOnlineUsers, GetTotalMessages and Ping take google.protobuf.Empty.
package chatpb

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "chatroom.ChatService"

const (
	MethodRegister         = "Register"
	MethodLogin            = "Login"
	MethodLogout           = "Logout"
	MethodSendMessage      = "SendMessage"
	MethodGetMessages      = "GetMessages"
	MethodFetch            = "Fetch"
	MethodGetOnlineUsers   = "GetOnlineUsers"
	MethodGetTotalMessages = "GetTotalMessages"
	MethodPing             = "Ping"
)

// FullMethod returns the gRPC path of method, e.g. "/chatroom.ChatService/Login".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// Field names.
const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
	FieldEmail           = "email"
	FieldSuccess         = "success"
	FieldMessage         = "message"
	FieldUserID          = "user_id"
	FieldSessionToken    = "session_token"
	FieldID              = "id"
	FieldTimestamp       = "timestamp"
	FieldLastID          = "last_id"
	FieldMessages        = "messages"
	FieldOnlineUsers     = "online_users"
	FieldUsers           = "users"
	FieldStatus          = "status"
)

// TimestampLayout is how message timestamps travel on the wire.
const TimestampLayout = time.RFC3339Nano

var ErrFieldType = errors.New("wrong field type")

// ChatMessage is the wire view of one log entry.
type ChatMessage struct {
	ID        int64
	Username  string
	Message   string
	Timestamp time.Time
}

// String reads a string field. A missing or null field reads as "".
func String(s *structpb.Struct, key string) (string, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return "", nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NullValue:
		return "", nil
	default:
		return "", fmt.Errorf("%s: %w", key, ErrFieldType)
	}
}

// Int64 reads an integral number field. A missing or null field reads as 0.
func Int64(s *structpb.Struct, key string) (int64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, nil
	}
	switch k := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := k.NumberValue
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) ||
			n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("%s: %w", key, ErrFieldType)
		}
		return int64(n), nil
	case *structpb.Value_NullValue:
		return 0, nil
	default:
		return 0, fmt.Errorf("%s: %w", key, ErrFieldType)
	}
}

// LastID reads the last_id cursor. Decimal strings are accepted; anything
// else that is not an integral number reads as 0, the start of the log.
func LastID(s *structpb.Struct) int64 {
	if str, ok := s.GetFields()[FieldLastID].GetKind().(*structpb.Value_StringValue); ok {
		id, err := strconv.ParseInt(str.StringValue, 10, 64)
		if err != nil {
			return 0
		}
		return id
	}
	id, err := Int64(s, FieldLastID)
	if err != nil {
		return 0
	}
	return id
}

// Bool reads a bool field; anything else reads as false.
func Bool(s *structpb.Struct, key string) bool {
	return s.GetFields()[key].GetBoolValue()
}

// StringsValue encodes names as a list value.
func StringsValue(names []string) *structpb.Value {
	values := make([]*structpb.Value, 0, len(names))
	for _, n := range names {
		values = append(values, structpb.NewStringValue(n))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

// Strings decodes a list of strings. A missing value decodes as empty.
func Strings(v *structpb.Value) ([]string, error) {
	result := []string{}
	if v == nil {
		return result, nil
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, ErrFieldType
	}
	for _, item := range list.ListValue.GetValues() {
		s, ok := item.GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, ErrFieldType
		}
		result = append(result, s.StringValue)
	}
	return result, nil
}

// MessageStruct encodes one message.
func MessageStruct(m ChatMessage) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldID:        structpb.NewNumberValue(float64(m.ID)),
		FieldUsername:  structpb.NewStringValue(m.Username),
		FieldMessage:   structpb.NewStringValue(m.Message),
		FieldTimestamp: structpb.NewStringValue(m.Timestamp.UTC().Format(TimestampLayout)),
	}}
}

// MessagesValue encodes msgs as a list of structs.
func MessagesValue(msgs []ChatMessage) *structpb.Value {
	values := make([]*structpb.Value, 0, len(msgs))
	for _, m := range msgs {
		values = append(values, structpb.NewStructValue(MessageStruct(m)))
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values})
}

// Messages decodes a list produced by MessagesValue.
func Messages(v *structpb.Value) ([]ChatMessage, error) {
	result := []ChatMessage{}
	if v == nil {
		return result, nil
	}
	list, ok := v.GetKind().(*structpb.Value_ListValue)
	if !ok {
		return nil, ErrFieldType
	}
	for _, item := range list.ListValue.GetValues() {
		s := item.GetStructValue()
		if s == nil {
			return nil, ErrFieldType
		}
		m, err := DecodeMessage(s)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

// DecodeMessage decodes a struct produced by MessageStruct.
func DecodeMessage(s *structpb.Struct) (ChatMessage, error) {
	var m ChatMessage
	var err error
	if m.ID, err = Int64(s, FieldID); err != nil {
		return m, err
	}
	if m.Username, err = String(s, FieldUsername); err != nil {
		return m, err
	}
	if m.Message, err = String(s, FieldMessage); err != nil {
		return m, err
	}
	ts, err := String(s, FieldTimestamp)
	if err != nil {
		return m, err
	}
	if ts != "" {
		if m.Timestamp, err = time.Parse(TimestampLayout, ts); err != nil {
			return m, fmt.Errorf("%s: %w", FieldTimestamp, err)
		}
	}
	return m, nil
}
