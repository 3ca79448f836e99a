package utils

import (
	"github.com/topfreegames/pitaya/v3/pkg/logger"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func ToAny(msg proto.Message) *anypb.Any {
	data, err := anypb.New(msg)
	if err != nil {
		logger.Log.Error(err)
		return nil
	}
	return data
}

// ToStruct map 转换为 protobuf Struct，切片需为 []any
func ToStruct(m map[string]any) (*structpb.Struct, error) {
	return structpb.NewStruct(m)
}

// List 转换为 structpb 可接受的 []any
func List[T any](values []T) []any {
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v
	}
	return list
}

// GetString 读取字符串字段
func GetString(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

// GetInt32 读取数字字段
func GetInt32(s *structpb.Struct, key string) (int32, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, false
	}
	if _, isNum := v.GetKind().(*structpb.Value_NumberValue); !isNum {
		return 0, false
	}
	return int32(v.GetNumberValue()), true
}
