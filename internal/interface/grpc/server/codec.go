package server

import (
	jsoniter "github.com/json-iterator/go"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// CodecName 编解码器名称,对应content-type: application/grpc+json
const CodecName = "json"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// jsonCodec gRPC消息的JSON编解码
// 1. protobuf消息(emptypb.Empty、健康检查等)走protojson
// 2. 其余请求/响应结构体走jsoniter
type jsonCodec struct{}

// Codec 返回JSON编解码器
// init中按CodecName注册,服务端根据请求的content-subtype选择
func Codec() encoding.Codec { return jsonCodec{} }

func (jsonCodec) Name() string { return CodecName }

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return protojson.Marshal(m)
	}
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if m, ok := v.(proto.Message); ok {
		return protojson.Unmarshal(data, m)
	}
	return json.Unmarshal(data, v)
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
