package mahjong

import "errors"

var (
	// ErrInvariant 对局状态不一致，无法继续
	ErrInvariant = errors.New("mahjong: invariant violated")
	// ErrMalformedSnapshot 引擎文本无法解析
	ErrMalformedSnapshot = errors.New("mahjong: malformed player text")
)
