package mahjong

import (
	"fmt"
	"slices"
	"strings"
)

// CallCategory 副露类型
type CallCategory int

const (
	CallSequence      CallCategory = iota // 吃
	CallTriplet                           // 碰
	CallConcealedQuad                     // 暗杠
	CallOpenQuad                          // 明杠
	CallAddedQuad                         // 加杠
	CallNone          CallCategory = -1
)

var CallCategoryNames = map[CallCategory]string{
	CallSequence:      "Sequence",
	CallTriplet:       "Triplet",
	CallConcealedQuad: "ConcealedQuad",
	CallOpenQuad:      "OpenQuad",
	CallAddedQuad:     "AddedQuad",
}

func (c CallCategory) String() string {
	return CallCategoryNames[c]
}

// CallCategoryOf 动作对应的副露类型
func CallCategoryOf(operate int) CallCategory {
	switch operate {
	case OperateChiLeft, OperateChiMiddle, OperateChiRight:
		return CallSequence
	case OperatePon:
		return CallTriplet
	case OperateAnkan:
		return CallConcealedQuad
	case OperateMinkan:
		return CallOpenQuad
	case OperateKakan:
		return CallAddedQuad
	default:
		return CallNone
	}
}

// 来源方向，按座位号
var arrows = []string{"↑", "←", "↓", "→"}

// CallEvent 一次生效的副露
type CallEvent struct {
	Notation string
	Category CallCategory
	From     int32
}

// Tile 被鸣的牌
func (c CallEvent) Tile() string {
	return MeldTile(c.Notation)
}

// String 带来源箭头的副露文本，暗杠两端扣牌
func (c CallEvent) String() string {
	if c.From < 0 || int(c.From) >= len(arrows) {
		return c.Notation
	}
	arrow := arrows[c.From]
	tile := c.Tile()
	mark := func(t string) string {
		if c.From == 3 {
			return arrow + t
		}
		return t + arrow
	}
	switch c.Category {
	case CallConcealedQuad:
		return "**" + tile + tile + "**"
	case CallOpenQuad:
		return tile + tile + "(" + mark(tile) + ")" + tile
	case CallAddedQuad:
		return tile + "(" + mark(tile) + ")" + tile + "(" + tile + ")"
	}
	l := strings.IndexByte(c.Notation, '(')
	r := strings.IndexByte(c.Notation, ')')
	if l < 0 || r < l {
		return c.Notation
	}
	return c.Notation[:l+1] + mark(c.Notation[l+1:r]) + c.Notation[r:]
}

// CallRecords 一局内每个玩家的副露记录，只追加
type CallRecords struct {
	events [NP4][]CallEvent
}

func NewCallRecords() *CallRecords {
	return &CallRecords{}
}

func (r *CallRecords) Append(seat int32, event CallEvent) {
	r.events[seat] = append(r.events[seat], event)
}

// Events 返回副本
func (r *CallRecords) Events(seat int32) []CallEvent {
	events := make([]CallEvent, len(r.events[seat]))
	copy(events, r.events[seat])
	return events
}

func (r *CallRecords) Count() int {
	n := 0
	for _, e := range r.events {
		n += len(e)
	}
	return n
}

// Promote 碰升级为加杠，只发生一次
func (r *CallRecords) Promote(seat int32, tile string) error {
	tile = NormalizeTile(tile)
	for i, e := range r.events[seat] {
		if e.Category == CallTriplet && slices.Contains(MeldTiles(e.Notation), tile) {
			r.events[seat][i].Category = CallAddedQuad
			return nil
		}
	}
	return fmt.Errorf("%w: seat %d has no triplet of %s to promote", ErrInvariant, seat, tile)
}
