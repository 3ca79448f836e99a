package mahjong

// 引擎动作空间：0..33 为打出对应的牌
const (
	OperateNone         = -1
	OperateChiLeft      = TileTypes + iota - 1 // 吃(最小)
	OperateChiMiddle                           // 吃(中间)
	OperateChiRight                            // 吃(最大)
	OperatePon                                 // 碰
	OperateAnkan                               // 暗杠
	OperateMinkan                              // 明杠
	OperateKakan                               // 加杠
	OperateRiichi                              // 立直
	OperateRon                                 // 荣和
	OperateTsumo                               // 自摸
	OperateKyushu                              // 九种九牌
	OperatePassRiichi                          // 不立直
	OperatePassResponse                        // 过
	OperateEnd
)

var OperateNames = map[int]string{
	OperateChiLeft:      "ChiLeft",
	OperateChiMiddle:    "ChiMiddle",
	OperateChiRight:     "ChiRight",
	OperatePon:          "Pon",
	OperateAnkan:        "Ankan",
	OperateMinkan:       "Minkan",
	OperateKakan:        "Kakan",
	OperateRiichi:       "Riichi",
	OperateRon:          "Ron",
	OperateTsumo:        "Tsumo",
	OperateKyushu:       "Kyushu",
	OperatePassRiichi:   "PassRiichi",
	OperatePassResponse: "Pass",
}

var OperateIDs = func() map[string]int {
	ids := make(map[string]int, len(OperateNames))
	for id, name := range OperateNames {
		ids[name] = id
	}
	return ids
}()

// GetOperateName 出牌动作显示为 "Discard 1m"
func GetOperateName(operate int) string {
	if IsDiscard(operate) {
		return "Discard " + TileName(operate)
	}
	if name, ok := OperateNames[operate]; ok {
		return name
	}
	return ""
}

func GetOperateID(name string) int {
	if id, ok := OperateIDs[name]; ok {
		return id
	}
	return OperateNone
}

func IsDiscard(operate int) bool {
	return operate >= 0 && operate < TileTypes
}

// IsValidOperate 是否在动作空间内
func IsValidOperate(operate int) bool {
	return operate >= 0 && operate < OperateEnd
}

// IsForwardCall 对他家舍牌的鸣牌（吃、碰、明杠），需要等待引擎裁决
func IsForwardCall(operate int) bool {
	return operate >= OperateChiLeft && operate <= OperatePon || operate == OperateMinkan
}

// 鸣牌优先级
const (
	PriorityNone     = -1
	PrioritySequence = iota - 1 // 吃
	PriorityTriplet             // 碰
	PriorityOpenQuad            // 明杠
	PriorityWin                 // 荣和
)

// CallPriority 争夺同一张舍牌时的优先级
func CallPriority(operate int) int {
	switch operate {
	case OperateChiLeft, OperateChiMiddle, OperateChiRight:
		return PrioritySequence
	case OperatePon:
		return PriorityTriplet
	case OperateMinkan:
		return PriorityOpenQuad
	case OperateRon:
		return PriorityWin
	default:
		return PriorityNone
	}
}
