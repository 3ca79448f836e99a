package game

import (
	"context"

	"github.com/kevin-chtw/tw_riichi/mahjong"
)

// RulesEngine 单局规则引擎：发牌、合法动作、和牌判定与点数计算
type RulesEngine interface {
	// Reset 开始新的一局，每局调用一次
	Reset(dealer int32, wind mahjong.Wind) error
	// Step 执行玩家动作
	Step(seat int32, action int) error
	// CurrentPlayer 当前行动玩家，一局结束时为 -1
	CurrentPlayer() int32
	IsHandOver() bool
	LegalActions(seat int32) []int
	Observation(seat int32) []float32
	// PlayerText 玩家状态的yaml文本
	PlayerText(seat int32) (string, error)
	// Payoffs 仅在一局结束后有效
	Payoffs() ([]int64, error)
}

// Agent 根据观测和合法动作选择一个动作
type Agent interface {
	SelectAction(ctx context.Context, obs []float32, legal []int) (int, error)
}
