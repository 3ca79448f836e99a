package matchbase

import (
	"slices"

	"github.com/kevin-chtw/tw_riichi/mahjong"
)

// Phase 对局阶段
type Phase int

const (
	PhaseAwaitingFirstHand Phase = iota
	PhaseHandInProgress
	PhaseHandComplete
	PhaseRotationDecision
	PhaseTerminated
)

var PhaseNames = map[Phase]string{
	PhaseAwaitingFirstHand: "AwaitingFirstHand",
	PhaseHandInProgress:    "HandInProgress",
	PhaseHandComplete:      "HandComplete",
	PhaseRotationDecision:  "RotationDecision",
	PhaseTerminated:        "Terminated",
}

func (p Phase) String() string {
	return PhaseNames[p]
}

// MatchState 对局级状态，只由 Match 修改
type MatchState struct {
	Phase        Phase
	Dealer       int32
	StartDealer  int32 // 起家
	Wind         mahjong.Wind
	HandCount    int32
	Honba        int32
	RiichiSticks int32
	Scores       [mahjong.NP4]int64 // 相对起始点数
	ExtraHands   int32
	Terminated   bool
}

// MaxScore 最高分
func (s *MatchState) MaxScore() int64 {
	return slices.Max(s.Scores[:])
}

func (s *MatchState) MinScore() int64 {
	return slices.Min(s.Scores[:])
}

// SecondScore 第二高分
func (s *MatchState) SecondScore() int64 {
	sorted := s.Scores
	slices.Sort(sorted[:])
	return sorted[mahjong.NP4-2]
}
