package matchbase

import (
	"fmt"
	"slices"

	"github.com/kevin-chtw/tw_riichi/mahjong"
)

// HandResult 一局结束时的引擎结果
type HandResult struct {
	Payoffs     []int64 // 引擎原始得失，不含本场和供托
	Winners     []int32
	Loser       int32 // 放铳者，自摸时为 SeatNull
	SelfDrawn   bool
	RiichiSeats []int32 // 立直中的玩家
}

// Scorelator 本场费与立直棒结算
type Scorelator struct {
	conf *Config
}

func NewScorelator(conf *Config) *Scorelator {
	return &Scorelator{conf: conf}
}

func (s *Scorelator) honbaFee() int64 {
	if s.conf.HonbaFee {
		return 100
	}
	return 0
}

// Settle 调整原始得失并累加到总分
func (s *Scorelator) Settle(state *MatchState, res *HandResult) ([mahjong.NP4]int64, error) {
	var payoffs [mahjong.NP4]int64
	if err := s.checkArgs(res); err != nil {
		return payoffs, err
	}
	copy(payoffs[:], res.Payoffs)

	honba := int64(state.Honba) * s.honbaFee()
	sticks := 1000 * int64(state.RiichiSticks)
	switch {
	case res.SelfDrawn:
		winner := res.Winners[0]
		payoffs[winner] += 4*honba + sticks
		for i := range payoffs {
			payoffs[i] -= honba
		}
		state.RiichiSticks = 0
	case len(res.Winners) > 0:
		head := headWinner(res.Winners, res.Loser)
		payoffs[head] += 3*honba + sticks
		payoffs[res.Loser] -= 3 * honba
		state.RiichiSticks = 0
	default:
		state.RiichiSticks += int32(len(res.RiichiSeats))
	}

	for i := range payoffs {
		state.Scores[i] += payoffs[i]
	}
	return payoffs, nil
}

// headWinner 从放铳者下家开始第一个和牌者（头跳）
func headWinner(winners []int32, loser int32) int32 {
	for step := int32(1); step <= mahjong.NP4; step++ {
		seat := mahjong.GetNextSeat(loser, step, mahjong.NP4)
		if slices.Contains(winners, seat) {
			return seat
		}
	}
	return winners[0]
}

func (s *Scorelator) checkArgs(res *HandResult) error {
	if res == nil || len(res.Payoffs) != mahjong.NP4 {
		return fmt.Errorf("%w: payoffs must have %d entries", mahjong.ErrInvariant, mahjong.NP4)
	}
	for _, w := range res.Winners {
		if w < 0 || w >= mahjong.NP4 {
			return fmt.Errorf("%w: winner seat %d", mahjong.ErrInvariant, w)
		}
	}
	if res.SelfDrawn && len(res.Winners) != 1 {
		return fmt.Errorf("%w: self-drawn win needs exactly 1 winner, got %d", mahjong.ErrInvariant, len(res.Winners))
	}
	if !res.SelfDrawn && len(res.Winners) > 0 && (res.Loser < 0 || res.Loser >= mahjong.NP4) {
		return fmt.Errorf("%w: discard win without a discarding seat", mahjong.ErrInvariant)
	}

	var sum int64
	for _, v := range res.Payoffs {
		sum += v
	}
	// 流局时引擎可能已扣除立直供托
	if sum != 0 && sum != -1000*int64(len(res.RiichiSeats)) {
		return fmt.Errorf("%w: payoffs %v are not zero-sum", mahjong.ErrInvariant, res.Payoffs)
	}
	return nil
}
