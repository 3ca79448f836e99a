package matchbase

import (
	"math"
	"sort"

	"github.com/kevin-chtw/tw_riichi/mahjong"
)

// 同分时按起家顺序区分名次
const seatPriorityEpsilon = 1e-4

// Ranking 终局顺位，Seats[i] 为第 i 名的座位
type Ranking struct {
	Scores [mahjong.NP4]float64
	Tenths [mahjong.NP4]int64 // Scores 的十分之一单位，和为0
	Seats  [mahjong.NP4]int32
}

// CalcRanking 终局得点：返点、同分按座次、顺位马，保留一位小数
func CalcRanking(state *MatchState, conf *Config) *Ranking {
	scores := &state.Scores
	scores[0] = -(scores[1] + scores[2] + scores[3])
	state.RiichiSticks = 0

	threshold := conf.Threshold()
	var adjusted [mahjong.NP4]float64
	for seat := range adjusted {
		priority := mahjong.SeatDistance(state.StartDealer, int32(seat))
		adjusted[seat] = float64(scores[seat]-threshold)/1000 - float64(priority)*seatPriorityEpsilon
	}

	r := &Ranking{}
	order := []int32{0, 1, 2, 3}
	sort.SliceStable(order, func(i, j int) bool {
		return adjusted[order[i]] > adjusted[order[j]]
	})

	var sum int64
	for rank, seat := range order {
		r.Seats[rank] = seat
		r.Tenths[rank] = int64(math.Round((adjusted[seat] + conf.BonusPoints[rank]) * 10))
		if rank > 0 {
			sum += r.Tenths[rank]
		}
	}
	r.Tenths[0] = -sum
	for rank := range r.Tenths {
		r.Scores[rank] = float64(r.Tenths[rank]) / 10
	}
	return r
}
