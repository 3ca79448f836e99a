package matchbase_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/kevin-chtw/tw_riichi/mahjong"
	"github.com/kevin-chtw/tw_riichi/matchbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMatch(t *testing.T, conf *matchbase.Config) *matchbase.Match {
	t.Helper()
	m, err := matchbase.NewMatch(conf, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	require.NoError(t, m.Start())
	return m
}

// ron 构造一次荣和，winner 从 loser 处得 points
func ron(winner, loser int32, points int64) *matchbase.HandResult {
	payoffs := make([]int64, mahjong.NP4)
	payoffs[winner] += points
	payoffs[loser] -= points
	return &matchbase.HandResult{Payoffs: payoffs, Winners: []int32{winner}, Loser: loser}
}

func draw(riichi ...int32) *matchbase.HandResult {
	return &matchbase.HandResult{
		Payoffs:     []int64{0, 0, 0, 0},
		Loser:       mahjong.SeatNull,
		RiichiSeats: riichi,
	}
}

// playHand 结算并做连庄判断
func playHand(t *testing.T, m *matchbase.Match, res *matchbase.HandResult, dealerTenpai bool) bool {
	t.Helper()
	_, err := m.CompleteHand(res)
	require.NoError(t, err)
	keep := matchbase.DealerKeeps(res.Winners, m.State().Dealer, dealerTenpai)
	next, err := m.Rotate(keep, len(res.Winners) == 0)
	require.NoError(t, err)
	return next
}

func TestMatchStart(t *testing.T) {
	m, err := matchbase.NewMatch(matchbase.DefaultConfig(), rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, matchbase.PhaseAwaitingFirstHand, m.State().Phase)

	require.NoError(t, m.Start())
	s := m.State()
	assert.Equal(t, matchbase.PhaseHandInProgress, s.Phase)
	assert.Equal(t, s.Dealer, s.StartDealer)
	assert.Equal(t, int32(rand.New(rand.NewSource(42)).Intn(4)), s.Dealer)
	assert.Equal(t, mahjong.WindEast, s.Wind)

	assert.True(t, errors.Is(m.Start(), mahjong.ErrInvariant))
	_, err = m.Rotate(true, false)
	assert.True(t, errors.Is(err, mahjong.ErrInvariant))
}

func TestNewMatchInvalidConfig(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.StartPoints = -1
	_, err := matchbase.NewMatch(conf, nil)
	assert.True(t, errors.Is(err, matchbase.ErrInvalidConfig))
}

func TestDealerKeeps(t *testing.T) {
	assert.True(t, matchbase.DealerKeeps([]int32{1, 2}, 2, false))
	assert.False(t, matchbase.DealerKeeps([]int32{1}, 2, true))
	assert.True(t, matchbase.DealerKeeps(nil, 2, true))
	assert.False(t, matchbase.DealerKeeps(nil, 2, false))
}

func TestRotation(t *testing.T) {
	m := newMatch(t, matchbase.DefaultConfig())
	dealer := m.State().Dealer
	other := mahjong.GetNextSeat(dealer, 2, mahjong.NP4)

	// 庄家和牌：连庄，本场+1
	require.True(t, playHand(t, m, ron(dealer, other, 2900), false))
	s := m.State()
	assert.Equal(t, dealer, s.Dealer)
	assert.Equal(t, int32(1), s.Honba)
	assert.Equal(t, int32(0), s.HandCount)

	// 流局庄家听牌：连庄，本场+1，立直棒累积
	require.True(t, playHand(t, m, draw(other), true))
	s = m.State()
	assert.Equal(t, dealer, s.Dealer)
	assert.Equal(t, int32(2), s.Honba)
	assert.Equal(t, int32(1), s.RiichiSticks)

	// 流局庄家未听：轮庄，本场仍+1
	require.True(t, playHand(t, m, draw(), false))
	s = m.State()
	dealer = mahjong.GetNextSeat(dealer, 1, mahjong.NP4)
	assert.Equal(t, dealer, s.Dealer)
	assert.Equal(t, int32(3), s.Honba)
	assert.Equal(t, int32(1), s.HandCount)

	// 闲家和牌：轮庄，本场清零，立直棒归和牌者
	require.True(t, playHand(t, m, ron(other, dealer, 1000), false))
	s = m.State()
	assert.Equal(t, mahjong.GetNextSeat(dealer, 1, mahjong.NP4), s.Dealer)
	assert.Equal(t, int32(0), s.Honba)
	assert.Equal(t, int32(0), s.RiichiSticks)
	assert.Equal(t, int32(2), s.HandCount)
	assert.Equal(t, matchbase.PhaseHandInProgress, s.Phase)
}

func TestWindFollowsHandCount(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.MoreGames = false
	m := newMatch(t, conf)
	for i := 0; i < 4; i++ {
		d := m.State().Dealer
		require.True(t, playHand(t, m, ron(mahjong.GetNextSeat(d, 1, mahjong.NP4), d, 1000), false))
	}
	s := m.State()
	assert.Equal(t, int32(4), s.HandCount)
	assert.Equal(t, mahjong.WindSouth, s.Wind)
	assert.Equal(t, m.State().StartDealer, s.Dealer)
}

func TestTerminateOnNegativeScore(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.MoreGames = false
	conf.NegativeContinue = false
	m := newMatch(t, conf)
	dealer := m.State().Dealer
	winner := mahjong.GetNextSeat(dealer, 1, mahjong.NP4)

	next := playHand(t, m, ron(winner, dealer, 32000), false)
	assert.False(t, next)
	s := m.State()
	assert.True(t, s.Terminated)
	assert.True(t, m.IsTerminated())
	assert.Equal(t, matchbase.PhaseTerminated, s.Phase)
	assert.Equal(t, int32(0), s.HandCount)

	_, err := m.CompleteHand(draw())
	assert.True(t, errors.Is(err, mahjong.ErrInvariant))
}

func TestNegativeContinue(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.MoreGames = false
	conf.NegativeContinue = true
	m := newMatch(t, conf)
	dealer := m.State().Dealer
	assert.True(t, playHand(t, m, ron(mahjong.GetNextSeat(dealer, 1, mahjong.NP4), dealer, 32000), false))
}

func TestTerminateAtScheduledEnd(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.Hands = 1
	conf.MoreGames = false
	m := newMatch(t, conf)
	dealer := m.State().Dealer

	assert.False(t, playHand(t, m, ron(mahjong.GetNextSeat(dealer, 1, mahjong.NP4), dealer, 1000), false))
	s := m.State()
	assert.True(t, s.Terminated)
	// 触发终局的一局不计入局数
	assert.Equal(t, int32(0), s.HandCount)
	assert.Equal(t, dealer, s.Dealer)
}

func TestExtraHands(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.Hands = 1
	m := newMatch(t, conf)

	for i := 1; i <= 4; i++ {
		d := m.State().Dealer
		require.True(t, playHand(t, m, ron(mahjong.GetNextSeat(d, 1, mahjong.NP4), d, 1000), false))
		assert.Equal(t, int32(i), m.State().ExtraHands)
	}
	// 最多延长4局
	d := m.State().Dealer
	assert.False(t, playHand(t, m, ron(mahjong.GetNextSeat(d, 1, mahjong.NP4), d, 1000), false))
	assert.Equal(t, int32(4), m.State().ExtraHands)
	assert.Equal(t, int32(4), m.State().HandCount)
}

func TestExtraHandEndsOnTarget(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.Hands = 1
	m := newMatch(t, conf)
	d := m.State().Dealer
	require.True(t, playHand(t, m, ron(mahjong.GetNextSeat(d, 1, mahjong.NP4), d, 1000), false))

	// 达到目标分后不再延长
	d = m.State().Dealer
	assert.False(t, playHand(t, m, ron(mahjong.GetNextSeat(d, 1, mahjong.NP4), d, 8000), false))
	assert.Equal(t, int32(1), m.State().ExtraHands)
	assert.Equal(t, int32(1), m.State().HandCount)
}

func TestAllLastDealerTop(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.Hands = 2
	conf.MoreGames = false
	m := newMatch(t, conf)
	d := m.State().Dealer
	require.True(t, playHand(t, m, ron(mahjong.GetNextSeat(d, 1, mahjong.NP4), d, 1000), false))

	d = m.State().Dealer
	loser := mahjong.GetNextSeat(d, 2, mahjong.NP4)
	assert.False(t, playHand(t, m, ron(d, loser, 12000), false))
	s := m.State()
	assert.True(t, s.Terminated)
	assert.Equal(t, int32(1), s.HandCount)

	conf.AllLastContinue = true
	m = newMatch(t, conf)
	d = m.State().Dealer
	require.True(t, playHand(t, m, ron(mahjong.GetNextSeat(d, 1, mahjong.NP4), d, 1000), false))
	d = m.State().Dealer
	assert.True(t, playHand(t, m, ron(d, mahjong.GetNextSeat(d, 2, mahjong.NP4), 12000), false))
	assert.Equal(t, int32(1), m.State().Honba)
}
