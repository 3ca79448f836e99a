package matchbase

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/kevin-chtw/tw_riichi/mahjong"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
)

// Match 对局状态机：开局、结算、连庄/轮庄与终局
type Match struct {
	conf       *Config
	state      MatchState
	scorelator *Scorelator
	rng        *rand.Rand
	ranking    *Ranking
}

// NewMatch 配置非法时不开局
func NewMatch(conf *Config, rng *rand.Rand) (*Match, error) {
	if conf == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(conf.Seed))
	}
	return &Match{
		conf:       conf,
		scorelator: NewScorelator(conf),
		rng:        rng,
		state:      MatchState{Phase: PhaseAwaitingFirstHand},
	}, nil
}

func (m *Match) Config() *Config {
	return m.conf
}

// State 返回副本
func (m *Match) State() MatchState {
	return m.state
}

// Start 随机起家，开始第一局
func (m *Match) Start() error {
	if m.state.Phase != PhaseAwaitingFirstHand {
		return fmt.Errorf("%w: start in phase %s", mahjong.ErrInvariant, m.state.Phase)
	}
	m.state.Dealer = int32(m.rng.Intn(mahjong.NP4))
	m.state.StartDealer = m.state.Dealer
	m.state.Wind = mahjong.WindOf(0)
	m.state.Phase = PhaseHandInProgress
	logger.Log.Infof("match start, dealer %d", m.state.Dealer)
	return nil
}

// CompleteHand 一局结束时调用一次，结算并累加分数
func (m *Match) CompleteHand(res *HandResult) ([mahjong.NP4]int64, error) {
	if m.state.Phase != PhaseHandInProgress {
		return [mahjong.NP4]int64{}, fmt.Errorf("%w: hand completed in phase %s", mahjong.ErrInvariant, m.state.Phase)
	}
	payoffs, err := m.scorelator.Settle(&m.state, res)
	if err != nil {
		return payoffs, err
	}
	m.state.Phase = PhaseHandComplete
	logger.Log.Infof("hand %d settled %v, scores %v, honba %d, sticks %d",
		m.state.HandCount, payoffs, m.state.Scores, m.state.Honba, m.state.RiichiSticks)
	return payoffs, nil
}

// DealerKeeps 庄家和牌，或流局时庄家听牌则连庄
func DealerKeeps(winners []int32, dealer int32, dealerTenpai bool) bool {
	if len(winners) > 0 {
		return slices.Contains(winners, dealer)
	}
	return dealerTenpai
}

// Rotate 决定下一局；返回 true 表示开始新的一局
func (m *Match) Rotate(dealerKeep, noWin bool) (bool, error) {
	if m.state.Phase != PhaseHandComplete {
		return false, fmt.Errorf("%w: rotate in phase %s", mahjong.ErrInvariant, m.state.Phase)
	}
	m.state.Phase = PhaseRotationDecision
	s := &m.state
	threshold := m.conf.Threshold()

	if m.conf.MoreGames && s.ExtraHands < 4 && s.MaxScore() < threshold {
		s.ExtraHands++
		logger.Log.Infof("nobody reached %d, extra hand %d granted", m.conf.TargetPoints, s.ExtraHands)
	}

	var change int32
	if !dealerKeep {
		change = 1
	}
	s.HandCount += change

	if s.HandCount >= m.conf.Hands+s.ExtraHands ||
		!m.conf.NegativeContinue && s.MinScore() < -m.conf.StartPoints ||
		s.HandCount >= m.conf.Hands && s.MaxScore() >= threshold {
		s.HandCount -= change
		m.terminate()
		return false, nil
	}

	// 南四亲一位且达到目标分直接终局
	if !m.conf.AllLastContinue &&
		s.HandCount == m.conf.Hands-1 &&
		change == 0 &&
		s.MaxScore() == s.Scores[s.Dealer] &&
		s.MaxScore() > s.SecondScore() &&
		s.MaxScore() >= threshold {
		m.terminate()
		return false, nil
	}

	s.Dealer = mahjong.GetNextSeat(s.Dealer, change, mahjong.NP4)
	if noWin || change == 0 {
		s.Honba++
	} else {
		s.Honba = 0
	}
	s.Wind = mahjong.WindOf(s.HandCount)
	s.Phase = PhaseHandInProgress
	logger.Log.Infof("next hand %d: dealer %d, wind %s, honba %d", s.HandCount, s.Dealer, s.Wind, s.Honba)
	return true, nil
}

func (m *Match) terminate() {
	m.state.Terminated = true
	m.state.Phase = PhaseTerminated
	logger.Log.Infof("match terminated after hand %d, scores %v", m.state.HandCount, m.state.Scores)
}

func (m *Match) IsTerminated() bool {
	return m.state.Terminated
}

// FinalRanking 终局后计算一次，之后返回缓存
func (m *Match) FinalRanking() (*Ranking, error) {
	if !m.state.Terminated {
		return nil, fmt.Errorf("%w: ranking before termination", mahjong.ErrInvariant)
	}
	if m.ranking == nil {
		m.ranking = CalcRanking(&m.state, m.conf)
	}
	return m.ranking, nil
}
