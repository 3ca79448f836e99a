package game

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"sync"

	"github.com/kevin-chtw/tw_riichi/mahjong"
	"github.com/kevin-chtw/tw_riichi/matchbase"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
)

var (
	ErrIllegalAction  = errors.New("game: illegal action")
	ErrHandOver       = errors.New("game: hand is over")
	ErrHandInProgress = errors.New("game: hand in progress")
	ErrTerminated     = errors.New("game: match terminated")
	ErrTableBroken    = errors.New("game: table stopped after an invariant violation")
)

// tableOptions 建桌选项
type tableOptions struct {
	rng    *rand.Rand
	agents map[int32]Agent
	kinds  map[int32]string
}

// TableOption 建桌选项函数类型
type TableOption func(*tableOptions)

// WithRand 注入随机源，决定起家
func WithRand(rng *rand.Rand) TableOption {
	return func(o *tableOptions) {
		o.rng = rng
	}
}

// WithAgent 指定座位的代理
func WithAgent(seat int32, kind string, agent Agent) TableOption {
	return func(o *tableOptions) {
		o.agents[seat] = agent
		o.kinds[seat] = kind
	}
}

// Table 一场对局的协调者，所有状态变更都经过 Step/NextHand
type Table struct {
	id        string
	engine    RulesEngine
	match     *matchbase.Match
	players   [mahjong.NP4]*Player
	hand      *hand
	gameMutex sync.Mutex // 保证同一时刻只有一个步进
	broken    error
}

// NewTable 校验配置并按配置创建代理；座位0之外按 opponents 顺序分配
func NewTable(id string, conf *matchbase.Config, engine RulesEngine, opts ...TableOption) (*Table, error) {
	if engine == nil {
		return nil, errors.New("game: nil rules engine")
	}
	options := &tableOptions{
		agents: make(map[int32]Agent),
		kinds:  make(map[int32]string),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.rng == nil && conf != nil {
		options.rng = rand.New(rand.NewSource(conf.Seed))
	}
	match, err := matchbase.NewMatch(conf, options.rng)
	if err != nil {
		return nil, err
	}

	t := &Table{
		id:     id,
		engine: engine,
		match:  match,
	}
	for seat := int32(0); seat < mahjong.NP4; seat++ {
		kind, agent := options.kinds[seat], options.agents[seat]
		if agent == nil {
			kind = AgentRandom
			if seat > 0 && int(seat) <= len(conf.Opponents) {
				kind = conf.Opponents[seat-1]
			}
			agent, err = CreateAgent(kind, rand.New(rand.NewSource(conf.Seed+int64(seat)+1)))
			if err != nil {
				return nil, fmt.Errorf("%w: seat %d: %v", matchbase.ErrInvalidConfig, seat, err)
			}
		}
		t.players[seat] = NewPlayer(seat, kind, agent)
	}
	return t, nil
}

func (t *Table) ID() string {
	return t.id
}

// Start 选定起家并开始第一局
func (t *Table) Start() error {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if err := t.match.Start(); err != nil {
		return err
	}
	return t.startHand()
}

func (t *Table) startHand() error {
	s := t.match.State()
	if err := t.engine.Reset(s.Dealer, s.Wind); err != nil {
		return t.fail(fmt.Errorf("reset hand %d: %w", s.HandCount, err))
	}
	t.hand = newHand()
	if _, err := t.hand.refresh(t.engine); err != nil {
		return t.fail(err)
	}
	logger.Log.Infof("table %s hand %d start: dealer %d, wind %s, honba %d, sticks %d",
		t.id, s.HandCount, s.Dealer, s.Wind, s.Honba, s.RiichiSticks)
	return nil
}

// fail 引擎已步进后出错，状态无法回滚，对局不可继续
func (t *Table) fail(err error) error {
	logger.Log.Errorf("table %s stopped: %v", t.id, err)
	t.broken = err
	return err
}

func (t *Table) check() error {
	if t.broken != nil {
		return fmt.Errorf("%w: %v", ErrTableBroken, t.broken)
	}
	if t.match.IsTerminated() {
		return ErrTerminated
	}
	if t.hand == nil {
		return fmt.Errorf("%w: match not started", mahjong.ErrInvariant)
	}
	return nil
}

// Step 当前玩家执行一个动作
func (t *Table) Step(action int) error {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if err := t.check(); err != nil {
		return err
	}
	if t.engine.IsHandOver() {
		return ErrHandOver
	}

	seat := t.engine.CurrentPlayer()
	if !slices.Contains(t.engine.LegalActions(seat), action) {
		return fmt.Errorf("%w: seat %d cannot %s", ErrIllegalAction, seat, mahjong.GetOperateName(action))
	}

	h := t.hand
	if mahjong.IsForwardCall(action) {
		req := mahjong.CallRequest{Operate: action, Turn: h.tracker.CurrentTurn(), From: h.tracker.LastActor()}
		if err := h.ledger.Record(seat, req); err != nil {
			return t.fail(err)
		}
	}

	if err := t.engine.Step(seat, action); err != nil {
		return t.fail(fmt.Errorf("%w: engine rejected %s from seat %d: %v", mahjong.ErrInvariant, mahjong.GetOperateName(action), seat, err))
	}
	before, err := h.refresh(t.engine)
	if err != nil {
		return t.fail(err)
	}
	if err := h.afterStep(seat, action, before); err != nil {
		return t.fail(err)
	}

	if t.engine.IsHandOver() {
		return t.settle()
	}
	return nil
}

func (t *Table) settle() error {
	raw, err := t.engine.Payoffs()
	if err != nil {
		return t.fail(fmt.Errorf("%w: payoffs: %v", mahjong.ErrInvariant, err))
	}
	payoffs, err := t.match.CompleteHand(t.hand.result(raw))
	if err != nil {
		return t.fail(err)
	}
	t.hand.payoffs = &payoffs
	return nil
}

// NextHand 一局结束后决定连庄或轮庄；返回 false 表示对局结束
func (t *Table) NextHand() (bool, error) {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if err := t.check(); err != nil {
		return false, err
	}
	if t.hand.payoffs == nil {
		return false, ErrHandInProgress
	}

	s := t.match.State()
	h := t.hand
	dealerTenpai := len(h.winners) == 0 && mahjong.IsTenpai(h.snapshots[s.Dealer])
	keep := matchbase.DealerKeeps(h.winners, s.Dealer, dealerTenpai)
	next, err := t.match.Rotate(keep, len(h.winners) == 0)
	if err != nil {
		return false, t.fail(err)
	}
	if !next {
		r, err := t.match.FinalRanking()
		if err != nil {
			return false, t.fail(err)
		}
		logger.Log.Infof("table %s final ranking: seats %v, scores %v", t.id, r.Seats, r.Scores)
		return false, nil
	}
	return true, t.startHand()
}

// Decision 当前玩家的决策输入
type Decision struct {
	Seat        int32
	Agent       Agent
	Observation []float32
	Legal       []int
}

// Decision 读取当前待决策的玩家
func (t *Table) Decision() (*Decision, error) {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if err := t.check(); err != nil {
		return nil, err
	}
	if t.engine.IsHandOver() {
		return nil, ErrHandOver
	}
	seat := t.engine.CurrentPlayer()
	if seat < 0 || seat >= mahjong.NP4 {
		return nil, t.fail(fmt.Errorf("%w: current player %d", mahjong.ErrInvariant, seat))
	}
	return &Decision{
		Seat:        seat,
		Agent:       t.players[seat].Agent(),
		Observation: t.engine.Observation(seat),
		Legal:       slices.Clone(t.engine.LegalActions(seat)),
	}, nil
}

// State 对局状态副本
func (t *Table) State() matchbase.MatchState {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	return t.match.State()
}

func (t *Table) IsTerminated() bool {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	return t.match.IsTerminated()
}

// IsHandOver 本局已结算，等待 NextHand
func (t *Table) IsHandOver() bool {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	return t.hand != nil && t.hand.payoffs != nil
}

// Broken 导致对局停止的错误
func (t *Table) Broken() error {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	return t.broken
}

func (t *Table) CurrentPlayer() int32 {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if t.hand == nil {
		return mahjong.SeatNull
	}
	return t.engine.CurrentPlayer()
}

// Turn 当前巡目和最后行动者
func (t *Table) Turn() (int32, int32) {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if t.hand == nil {
		return 0, mahjong.SeatNull
	}
	return t.hand.tracker.CurrentTurn(), t.hand.tracker.LastActor()
}

// Payoffs 本局调整后的得失，局结束前返回 false
func (t *Table) Payoffs() ([mahjong.NP4]int64, bool) {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if t.hand == nil || t.hand.payoffs == nil {
		return [mahjong.NP4]int64{}, false
	}
	return *t.hand.payoffs, true
}

// Winners 本局和牌者
func (t *Table) Winners() []int32 {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	if t.hand == nil {
		return nil
	}
	return slices.Clone(t.hand.winners)
}

// Ranking 终局顺位
func (t *Table) Ranking() (*matchbase.Ranking, error) {
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	return t.match.FinalRanking()
}

func (t *Table) revealed(seat int32, p *mahjong.PlayerSnapshot) bool {
	if p.Riichi {
		return true
	}
	if len(t.hand.winners) > 0 {
		return slices.Contains(t.hand.winners, seat)
	}
	return mahjong.IsTenpai(p)
}

// Player 座位的展示状态
func (t *Table) Player(seat int32) (*PlayerView, error) {
	if seat < 0 || seat >= mahjong.NP4 {
		return nil, fmt.Errorf("seat %d out of range", seat)
	}
	t.gameMutex.Lock()
	defer t.gameMutex.Unlock()
	s := t.match.State()
	view := &PlayerView{
		Seat:         seat,
		Kind:         t.players[seat].Kind,
		Score:        s.Scores[seat],
		DisplayScore: s.Scores[seat] + t.match.Config().StartPoints,
		IsDealer:     s.Dealer == seat,
	}
	if t.hand == nil {
		return view, nil
	}
	p := t.hand.snapshots[seat]
	view.Snapshot = p.Clone()
	view.Calls = t.hand.records.Events(seat)
	view.IsCurrent = t.hand.payoffs == nil && t.engine.CurrentPlayer() == seat
	if p != nil {
		view.Wind = p.Wind
		view.Waits = mahjong.RealWaits(p)
		// 立直棒在场上时显示扣除
		if p.Riichi && t.hand.payoffs == nil {
			view.DisplayScore -= 1000
		}
		view.Revealed = t.hand.payoffs != nil && t.revealed(seat, p)
	}
	return view, nil
}
