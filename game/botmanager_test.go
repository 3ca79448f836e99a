package game_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/kevin-chtw/tw_riichi/game"
	"github.com/kevin-chtw/tw_riichi/mahjong"
	"github.com/kevin-chtw/tw_riichi/matchbase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type badAgent struct {
	action int
	err    error
}

func (b badAgent) SelectAction(context.Context, []float32, []int) (int, error) {
	return b.action, b.err
}

func runMatch(t *testing.T, conf *matchbase.Config, opts ...game.TableOption) (*game.Table, *tsumoEngine) {
	t.Helper()
	engine := &tsumoEngine{}
	table := newTable(t, conf, engine, opts...)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, game.NewBotManager(table, rand.New(rand.NewSource(5))).Run(ctx))
	return table, engine
}

func TestBotManagerRunsMatch(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.Hands = 4
	conf.MoreGames = false
	table, engine := runMatch(t, conf)

	assert.True(t, table.IsTerminated())
	assert.Equal(t, 4, engine.resets)
	s := table.State()
	assert.Equal(t, int32(3), s.HandCount)
	assert.Equal(t, [mahjong.NP4]int64{}, s.Scores)

	r, err := table.Ranking()
	require.NoError(t, err)
	assert.Equal(t, s.StartDealer, r.Seats[0])
	assert.Zero(t, r.Tenths[0]+r.Tenths[1]+r.Tenths[2]+r.Tenths[3])

	// 终局后不再接受动作
	assert.True(t, errors.Is(table.Step(mahjong.OperateTsumo), game.ErrTerminated))
}

func TestBotManagerSubstitutesIllegal(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.Hands = 2
	conf.MoreGames = false
	var opts []game.TableOption
	for seat := int32(0); seat < mahjong.NP4; seat++ {
		opts = append(opts, game.WithAgent(seat, "bad", badAgent{action: 99}))
	}
	table, engine := runMatch(t, conf, opts...)
	assert.True(t, table.IsTerminated())
	assert.Equal(t, 2, engine.resets)
	assert.NoError(t, table.Broken())
}

func TestBotManagerAgentError(t *testing.T) {
	conf := matchbase.DefaultConfig()
	conf.Hands = 1
	conf.MoreGames = false
	table, _ := runMatch(t, conf, game.WithAgent(1, "bad", badAgent{err: errors.New("model unavailable")}),
		game.WithAgent(2, "bad", badAgent{err: errors.New("model unavailable")}))
	assert.True(t, table.IsTerminated())
}

func TestBotManagerCancel(t *testing.T) {
	engine := newScriptEngine(
		frame{current: 0, legal: []int{4, 5}, texts: texts()},
		frame{current: 1, legal: []int{6}, texts: texts(text("5m1h", "", false, ""))},
	)
	human := game.NewManualPlayer()
	table := newTable(t, nil, engine,
		game.WithAgent(0, game.AgentManual, human),
		game.WithAgent(1, game.AgentManual, game.NewManualPlayer()))
	bm := game.NewBotManager(table, nil)

	// 等待玩家输入时取消，状态保持不变
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := bm.Run(ctx)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Empty(t, engine.steps)
	assert.NoError(t, table.Broken())

	ctx2, cancel2 := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bm.Run(ctx2) }()
	require.NoError(t, human.Submit(context.Background(), 5))

	require.Eventually(t, func() bool {
		return table.CurrentPlayer() == 1
	}, time.Second, time.Millisecond)
	cancel2()
	assert.True(t, errors.Is(<-done, context.Canceled))
	assert.Equal(t, []step{{0, 5}}, engine.steps)
}

func TestBotManagerTimeout(t *testing.T) {
	engine := newScriptEngine(
		frame{current: 0, legal: []int{4}, texts: texts()},
		frame{over: true, payoffs: []int64{0, 0, 0, 0}, texts: texts(text("5m1h", "", false, ""))},
	)
	conf := matchbase.DefaultConfig()
	conf.Hands = 1
	conf.MoreGames = false
	table := newTable(t, conf, engine, game.WithAgent(0, game.AgentManual, game.NewManualPlayer()))

	bm := game.NewBotManager(table, nil)
	bm.SetTimeout(10 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bm.Run(ctx))
	assert.Equal(t, []step{{0, 4}}, engine.steps)
	assert.True(t, table.IsTerminated())
}

func TestRandomBot(t *testing.T) {
	bot := game.NewRandomBot(rand.New(rand.NewSource(1)))
	for i := 0; i < 20; i++ {
		a, err := bot.SelectAction(context.Background(), nil, []int{3, mahjong.OperatePassResponse})
		require.NoError(t, err)
		assert.Equal(t, 3, a)
	}
	a, err := bot.SelectAction(context.Background(), nil, []int{mahjong.OperatePassResponse})
	require.NoError(t, err)
	assert.Equal(t, mahjong.OperatePassResponse, a)

	_, err = bot.SelectAction(context.Background(), nil, nil)
	assert.True(t, errors.Is(err, game.ErrNoLegalAction))
}

func TestAgentRegistry(t *testing.T) {
	assert.Contains(t, game.AgentKinds(), game.AgentRandom)
	_, err := game.CreateAgent("ddqn", nil)
	assert.Error(t, err)

	game.Register("fixed", func(*rand.Rand) game.Agent { return badAgent{action: 1} })
	agent, err := game.CreateAgent("fixed", nil)
	require.NoError(t, err)
	a, err := agent.SelectAction(context.Background(), nil, []int{1})
	require.NoError(t, err)
	assert.Equal(t, 1, a)
}

func TestTableManager(t *testing.T) {
	tm := game.NewTableManager()
	table, err := game.NewTable("a", matchbase.DefaultConfig(), newScriptEngine())
	require.NoError(t, err)
	require.NoError(t, tm.Store(table))
	assert.Error(t, tm.Store(table))
	assert.Same(t, table, tm.Get("a"))
	assert.Equal(t, []string{"a"}, tm.IDs())

	tm.Delete("a")
	assert.Nil(t, tm.Get("a"))
}
