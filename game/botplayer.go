package game

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"sync"

	"github.com/kevin-chtw/tw_riichi/mahjong"
)

var ErrNoLegalAction = errors.New("game: no legal action")

// RandomBot 在合法动作中均匀随机，有其他选择时不选"过"
type RandomBot struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomBot(rng *rand.Rand) *RandomBot {
	return &RandomBot{rng: rng}
}

func (b *RandomBot) SelectAction(_ context.Context, _ []float32, legal []int) (int, error) {
	choices := legal
	if len(legal) > 1 && slices.Contains(legal, mahjong.OperatePassResponse) {
		choices = slices.DeleteFunc(slices.Clone(legal), func(a int) bool {
			return a == mahjong.OperatePassResponse
		})
	}
	if len(choices) == 0 {
		return mahjong.OperateNone, ErrNoLegalAction
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return choices[b.rng.Intn(len(choices))], nil
}

// FirstLegalBot 总是选第一个合法动作
type FirstLegalBot struct{}

func (FirstLegalBot) SelectAction(_ context.Context, _ []float32, legal []int) (int, error) {
	if len(legal) == 0 {
		return mahjong.OperateNone, ErrNoLegalAction
	}
	return legal[0], nil
}

// ManualPlayer 由外部输入动作，例如人类玩家
type ManualPlayer struct {
	actions chan int
}

func NewManualPlayer() *ManualPlayer {
	return &ManualPlayer{actions: make(chan int, 1)}
}

// Submit 提交一个动作，等待当前决策取走
func (m *ManualPlayer) Submit(ctx context.Context, action int) error {
	select {
	case m.actions <- action:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *ManualPlayer) SelectAction(ctx context.Context, _ []float32, _ []int) (int, error) {
	select {
	case a := <-m.actions:
		return a, nil
	case <-ctx.Done():
		return mahjong.OperateNone, ctx.Err()
	}
}
