package game

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

// 代理类型
const (
	AgentRandom = "random"
	AgentFirst  = "first"
	AgentManual = "manual"
)

type NewAgent func(rng *rand.Rand) Agent

var (
	fnMu sync.RWMutex
	fn   = map[string]NewAgent{
		AgentRandom: func(rng *rand.Rand) Agent { return NewRandomBot(rng) },
		AgentFirst:  func(*rand.Rand) Agent { return FirstLegalBot{} },
		AgentManual: func(*rand.Rand) Agent { return NewManualPlayer() },
	}
)

// Register 注册代理类型，例如加载好的策略模型
func Register(kind string, f NewAgent) {
	fnMu.Lock()
	defer fnMu.Unlock()
	fn[kind] = f
}

func CreateAgent(kind string, rng *rand.Rand) (Agent, error) {
	fnMu.RLock()
	f, ok := fn[kind]
	fnMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown agent %q", kind)
	}
	return f(rng), nil
}

// AgentKinds 已注册的代理类型
func AgentKinds() []string {
	fnMu.RLock()
	defer fnMu.RUnlock()
	kinds := make([]string, 0, len(fn))
	for k := range fn {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
