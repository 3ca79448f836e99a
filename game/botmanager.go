package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime/debug"
	"slices"
	"time"

	"github.com/topfreegames/pitaya/v3/pkg/logger"
)

// BotManager 驱动一张桌子直到终局：代理在独立的 goroutine 中决策，动作串行提交
type BotManager struct {
	table    *Table
	fallback *rand.Rand
	timeout  time.Duration
}

func NewBotManager(table *Table, fallback *rand.Rand) *BotManager {
	if fallback == nil {
		fallback = rand.New(rand.NewSource(0))
	}
	return &BotManager{
		table:    table,
		fallback: fallback,
	}
}

// SetTimeout 单次决策限时，超时随机选一个合法动作，0 为不限时
func (m *BotManager) SetTimeout(timeout time.Duration) {
	m.timeout = timeout
}

// Run 取消时停在两步之间，可以再次 Run 继续
func (m *BotManager) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.table.IsTerminated() {
			return nil
		}
		if m.table.IsHandOver() {
			if _, err := m.table.NextHand(); err != nil {
				return err
			}
			continue
		}
		if err := m.step(ctx); err != nil {
			return err
		}
	}
}

func (m *BotManager) step(ctx context.Context) error {
	d, err := m.table.Decision()
	if err != nil {
		return err
	}
	action, err := m.decide(ctx, d)
	if err != nil {
		return err
	}
	err = m.table.Step(action)
	if errors.Is(err, ErrIllegalAction) {
		substitute := m.randomLegal(d.Legal)
		logger.Log.Warnf("seat %d: %v, substitute %d", d.Seat, err, substitute)
		err = m.table.Step(substitute)
	}
	return err
}

type decision struct {
	action int
	err    error
}

// decide 决策期间不持有桌子的锁
func (m *BotManager) decide(ctx context.Context, d *Decision) (int, error) {
	if len(d.Legal) == 0 {
		return 0, fmt.Errorf("%w: seat %d", ErrNoLegalAction, d.Seat)
	}
	dctx := ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	ch := make(chan decision, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Errorf("panic recovered %s\n %s", r, string(debug.Stack()))
				ch <- decision{err: fmt.Errorf("agent panic: %v", r)}
			}
		}()
		a, err := d.Agent.SelectAction(dctx, d.Observation, d.Legal)
		ch <- decision{action: a, err: err}
	}()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-dctx.Done():
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		action := m.randomLegal(d.Legal)
		logger.Log.Warnf("seat %d timed out after %s, substitute %d", d.Seat, m.timeout, action)
		return action, nil
	case r := <-ch:
		if r.err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			action := m.randomLegal(d.Legal)
			logger.Log.Warnf("seat %d agent failed: %v, substitute %d", d.Seat, r.err, action)
			return action, nil
		}
		if !slices.Contains(d.Legal, r.action) {
			action := m.randomLegal(d.Legal)
			logger.Log.Warnf("seat %d chose illegal action %d, substitute %d", d.Seat, r.action, action)
			return action, nil
		}
		return r.action, nil
	}
}

func (m *BotManager) randomLegal(legal []int) int {
	return legal[m.fallback.Intn(len(legal))]
}
