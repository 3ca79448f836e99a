package mahjong

import (
	"fmt"

	"github.com/topfreegames/pitaya/v3/pkg/logger"
)

// Resolver 根据牌河状态确认哪条鸣牌请求生效
type Resolver struct {
	ledger  *Ledger
	tracker *Tracker
	records *CallRecords
}

func NewResolver(ledger *Ledger, tracker *Tracker, records *CallRecords) *Resolver {
	return &Resolver{
		ledger:  ledger,
		tracker: tracker,
		records: records,
	}
}

// ResolveWin 舍牌被荣和，挂起的鸣牌请求全部作废，不产生副露
func (r *Resolver) ResolveWin(turn int32) (Discard, bool) {
	if !r.ledger.Empty() {
		logger.Log.Infof("calls at turn %d dropped by ron", r.ledger.Turn())
		r.ledger.Clear()
	}
	return r.tracker.MarkWon(turn)
}

// Reconcile 在快照刷新和巡目重算之后调用；返回本次确认的副露
func (r *Resolver) Reconcile(before, after [NP4]*PlayerSnapshot) (*CallEvent, error) {
	if r.ledger.Empty() {
		return nil, nil
	}
	turn := r.ledger.Turn()
	d, ok := r.tracker.DiscardAt(turn)
	if !ok {
		return nil, fmt.Errorf("%w: no discard at turn %d for pending calls", ErrInvariant, turn)
	}

	if d.State != DiscardCalled {
		if r.tracker.CurrentTurn() > turn {
			logger.Log.Warnf("calls on %s at turn %d superseded", d.Tile, turn)
			r.ledger.Clear()
		}
		return nil, nil
	}

	seat, req, err := r.ledger.Winner()
	if err != nil {
		return nil, err
	}
	notation, ok := newestMeld(before[seat], after[seat])
	if !ok {
		return nil, fmt.Errorf("%w: seat %d won %s but has no new meld", ErrInvariant, seat, GetOperateName(req.Operate))
	}
	event := CallEvent{
		Notation: notation,
		Category: CallCategoryOf(req.Operate),
		From:     req.From,
	}
	r.records.Append(seat, event)
	r.ledger.Clear()
	logger.Log.Infof("seat %d %s %s from seat %d", seat, event.Category, notation, req.From)
	return &event, nil
}

// RecordConcealedQuad 暗杠立即生效，来源为自己
func (r *Resolver) RecordConcealedQuad(seat int32, before, after *PlayerSnapshot) (*CallEvent, error) {
	notation, ok := newestMeld(before, after)
	if !ok {
		return nil, fmt.Errorf("%w: seat %d declared a concealed quad without a new meld", ErrInvariant, seat)
	}
	event := CallEvent{
		Notation: notation,
		Category: CallConcealedQuad,
		From:     seat,
	}
	r.records.Append(seat, event)
	return &event, nil
}

// RecordAddedQuad 加杠：对比动作前的副露找到新杠，再把对应的碰升级
func (r *Resolver) RecordAddedQuad(seat int32, before, after *PlayerSnapshot) (string, error) {
	notation, ok := newestMeld(before, after)
	if !ok {
		return "", fmt.Errorf("%w: seat %d declared an added quad without a changed meld", ErrInvariant, seat)
	}
	tiles := MeldTiles(notation)
	if len(tiles) == 0 {
		return "", fmt.Errorf("%w: meld %q has no tiles", ErrInvariant, notation)
	}
	if err := r.records.Promote(seat, tiles[0]); err != nil {
		return "", err
	}
	return tiles[0], nil
}

// newestMeld 新出现的副露；找不到差异时取最后一个
func newestMeld(before, after *PlayerSnapshot) (string, bool) {
	if after == nil || len(after.Calls) == 0 {
		return "", false
	}
	if before == nil {
		return after.Calls[len(after.Calls)-1], true
	}
	seen := make(map[string]int, len(before.Calls))
	for _, c := range before.Calls {
		seen[c]++
	}
	for _, c := range after.Calls {
		if seen[c] > 0 {
			seen[c]--
			continue
		}
		return c, true
	}
	if len(after.Calls) > len(before.Calls) {
		return after.Calls[len(after.Calls)-1], true
	}
	return "", false
}
