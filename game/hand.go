package game

import (
	"fmt"
	"slices"

	"github.com/kevin-chtw/tw_riichi/mahjong"
	"github.com/kevin-chtw/tw_riichi/matchbase"
)

// hand 一局的上下文，局结束后丢弃
type hand struct {
	ledger    *mahjong.Ledger
	tracker   *mahjong.Tracker
	records   *mahjong.CallRecords
	resolver  *mahjong.Resolver
	snapshots [mahjong.NP4]*mahjong.PlayerSnapshot
	winners   []int32
	loser     int32
	selfDrawn bool
	payoffs   *[mahjong.NP4]int64
}

func newHand() *hand {
	h := &hand{
		ledger:  mahjong.NewLedger(),
		tracker: mahjong.NewTracker(),
		records: mahjong.NewCallRecords(),
		loser:   mahjong.SeatNull,
	}
	h.resolver = mahjong.NewResolver(h.ledger, h.tracker, h.records)
	return h
}

// refresh 四家快照整体替换，返回替换前的快照
func (h *hand) refresh(engine RulesEngine) ([mahjong.NP4]*mahjong.PlayerSnapshot, error) {
	var next [mahjong.NP4]*mahjong.PlayerSnapshot
	for seat := range next {
		text, err := engine.PlayerText(int32(seat))
		if err != nil {
			return h.snapshots, fmt.Errorf("player text of seat %d: %w", seat, err)
		}
		p, err := mahjong.ParsePlayerText(text)
		if err != nil {
			return h.snapshots, fmt.Errorf("seat %d: %w", seat, err)
		}
		next[seat] = p
	}
	prev := h.snapshots
	h.snapshots = next
	h.tracker.Refresh(next)
	return prev, nil
}

// afterStep 动作执行后的对账：鸣牌确认、暗杠加杠记录、和牌记录
func (h *hand) afterStep(seat int32, action int, before [mahjong.NP4]*mahjong.PlayerSnapshot) error {
	if action == mahjong.OperateRon {
		h.winners = append(h.winners, seat)
		h.loser = h.tracker.LastActor()
	}
	// 荣和后被和的舍牌不再参与鸣牌确认
	if h.loser != mahjong.SeatNull {
		h.markWon()
	} else if _, err := h.resolver.Reconcile(before, h.snapshots); err != nil {
		return err
	}
	switch action {
	case mahjong.OperateAnkan:
		if _, err := h.resolver.RecordConcealedQuad(seat, before[seat], h.snapshots[seat]); err != nil {
			return err
		}
	case mahjong.OperateKakan:
		if _, err := h.resolver.RecordAddedQuad(seat, before[seat], h.snapshots[seat]); err != nil {
			return err
		}
	case mahjong.OperateTsumo:
		h.winners = append(h.winners, seat)
		h.selfDrawn = true
	}
	return nil
}

func (h *hand) markWon() {
	d, ok := h.resolver.ResolveWin(h.tracker.CurrentTurn())
	if !ok {
		return
	}
	p := h.snapshots[d.Seat]
	for i := range p.River {
		if p.River[i].Turn == d.Turn {
			p.River[i].State = mahjong.DiscardWon
		}
	}
}

func (h *hand) riichiSeats() []int32 {
	var seats []int32
	for seat, p := range h.snapshots {
		if p != nil && p.Riichi {
			seats = append(seats, int32(seat))
		}
	}
	return seats
}

// result 一局结束时交给结算的结果
func (h *hand) result(payoffs []int64) *matchbase.HandResult {
	res := &matchbase.HandResult{
		Payoffs:     payoffs,
		Winners:     slices.Clone(h.winners),
		Loser:       mahjong.SeatNull,
		SelfDrawn:   h.selfDrawn,
		RiichiSeats: h.riichiSeats(),
	}
	if !h.selfDrawn && len(h.winners) > 0 {
		res.Loser = h.loser
	}
	return res
}
