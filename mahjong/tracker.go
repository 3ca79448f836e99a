package mahjong

// Discard 带座位的舍牌
type Discard struct {
	Seat int32
	RiverTile
}

// Tracker 由牌河推断当前巡目和最后行动者
type Tracker struct {
	currentTurn int32
	lastActor   int32
	history     []Discard
}

func NewTracker() *Tracker {
	return &Tracker{lastActor: SeatNull}
}

// Refresh 每次引擎步进后重新计算
func (t *Tracker) Refresh(snapshots [NP4]*PlayerSnapshot) {
	t.currentTurn, t.lastActor = 0, SeatNull
	t.history = t.history[:0]
	for seat, p := range snapshots {
		if p == nil {
			continue
		}
		for _, rt := range p.River {
			t.history = append(t.history, Discard{Seat: int32(seat), RiverTile: rt})
		}
		if last, ok := p.LastDiscard(); ok && (t.lastActor == SeatNull || last.Turn > t.currentTurn) {
			t.currentTurn, t.lastActor = last.Turn, int32(seat)
		}
	}
}

func (t *Tracker) CurrentTurn() int32 {
	return t.currentTurn
}

func (t *Tracker) LastActor() int32 {
	return t.lastActor
}

// DiscardAt 按座位顺序查找指定巡目的舍牌
func (t *Tracker) DiscardAt(turn int32) (Discard, bool) {
	for _, d := range t.history {
		if d.Turn == turn {
			return d, true
		}
	}
	return Discard{}, false
}

// MarkWon 标记指定巡目的舍牌被荣和
func (t *Tracker) MarkWon(turn int32) (Discard, bool) {
	for i := range t.history {
		if t.history[i].Turn == turn {
			t.history[i].State = DiscardWon
			return t.history[i], true
		}
	}
	return Discard{}, false
}

// History 所有舍牌，按座位和牌河顺序
func (t *Tracker) History() []Discard {
	h := make([]Discard, len(t.history))
	copy(h, t.history)
	return h
}
