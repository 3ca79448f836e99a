package mahjong

import "fmt"

// CallRequest 尚未确认的鸣牌请求
type CallRequest struct {
	Operate int
	Turn    int32
	From    int32
}

// Ledger 当前决策窗口内的鸣牌请求，每个玩家至多一条
type Ledger struct {
	requests map[int32]CallRequest
	turn     int32
}

func NewLedger() *Ledger {
	return &Ledger{requests: make(map[int32]CallRequest)}
}

// Record 记录请求；巡目不同的新请求会先清空旧窗口
func (l *Ledger) Record(seat int32, req CallRequest) error {
	if seat < 0 || seat >= NP4 {
		return fmt.Errorf("%w: call request from seat %d", ErrInvariant, seat)
	}
	if !IsForwardCall(req.Operate) {
		return fmt.Errorf("%w: %s is not a call on a discard", ErrInvariant, GetOperateName(req.Operate))
	}
	if len(l.requests) > 0 && l.turn != req.Turn {
		l.Clear()
	}
	l.turn = req.Turn
	l.requests[seat] = req
	return nil
}

func (l *Ledger) Empty() bool {
	return len(l.requests) == 0
}

func (l *Ledger) Len() int {
	return len(l.requests)
}

// Turn 当前窗口的巡目，仅在非空时有效
func (l *Ledger) Turn() int32 {
	return l.turn
}

func (l *Ledger) Get(seat int32) (CallRequest, bool) {
	req, ok := l.requests[seat]
	return req, ok
}

// Winner 优先级最高的请求；同优先级并存视为状态错误
func (l *Ledger) Winner() (int32, CallRequest, error) {
	if len(l.requests) == 0 {
		return SeatNull, CallRequest{}, fmt.Errorf("%w: empty call ledger", ErrInvariant)
	}
	best, bestPriority, tied := SeatNull, PriorityNone, false
	for seat := int32(0); seat < NP4; seat++ {
		req, ok := l.requests[seat]
		if !ok {
			continue
		}
		p := CallPriority(req.Operate)
		switch {
		case p > bestPriority:
			best, bestPriority, tied = seat, p, false
		case p == bestPriority:
			tied = true
		}
	}
	if tied {
		return SeatNull, CallRequest{}, fmt.Errorf("%w: contested calls share priority %d at turn %d", ErrInvariant, bestPriority, l.turn)
	}
	return best, l.requests[best], nil
}

func (l *Ledger) Clear() {
	clear(l.requests)
	l.turn = 0
}
