package game_test

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kevin-chtw/tw_riichi/mahjong"
)

// frame 引擎在一次 Reset/Step 之后的状态
type frame struct {
	current int32
	legal   []int
	texts   [mahjong.NP4]string
	over    bool
	payoffs []int64
}

// text 构造玩家文本
func text(river, calls string, riichi bool, tenpai string) string {
	var b strings.Builder
	b.WriteString("Wind: east\nHand: 1m 2m 3m\n")
	fmt.Fprintf(&b, "River: %s\nCalls: %s\n", river, calls)
	if riichi {
		b.WriteString("Riichi: 1\n")
	} else {
		b.WriteString("Riichi: 0\n")
	}
	fmt.Fprintf(&b, "Tenpai: %s\n", tenpai)
	return b.String()
}

func texts(rows ...string) [mahjong.NP4]string {
	var t [mahjong.NP4]string
	for i := range t {
		t[i] = text("", "", false, "")
		if i < len(rows) && rows[i] != "" {
			t[i] = rows[i]
		}
	}
	return t
}

type step struct {
	seat   int32
	action int
}

type reset struct {
	dealer int32
	wind   mahjong.Wind
}

// scriptEngine 按脚本逐帧推进
type scriptEngine struct {
	frames []frame
	pos    int
	steps  []step
	resets []reset
}

func newScriptEngine(frames ...frame) *scriptEngine {
	return &scriptEngine{frames: frames, pos: -1}
}

func (e *scriptEngine) push(frames ...frame) {
	e.frames = append(e.frames, frames...)
}

func (e *scriptEngine) advance() error {
	if e.pos+1 >= len(e.frames) {
		return errors.New("script exhausted")
	}
	e.pos++
	return nil
}

func (e *scriptEngine) cur() frame {
	if e.pos < 0 {
		return frame{current: -1}
	}
	return e.frames[e.pos]
}

func (e *scriptEngine) Reset(dealer int32, wind mahjong.Wind) error {
	e.resets = append(e.resets, reset{dealer, wind})
	return e.advance()
}

func (e *scriptEngine) Step(seat int32, action int) error {
	e.steps = append(e.steps, step{seat, action})
	return e.advance()
}

func (e *scriptEngine) CurrentPlayer() int32 {
	if e.cur().over {
		return -1
	}
	return e.cur().current
}

func (e *scriptEngine) IsHandOver() bool {
	return e.cur().over
}

func (e *scriptEngine) LegalActions(seat int32) []int {
	if seat != e.CurrentPlayer() {
		return nil
	}
	return e.cur().legal
}

func (e *scriptEngine) Observation(seat int32) []float32 {
	return []float32{float32(seat)}
}

func (e *scriptEngine) PlayerText(seat int32) (string, error) {
	return e.cur().texts[seat], nil
}

func (e *scriptEngine) Payoffs() ([]int64, error) {
	if !e.cur().over {
		return nil, errors.New("hand not over")
	}
	return e.cur().payoffs, nil
}

// tsumoEngine 每局由庄家下家自摸，用于跑完整场对局
type tsumoEngine struct {
	dealer int32
	over   bool
	resets int
}

func (e *tsumoEngine) Reset(dealer int32, _ mahjong.Wind) error {
	e.dealer, e.over = dealer, false
	e.resets++
	return nil
}

func (e *tsumoEngine) winner() int32 {
	return mahjong.GetNextSeat(e.dealer, 1, mahjong.NP4)
}

func (e *tsumoEngine) Step(seat int32, action int) error {
	if seat == e.winner() && action == mahjong.OperatePassResponse {
		return nil
	}
	if seat != e.winner() || action != mahjong.OperateTsumo {
		return fmt.Errorf("unexpected %d from seat %d", action, seat)
	}
	e.over = true
	return nil
}

func (e *tsumoEngine) CurrentPlayer() int32 {
	if e.over {
		return -1
	}
	return e.winner()
}

func (e *tsumoEngine) IsHandOver() bool {
	return e.over
}

func (e *tsumoEngine) LegalActions(int32) []int {
	return []int{mahjong.OperateTsumo, mahjong.OperatePassResponse}
}

func (e *tsumoEngine) Observation(int32) []float32 {
	return nil
}

func (e *tsumoEngine) PlayerText(int32) (string, error) {
	return text("", "", false, ""), nil
}

func (e *tsumoEngine) Payoffs() ([]int64, error) {
	payoffs := []int64{-1000, -1000, -1000, -1000}
	payoffs[e.winner()] = 3000
	return payoffs, nil
}
