package service

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/kevin-chtw/tw_riichi/game"
	"github.com/kevin-chtw/tw_riichi/mahjong"
	"github.com/kevin-chtw/tw_riichi/utils"
	"github.com/topfreegames/pitaya/v3/pkg/component"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
	"google.golang.org/protobuf/types/known/anypb"
	"google.golang.org/protobuf/types/known/structpb"
)

var ErrUnknownOp = errors.New("unknown view op")

type viewHandler func(*View, *game.Table, *structpb.Struct) (*structpb.Struct, error)

// View 只读的牌桌展示服务
type View struct {
	component.Base
	tables   *game.TableManager
	handlers map[string]viewHandler
}

func NewView(tables *game.TableManager) *View {
	return &View{
		tables:   tables,
		handlers: make(map[string]viewHandler),
	}
}

// Init 组件初始化
func (v *View) Init() {
	v.handlers["state"] = (*View).state
	v.handlers["player"] = (*View).player
	v.handlers["ranking"] = (*View).ranking
}

// Message 请求 {"op":..., "table":..., "seat":...}
func (v *View) Message(ctx context.Context, req *structpb.Struct) (rsp *anypb.Any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Errorf("panic recovered %s\n %s", r, string(debug.Stack()))
			err = fmt.Errorf("view panic: %v", r)
		}
	}()
	if req == nil {
		return nil, errors.New("nil request")
	}

	op := utils.GetString(req, "op")
	handler, ok := v.handlers[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	tableID := utils.GetString(req, "table")
	table := v.tables.Get(tableID)
	if table == nil {
		return nil, fmt.Errorf("table not found: %s", tableID)
	}

	s, err := handler(v, table, req)
	if err != nil {
		logger.Log.Warnf("view %s on table %s: %v", op, tableID, err)
		return nil, err
	}
	return utils.ToAny(s), nil
}

func (v *View) state(table *game.Table, _ *structpb.Struct) (*structpb.Struct, error) {
	s := table.State()
	turn, actor := table.Turn()
	m := map[string]any{
		"table":          table.ID(),
		"phase":          s.Phase.String(),
		"dealer":         s.Dealer,
		"start_dealer":   s.StartDealer,
		"wind":           s.Wind.String(),
		"hand_count":     s.HandCount,
		"honba":          s.Honba,
		"riichi_sticks":  s.RiichiSticks,
		"extra_hands":    s.ExtraHands,
		"scores":         utils.List(s.Scores[:]),
		"terminated":     s.Terminated,
		"current_player": table.CurrentPlayer(),
		"turn":           turn,
		"last_actor":     actor,
	}
	if payoffs, ok := table.Payoffs(); ok {
		m["payoffs"] = utils.List(payoffs[:])
		m["winners"] = utils.List(table.Winners())
	}
	if err := table.Broken(); err != nil {
		m["broken"] = err.Error()
	}
	return utils.ToStruct(m)
}

func (v *View) player(table *game.Table, req *structpb.Struct) (*structpb.Struct, error) {
	seat, ok := utils.GetInt32(req, "seat")
	if !ok {
		return nil, errors.New("missing seat")
	}
	p, err := table.Player(seat)
	if err != nil {
		return nil, err
	}

	// 指定 viewer 时只公开自己和局后亮牌的手牌
	viewer, hasViewer := utils.GetInt32(req, "viewer")
	visible := !hasViewer || viewer == seat || p.Revealed

	calls := make([]any, 0, len(p.Calls))
	for _, c := range p.Calls {
		calls = append(calls, map[string]any{
			"meld":     c.String(),
			"category": c.Category.String(),
			"from":     c.From,
		})
	}
	m := map[string]any{
		"seat":          p.Seat,
		"kind":          p.Kind,
		"wind":          p.Wind.String(),
		"score":         p.Score,
		"display_score": p.DisplayScore,
		"dealer":        p.IsDealer,
		"current":       p.IsCurrent,
		"calls":         calls,
		"revealed":      p.Revealed,
	}
	if snap := p.Snapshot; snap != nil {
		river := make([]any, 0, len(snap.River))
		for _, r := range snap.River {
			river = append(river, r.String())
		}
		m["river"] = river
		m["riichi"] = snap.Riichi
		m["hand_size"] = len(snap.Hand)
		if visible {
			m["hand"] = utils.List(snap.Hand)
			m["waits"] = utils.List(p.Waits)
			m["furiten"] = snap.Furiten()
		}
	}
	return utils.ToStruct(m)
}

func (v *View) ranking(table *game.Table, _ *structpb.Struct) (*structpb.Struct, error) {
	r, err := table.Ranking()
	if err != nil {
		return nil, err
	}
	ranks := make([]any, 0, mahjong.NP4)
	for i, seat := range r.Seats {
		ranks = append(ranks, map[string]any{
			"seat":  seat,
			"score": r.Scores[i],
		})
	}
	return utils.ToStruct(map[string]any{"ranks": ranks})
}
