package game

import (
	"github.com/kevin-chtw/tw_riichi/mahjong"
)

// Player 座位上的玩家
type Player struct {
	Seat  int32
	Kind  string // 代理类型
	agent Agent
}

// NewPlayer 创建新玩家实例
func NewPlayer(seat int32, kind string, agent Agent) *Player {
	return &Player{
		Seat:  seat,
		Kind:  kind,
		agent: agent,
	}
}

func (p *Player) Agent() Agent {
	return p.agent
}

// PlayerView 展示用的只读玩家状态
type PlayerView struct {
	Seat         int32
	Kind         string
	Wind         mahjong.Wind
	Score        int64 // 相对起始点数
	DisplayScore int64 // 显示点数，扣除场上的立直棒
	IsDealer     bool
	IsCurrent    bool
	Snapshot     *mahjong.PlayerSnapshot
	Calls        []mahjong.CallEvent
	Waits        []string
	Revealed     bool // 局结束后公开手牌：和牌者、流局听牌者、立直者
}
