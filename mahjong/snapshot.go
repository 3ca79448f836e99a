package mahjong

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DiscardState 舍牌状态
type DiscardState int

const (
	DiscardPresent DiscardState = iota // 仍在牌河
	DiscardCalled                      // 被鸣走
	DiscardWon                         // 被荣和
)

func (s DiscardState) String() string {
	switch s {
	case DiscardCalled:
		return "called"
	case DiscardWon:
		return "won"
	}
	return "present"
}

// 牌河标记
const (
	markFromHand = 'h'
	markCalled   = '-'
	markRiichi   = 'r'
)

// RiverTile 牌河中的一张舍牌
type RiverTile struct {
	Tile     string
	Turn     int32
	FromHand bool // 手切
	State    DiscardState
	Riichi   bool // 立直宣言牌
}

// ParseRiverTile 解析 "<牌><巡目><标记>"，如 "1m12h-"
func ParseRiverTile(token string) (RiverTile, error) {
	if len(token) < 3 || !IsTile(token[:2]) {
		return RiverTile{}, fmt.Errorf("%w: river tile %q", ErrMalformedSnapshot, token)
	}
	rt := RiverTile{Tile: token[:2]}
	var digits strings.Builder
	for i := 2; i < len(token); i++ {
		switch c := token[i]; {
		case c >= '0' && c <= '9':
			digits.WriteByte(c)
		case c == markFromHand:
			rt.FromHand = true
		case c == markCalled:
			rt.State = DiscardCalled
		case c == markRiichi:
			rt.Riichi = true
		default:
			return RiverTile{}, fmt.Errorf("%w: river tile %q", ErrMalformedSnapshot, token)
		}
	}
	turn, err := strconv.ParseInt(digits.String(), 10, 32)
	if err != nil {
		return RiverTile{}, fmt.Errorf("%w: river tile %q", ErrMalformedSnapshot, token)
	}
	rt.Turn = int32(turn)
	return rt, nil
}

func (r RiverTile) String() string {
	s := r.Tile + strconv.FormatInt(int64(r.Turn), 10)
	if r.FromHand {
		s += string(markFromHand)
	}
	if r.State != DiscardPresent {
		s += string(markCalled)
	}
	if r.Riichi {
		s += string(markRiichi)
	}
	return s
}

// PlayerSnapshot 每一步由引擎文本重建的玩家状态，只读
type PlayerSnapshot struct {
	Wind             Wind
	Hand             []string
	River            []RiverTile
	Calls            []string
	Riichi           bool
	RiichiFuriten    bool
	DiscardFuriten   bool
	TemporaryFuriten bool
	Waits            []string // 听牌
}

// Furiten 任一振听
func (p *PlayerSnapshot) Furiten() bool {
	return p.RiichiFuriten || p.DiscardFuriten || p.TemporaryFuriten
}

// LastDiscard 最后一张舍牌
func (p *PlayerSnapshot) LastDiscard() (RiverTile, bool) {
	if len(p.River) == 0 {
		return RiverTile{}, false
	}
	return p.River[len(p.River)-1], true
}

func (p *PlayerSnapshot) Clone() *PlayerSnapshot {
	if p == nil {
		return nil
	}
	c := *p
	c.Hand = slices.Clone(p.Hand)
	c.River = slices.Clone(p.River)
	c.Calls = slices.Clone(p.Calls)
	c.Waits = slices.Clone(p.Waits)
	return &c
}

// yamlFlag 兼容 0/1 与 true/false
type yamlFlag bool

func (f *yamlFlag) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		*f = yamlFlag(b)
		return nil
	}
	var n int
	if err := value.Decode(&n); err != nil {
		return err
	}
	*f = n != 0
	return nil
}

type playerText struct {
	Wind             string   `yaml:"Wind"`
	Hand             string   `yaml:"Hand"`
	River            string   `yaml:"River"`
	Calls            string   `yaml:"Calls"`
	Riichi           yamlFlag `yaml:"Riichi"`
	RiichiFuriten    yamlFlag `yaml:"RiichiFuriten"`
	DiscardFuriten   yamlFlag `yaml:"DiscardFuriten"`
	TemporaryFuriten yamlFlag `yaml:"TemporaryFuriten"`
	Tenpai           string   `yaml:"Tenpai"`
}

// ParsePlayerText 解析引擎输出的玩家文本
func ParsePlayerText(text string) (*PlayerSnapshot, error) {
	var raw playerText
	if err := yaml.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	p := &PlayerSnapshot{
		Hand:             strings.Fields(raw.Hand),
		River:            []RiverTile{},
		Calls:            strings.Fields(raw.Calls),
		Riichi:           bool(raw.Riichi),
		RiichiFuriten:    bool(raw.RiichiFuriten),
		DiscardFuriten:   bool(raw.DiscardFuriten),
		TemporaryFuriten: bool(raw.TemporaryFuriten),
		Waits:            SplitTiles(raw.Tenpai),
	}
	if raw.Wind != "" {
		w, ok := ParseWind(raw.Wind)
		if !ok {
			return nil, fmt.Errorf("%w: wind %q", ErrMalformedSnapshot, raw.Wind)
		}
		p.Wind = w
	}
	for _, t := range p.Hand {
		if !IsTile(t) {
			return nil, fmt.Errorf("%w: hand tile %q", ErrMalformedSnapshot, t)
		}
	}
	for _, token := range strings.Fields(raw.River) {
		rt, err := ParseRiverTile(token)
		if err != nil {
			return nil, err
		}
		p.River = append(p.River, rt)
	}
	return p, nil
}
