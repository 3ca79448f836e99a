package mahjong

import (
	"fmt"
	"strings"
)

// 牌的文本记法: <点数><花色>，0 表示赤五
const (
	SuitMan = 'm'
	SuitPin = 'p'
	SuitSou = 's'
	SuitJi  = 'z'
)

const suits = "mpsz"

// TileTypes 34种牌
const TileTypes = 34

var TileList = func() []string {
	tiles := make([]string, 0, TileTypes)
	for _, c := range suits {
		for i := 1; i <= 9; i++ {
			if c == SuitJi && i > 7 {
				break
			}
			tiles = append(tiles, fmt.Sprintf("%d%c", i, c))
		}
	}
	return tiles
}()

// IsTile 判断是否为合法的牌记法
func IsTile(s string) bool {
	if len(s) != 2 || s[0] < '0' || s[0] > '9' {
		return false
	}
	i := strings.IndexByte(suits, s[1])
	if i < 0 {
		return false
	}
	if s[1] == SuitJi {
		return s[0] >= '1' && s[0] <= '7'
	}
	return true
}

// NormalizeTile 赤五按普通五处理
func NormalizeTile(s string) string {
	if len(s) == 2 && s[0] == '0' {
		return "5" + s[1:]
	}
	return s
}

// IsRedFive 赤宝牌
func IsRedFive(s string) bool {
	return len(s) == 2 && s[0] == '0' && s[1] != SuitJi
}

// TileIndex 记法转换为 0..33 的出牌动作
func TileIndex(s string) (int, error) {
	if !IsTile(s) {
		return -1, fmt.Errorf("invalid tile %q", s)
	}
	n := int(NormalizeTile(s)[0] - '0')
	return strings.IndexByte(suits, s[1])*9 + n - 1, nil
}

// TileName 0..33 转换为记法
func TileName(index int) string {
	if index < 0 || index >= TileTypes {
		return ""
	}
	return TileList[index]
}

// SplitTiles 将 "1m2m3m" 或 "1m 2m 3m" 拆成单张
func SplitTiles(s string) []string {
	s = strings.Join(strings.Fields(s), "")
	tiles := make([]string, 0, len(s)/2)
	for i := 0; i+2 <= len(s); i += 2 {
		tiles = append(tiles, s[i:i+2])
	}
	return tiles
}

// MeldTile 副露中被鸣的牌：括号内的牌，否则为前两个字符
func MeldTile(notation string) string {
	l := strings.IndexByte(notation, '(')
	r := strings.IndexByte(notation, ')')
	if l >= 0 && r > l+1 {
		return notation[l+1 : r]
	}
	if len(notation) >= 2 {
		return notation[:2]
	}
	return notation
}

// MeldTiles 副露包含的牌（已归一化）
func MeldTiles(notation string) []string {
	notation = strings.NewReplacer("(", "", ")", "").Replace(notation)
	tiles := SplitTiles(notation)
	for i, t := range tiles {
		tiles[i] = NormalizeTile(t)
	}
	return tiles
}

// CountTile 统计手牌中某张牌的数量（赤五计入五）
func CountTile(hand []string, tile string) int {
	tile = NormalizeTile(tile)
	count := 0
	for _, t := range hand {
		if NormalizeTile(t) == tile {
			count++
		}
	}
	return count
}

func GetTilesName(tiles []string) string {
	return strings.Join(tiles, " ")
}
