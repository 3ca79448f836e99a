package mahjong

import "strings"

const (
	SeatNull int32 = -1
)

const (
	NP4 = 4
)

type Wind int

// 场风
const (
	WindEast Wind = iota
	WindSouth
	WindWest
	WindNorth
	WindEnd
)

var WindNames = [WindEnd]string{"east", "south", "west", "north"}

func (w Wind) String() string {
	if w < WindEast || w >= WindEnd {
		return ""
	}
	return WindNames[w]
}

// ParseWind 解析引擎文本里的风，大小写不敏感
func ParseWind(s string) (Wind, bool) {
	for i, name := range WindNames {
		if strings.EqualFold(name, s) {
			return Wind(i), true
		}
	}
	return WindEast, false
}

// WindOf 每个风四局
func WindOf(handCount int32) Wind {
	return Wind(handCount / NP4 % int32(WindEnd))
}

func GetNextSeat(seat, step, count int32) int32 {
	return (seat + step) % count
}

// SeatDistance seat 相对 from 的下家距离
func SeatDistance(from, seat int32) int32 {
	return ((seat-from)%NP4 + NP4) % NP4
}

