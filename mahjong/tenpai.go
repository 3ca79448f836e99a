package mahjong

// RealWaits 去掉手中已有四张的空听
func RealWaits(p *PlayerSnapshot) []string {
	if p == nil {
		return nil
	}
	waits := make([]string, 0, len(p.Waits))
	for _, w := range p.Waits {
		if CountTile(p.Hand, w) < 4 {
			waits = append(waits, w)
		}
	}
	return waits
}

// IsTenpai 听牌（不含空听）
func IsTenpai(p *PlayerSnapshot) bool {
	return len(RealWaits(p)) > 0
}
