package matchbase

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("matchbase: invalid config")

// Config 对局配置
type Config struct {
	Hands            int32     `mapstructure:"n_games" yaml:"n_games"`                     // 计划局数
	MoreGames        bool      `mapstructure:"more_games" yaml:"more_games"`               // 无人达到目标分时延长
	NegativeContinue bool      `mapstructure:"negative_continue" yaml:"negative_continue"` // 击飞后继续
	HonbaFee         bool      `mapstructure:"enable_honba_fee" yaml:"enable_honba_fee"`   // 本场费
	AllLastContinue  bool      `mapstructure:"al_continue" yaml:"al_continue"`             // 南四亲一位时继续
	TargetPoints     int64     `mapstructure:"reach_pt" yaml:"reach_pt"`                   // 返点
	StartPoints      int64     `mapstructure:"start_point" yaml:"start_point"`             // 起始点数
	BonusPoints      []float64 `mapstructure:"bonus_points" yaml:"bonus_points"`           // 顺位马
	Opponents        []string  `mapstructure:"opponents" yaml:"opponents"`
	Seed             int64     `mapstructure:"seed" yaml:"seed"`
}

// DefaultConfig 半庄默认配置
func DefaultConfig() *Config {
	return &Config{
		Hands:        8,
		MoreGames:    true,
		HonbaFee:     true,
		TargetPoints: 30000,
		StartPoints:  25000,
		BonusPoints:  []float64{15, 5, -5, -15},
		Opponents:    []string{"random", "random", "random"},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("n_games", d.Hands)
	v.SetDefault("more_games", d.MoreGames)
	v.SetDefault("negative_continue", d.NegativeContinue)
	v.SetDefault("enable_honba_fee", d.HonbaFee)
	v.SetDefault("al_continue", d.AllLastContinue)
	v.SetDefault("reach_pt", d.TargetPoints)
	v.SetDefault("start_point", d.StartPoints)
	v.SetDefault("bonus_points", d.BonusPoints)
	v.SetDefault("opponents", d.Opponents)
	v.SetDefault("seed", d.Seed)
}

// LoadConfig 从yaml文件加载
func LoadConfig(file string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return decode(v)
}

// ParseConfig 从yaml内容加载
func ParseConfig(r io.Reader) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.UnmarshalExact(c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate 构造对局前检查，失败则不开局
func (c *Config) Validate() error {
	switch {
	case c.Hands <= 0:
		return fmt.Errorf("%w: n_games must be positive, got %d", ErrInvalidConfig, c.Hands)
	case c.StartPoints <= 0:
		return fmt.Errorf("%w: start_point must be positive, got %d", ErrInvalidConfig, c.StartPoints)
	case c.TargetPoints <= 0:
		return fmt.Errorf("%w: reach_pt must be positive, got %d", ErrInvalidConfig, c.TargetPoints)
	case c.TargetPoints < c.StartPoints:
		return fmt.Errorf("%w: reach_pt %d below start_point %d", ErrInvalidConfig, c.TargetPoints, c.StartPoints)
	case len(c.BonusPoints) != 4:
		return fmt.Errorf("%w: bonus_points needs 4 values, got %d", ErrInvalidConfig, len(c.BonusPoints))
	case len(c.Opponents) > 3:
		return fmt.Errorf("%w: at most 3 opponents, got %d", ErrInvalidConfig, len(c.Opponents))
	}
	return nil
}

// Threshold 目标分相对起始点数的差
func (c *Config) Threshold() int64 {
	return c.TargetPoints - c.StartPoints
}
