package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"github.com/topfreegames/pitaya/v3/pkg/logger"
	"github.com/topfreegames/pitaya/v3/pkg/logger/interfaces"
	logruswrapper "github.com/topfreegames/pitaya/v3/pkg/logger/logrus"
)

// Formatter 单行日志：时间 [级别] 文件:行 函数 内容
type Formatter struct{}

func (f *Formatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(time.DateTime)
	level := strings.ToLower(entry.Level.String())

	if entry.Caller == nil {
		return []byte(fmt.Sprintf("%s [%s] %s\n", timestamp, level, entry.Message)), nil
	}
	fileName := filepath.Base(entry.Caller.File)
	funcName := entry.Caller.Function
	if i := strings.LastIndexByte(funcName, '.'); i >= 0 {
		funcName = funcName[i+1:]
	}
	return []byte(fmt.Sprintf("%s [%s] %s:%d %s %s\n", timestamp, level, fileName, entry.Caller.Line, funcName, entry.Message)), nil
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string        `mapstructure:"level" yaml:"level"`
	Dir      string        `mapstructure:"dir" yaml:"dir"`
	Name     string        `mapstructure:"name" yaml:"name"` // 默认为程序名
	MaxAge   time.Duration `mapstructure:"max_age" yaml:"max_age"`
	Rotation time.Duration `mapstructure:"rotation" yaml:"rotation"`
}

func (c LogConfig) withDefaults() LogConfig {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Dir == "" {
		c.Dir = "./logs"
	}
	if c.Name == "" {
		c.Name = filepath.Base(os.Args[0])
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 7 * 24 * time.Hour
	}
	if c.Rotation <= 0 {
		c.Rotation = 24 * time.Hour
	}
	return c
}

// NewLogger 按天轮转写文件的 logrus 日志，包装成 pitaya 的日志接口
func NewLogger(conf LogConfig) (interfaces.Logger, error) {
	conf = conf.withDefaults()
	level, err := logrus.ParseLevel(conf.Level)
	if err != nil {
		return nil, err
	}
	writer, err := newRotateWriter(conf)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(writer)
	l.SetReportCaller(true)
	l.Formatter = &Formatter{}
	l.SetLevel(level)
	return logruswrapper.NewWithFieldLogger(l), nil
}

// InitLogger 替换 pitaya 的全局日志
func InitLogger(conf LogConfig) error {
	l, err := NewLogger(conf)
	if err != nil {
		return err
	}
	logger.SetLogger(l)
	return nil
}

// rotateWriter 日志文件被删除后重新创建
type rotateWriter struct {
	mu      sync.Mutex
	rl      *rotatelogs.RotateLogs
	pattern string
	conf    LogConfig
}

func newRotateWriter(conf LogConfig) (*rotateWriter, error) {
	if err := os.MkdirAll(conf.Dir, os.ModePerm); err != nil {
		return nil, err
	}
	w := &rotateWriter{
		pattern: filepath.Join(conf.Dir, conf.Name+"-%Y%m%d.log"),
		conf:    conf,
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *rotateWriter) open() error {
	rl, err := rotatelogs.New(
		w.pattern,
		rotatelogs.WithMaxAge(w.conf.MaxAge),
		rotatelogs.WithRotationTime(w.conf.Rotation),
	)
	if err != nil {
		return err
	}
	w.rl = rl
	return nil
}

func (w *rotateWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if name := w.rl.CurrentFileName(); name != "" {
		if _, err := os.Stat(name); os.IsNotExist(err) {
			if err := w.open(); err != nil {
				return 0, fmt.Errorf("failed to recreate log writer: %w", err)
			}
		}
	}
	return w.rl.Write(p)
}
