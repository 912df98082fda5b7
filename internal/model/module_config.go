package model

import (
	"encoding/json"
	"fmt"
)

// ModuleConfig 各模块类型的配置，写入时校验，序列化后存入 config_json 列
type ModuleConfig interface {
	Validate() error
}

// McqModuleConfig 听力选择题配置
type McqModuleConfig struct {
	PlayTimes          int `json:"playTimes"`          // 音频播放次数
	SecondsPerQuestion int `json:"secondsPerQuestion"` // 每题作答秒数
}

func (c McqModuleConfig) Validate() error {
	if c.PlayTimes <= 0 {
		return fmt.Errorf("playTimes must be positive")
	}
	if c.SecondsPerQuestion <= 0 {
		return fmt.Errorf("secondsPerQuestion must be positive")
	}
	return nil
}

// RetellModuleConfig 故事复述配置
type RetellModuleConfig struct {
	PlayTimes      int `json:"playTimes"`
	PrepareSeconds int `json:"prepareSeconds"` // 准备时间
	RetellSeconds  int `json:"retellSeconds"`  // 复述录音时长
}

func (c RetellModuleConfig) Validate() error {
	if c.PlayTimes <= 0 {
		return fmt.Errorf("playTimes must be positive")
	}
	if c.RetellSeconds <= 0 {
		return fmt.Errorf("retellSeconds must be positive")
	}
	if c.PrepareSeconds < 0 {
		return fmt.Errorf("prepareSeconds must not be negative")
	}
	return nil
}

// LsaModuleConfig 听力简答配置
type LsaModuleConfig struct {
	PlayTimes     int `json:"playTimes"`
	AnswerSeconds int `json:"answerSeconds"`
}

func (c LsaModuleConfig) Validate() error {
	if c.PlayTimes <= 0 {
		return fmt.Errorf("playTimes must be positive")
	}
	if c.AnswerSeconds <= 0 {
		return fmt.Errorf("answerSeconds must be positive")
	}
	return nil
}

// AtcModuleConfig 陆空通话模拟配置
type AtcModuleConfig struct {
	ResponseSeconds int  `json:"responseSeconds"` // 每轮应答秒数
	AllowReplay     bool `json:"allowReplay"`
}

func (c AtcModuleConfig) Validate() error {
	if c.ResponseSeconds <= 0 {
		return fmt.Errorf("responseSeconds must be positive")
	}
	return nil
}

// OpiModuleConfig 口语面试配置
type OpiModuleConfig struct {
	WarmupSeconds int `json:"warmupSeconds"`
}

func (c OpiModuleConfig) Validate() error {
	if c.WarmupSeconds < 0 {
		return fmt.Errorf("warmupSeconds must not be negative")
	}
	return nil
}

// ParseModuleConfig 按模块类型解析并校验配置。空串按各类型零值配置校验。
func ParseModuleConfig(moduleType ModuleType, raw string) (ModuleConfig, error) {
	var cfg ModuleConfig
	switch moduleType {
	case ModuleListeningMcq:
		cfg = &McqModuleConfig{}
	case ModuleStoryRetell:
		cfg = &RetellModuleConfig{}
	case ModuleListeningSa:
		cfg = &LsaModuleConfig{}
	case ModuleAtcSim:
		cfg = &AtcModuleConfig{}
	case ModuleOpi:
		cfg = &OpiModuleConfig{}
	default:
		return nil, fmt.Errorf("unknown module type %q", moduleType)
	}

	if raw != "" {
		if err := json.Unmarshal([]byte(raw), cfg); err != nil {
			return nil, fmt.Errorf("invalid module config: %w", err)
		}
	}
	return cfg, nil
}

// DefaultModuleConfig 各类型的缺省配置，创建模块未携带配置时使用
func DefaultModuleConfig(moduleType ModuleType) ModuleConfig {
	switch moduleType {
	case ModuleListeningMcq:
		return &McqModuleConfig{PlayTimes: 1, SecondsPerQuestion: 30}
	case ModuleStoryRetell:
		return &RetellModuleConfig{PlayTimes: 2, PrepareSeconds: 30, RetellSeconds: 90}
	case ModuleListeningSa:
		return &LsaModuleConfig{PlayTimes: 1, AnswerSeconds: 20}
	case ModuleAtcSim:
		return &AtcModuleConfig{ResponseSeconds: 15}
	case ModuleOpi:
		return &OpiModuleConfig{WarmupSeconds: 0}
	}
	return nil
}

// MarshalModuleConfig 序列化配置，保持 config_json 列的兼容格式
func MarshalModuleConfig(cfg ModuleConfig) (string, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
