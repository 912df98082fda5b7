package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"aviation_exam_backend/internal/config"
)

// AutoScorer 自动评分协作方，对核心而言是黑盒，返回 (score, detail)
type AutoScorer interface {
	Score(kind, reference, answer string) (float64, json.RawMessage, error)
}

// ScoringClient 调用外部语音评分服务的 HTTP 客户端
type ScoringClient struct {
	config config.ScoringConfig
	client *http.Client
}

func NewScoringClient(cfg config.ScoringConfig) *ScoringClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ScoringClient{
		config: cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type scoringRequest struct {
	Model     string `json:"model,omitempty"`
	Kind      string `json:"kind"`      // story_retell / listening_sa / atc_sim / opi
	Reference string `json:"reference"` // 原文/参考答案/复诵标准/量规
	Answer    string `json:"answer"`    // 考生作答的识别文本
}

type scoringResponse struct {
	Score  float64         `json:"score"`
	Detail json.RawMessage `json:"detail"`
	Error  *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Score 同步调用评分服务。核心不做重试，失败原样上抛由调用方处理。
func (c *ScoringClient) Score(kind, reference, answer string) (float64, json.RawMessage, error) {
	if c.config.BaseURL == "" {
		return 0, nil, errors.New("scoring service not configured")
	}

	body, err := json.Marshal(scoringRequest{
		Model:     c.config.Model,
		Kind:      kind,
		Reference: reference,
		Answer:    answer,
	})
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.config.BaseURL+"/v1/score", bytes.NewReader(body))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, nil, fmt.Errorf("scoring service returned status %d", resp.StatusCode)
	}

	var result scoringResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, nil, err
	}
	if result.Error != nil {
		return 0, nil, fmt.Errorf("scoring service error: %s", result.Error.Message)
	}

	return result.Score, result.Detail, nil
}
