package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/user/movievault/internal/config"
)

// ChatMessage 客户端提交的对话消息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatModel 托管模型的中继接口
type ChatModel interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// AssistantService 把用户文本转发给 OpenRouter 的 chat completion 接口，
// 只转发最后一条用户消息，回复原样返回。不做工具调用，不做检索增强。
type AssistantService struct {
	config *config.Config
	client *http.Client
}

func NewAssistantService(cfg *config.Config) *AssistantService {
	return &AssistantService{
		config: cfg,
		// LLM 生成内容较慢，超时放宽到 30 秒
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Reply 调用托管模型生成回复
func (s *AssistantService) Reply(ctx context.Context, prompt string) (string, error) {
	if s.config.OpenRouterAPIKey == "" {
		return "", fmt.Errorf("OPENROUTER_API_KEY is not set")
	}

	reqBody := chatCompletionRequest{
		Model: s.config.OpenRouterModel,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.35,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request failed: %v", err)
	}

	endpoint := strings.TrimRight(s.config.OpenRouterBaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.OpenRouterAPIKey)
	req.Header.Set("HTTP-Referer", s.config.SiteUrl)
	req.Header.Set("X-Title", s.config.SiteName)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post request to openrouter failed: %v", err)
	}
	defer resp.Body.Close()

	// 错误状态下响应体可能不是 JSON（网关超时页等），先保住状态码
	var result chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("openrouter returned error status: %d", resp.StatusCode)
		}
		return "", fmt.Errorf("decode response failed: %v", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("openrouter api error: %s", result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openrouter returned error status: %d", resp.StatusCode)
	}

	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("openrouter returned no content")
}
