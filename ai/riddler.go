// Package ai backs the conversational riddler persona with a local Ollama
// instance. Replies are flavor only; game-state decisions never depend on
// them.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const riddlerSystemPrompt = `You are a clever and playful riddler in a drawing guessing game.
STRICT RULES:
- NEVER say the secret word.
- NEVER spell it, hint letters, or rhyme it.
- NEVER reveal number of letters.
- NEVER confirm directly unless guess is EXACT.
Behavior: wrong guess -> playful hint; close guess -> encouragement; correct guess -> dramatic celebration.
Style: short replies (1-2 lines), fun, teasing, clever.`

type OllamaReplier struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewOllamaReplier(baseURL, model string) *OllamaReplier {
	return &OllamaReplier{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
}

type generateRequest struct {
	Model  string  `json:"model"`
	System string  `json:"system"`
	Prompt string  `json:"prompt"`
	Stream bool    `json:"stream"`
	Options options `json:"options"`
}

type options struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (r *OllamaReplier) Reply(ctx context.Context, secretWord, guess string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   r.model,
		System:  riddlerSystemPrompt,
		Prompt:  fmt.Sprintf("Secret word: %s\nPlayer guess: %s", secretWord, guess),
		Stream:  false,
		Options: options{Temperature: 0.8},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Response, nil
}
