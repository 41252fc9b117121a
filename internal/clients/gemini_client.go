package clients

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"

	"google.golang.org/genai"
)

// ModelFallbackOrder lists Gemini models by preference. Later entries have
// larger free-tier daily quotas, so the analyzer walks down this list when a
// daily quota is exhausted mid-run.
var ModelFallbackOrder = []string{
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-flash-8b",
}

var (
	geminiInstance *GeminiClient
	geminiOnce     sync.Once
	geminiInitErr  error
)

type GeminiClient struct {
	Client *genai.Client
}

// GetGeminiClient initializes the shared Gemini client on first use.
// A missing API key is a configuration failure; the run cannot produce
// anything meaningful without it.
func GetGeminiClient(ctx context.Context) (*GeminiClient, error) {
	geminiOnce.Do(func() {
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			geminiInitErr = errors.New("[GeminiClient] GEMINI_API_KEY not set; get a free key at https://aistudio.google.com/app/apikey")
			return
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			geminiInitErr = err
			return
		}

		geminiInstance = &GeminiClient{Client: client}
		slog.Info("[GeminiClient] Gemini client initialized",
			slog.String("default_model", ModelFallbackOrder[0]))
	})

	return geminiInstance, geminiInitErr
}
