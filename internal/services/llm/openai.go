package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/ternarybob/testpilot/internal/common"
	"github.com/ternarybob/testpilot/internal/interfaces"
)

// getOpenAIClient returns an OpenAI client, creating one if necessary
func (f *ProviderFactory) getOpenAIClient() (*openai.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.openaiClient != nil {
		return f.openaiClient, nil
	}

	apiKey, err := common.ResolveAPIKey(common.LLMProviderOpenAI, f.openaiConfig.APIKey)
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if f.openaiConfig.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(f.openaiConfig.BaseURL))
	}

	client := openai.NewClient(opts...)
	f.openaiClient = &client
	return f.openaiClient, nil
}

// convertMessagesToOpenAI converts []interfaces.Message to chat completion messages.
// Unlike the other providers the system message stays first in the list.
func convertMessagesToOpenAI(messages []interfaces.Message) ([]openai.ChatCompletionMessageParamUnion, error) {
	conversation, systemText, err := splitSystem(messages)
	if err != nil {
		return nil, err
	}

	result := make([]openai.ChatCompletionMessageParamUnion, 0, len(conversation)+1)
	if systemText != "" {
		result = append(result, openai.SystemMessage(systemText))
	}
	for _, msg := range conversation {
		switch msg.Role {
		case "assistant":
			result = append(result, openai.AssistantMessage(msg.Content))
		default:
			result = append(result, openai.UserMessage(msg.Content))
		}
	}

	return result, nil
}

// completeWithOpenAI generates content using the OpenAI chat completions API
func (f *ProviderFactory) completeWithOpenAI(ctx context.Context, request *interfaces.CompletionRequest, model string) (*interfaces.CompletionResponse, error) {
	messages, err := convertMessagesToOpenAI(request.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to convert messages: %w", err)
	}

	client, err := f.getOpenAIClient()
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}

	temp := request.Temperature
	if temp <= 0 {
		temp = f.openaiConfig.Temperature
	}
	if temp > 0 {
		params.Temperature = openai.Float(float64(temp))
	}

	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = f.openaiConfig.MaxTokens
	}
	if maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(maxTokens))
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API call failed: %w", err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return &interfaces.CompletionResponse{
		Text:     text,
		Provider: string(ProviderOpenAI),
		Model:    model,
	}, nil
}
