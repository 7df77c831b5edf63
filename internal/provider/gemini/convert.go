package gemini

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/kstonekuan/discussion-mcp/internal/provider/models"
	"google.golang.org/genai"
)

// textSeparator sits between the caller's prompt and the material it applies to.
const textSeparator = "\n\nText to analyze:\n"

// buildPrompt combines the instruction and the text into one user turn.
func buildPrompt(prompt, text string) string {
	return prompt + textSeparator + text
}

// toGenerateConfig converts completion params to a Gemini request config.
func toGenerateConfig(params models.CompletionParams, disableSafety bool) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(params.Temperature)),
		MaxOutputTokens: clampTokens(params.MaxOutputTokens),
	}
	if disableSafety {
		config.SafetySettings = permissiveSafetySettings()
	}
	return config
}

func clampTokens(n int) int32 {
	switch {
	case n < 0:
		return 0
	case n > math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(n)
	}
}

// permissiveSafetySettings turns every harm filter off.
func permissiveSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryHateSpeech,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategoryHarassment,
			Threshold: genai.HarmBlockThresholdOff,
		},
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdOff,
		},
	}
}

// responseText joins the text parts of the first candidate, skipping thoughts.
// It returns "" for a nil response or one without text.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate == nil || candidate.Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// blockedReason reports why a response without text was blocked, or "" when
// it was not blocked.
func blockedReason(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return string(resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		switch reason := resp.Candidates[0].FinishReason; reason {
		case genai.FinishReasonSafety,
			genai.FinishReasonRecitation,
			genai.FinishReasonBlocklist,
			genai.FinishReasonProhibitedContent,
			genai.FinishReasonSPII:
			return string(reason)
		}
	}
	return ""
}

// asAPIError extracts a genai.APIError from err, by value or by pointer.
func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}
	return genai.APIError{}, false
}

// errorMessage returns the human-readable description of err.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := asAPIError(err); ok && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

// mapGeminiError maps Gemini API errors to provider errors.
func mapGeminiError(err error) error {
	if err == nil {
		return nil
	}

	var providerErr *models.ProviderError
	if errors.As(err, &providerErr) {
		return err
	}

	if models.Classify(err) != models.ErrorCodeUnknown {
		return err
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return &models.ProviderError{
			Code:       models.ErrorCodeNetwork,
			Message:    "network error",
			Underlying: err,
		}
	}

	switch apiErr.Code {
	case 401, 403:
		return &models.ProviderError{
			Code:       models.ErrorCodeAuth,
			Message:    "authentication failed",
			Underlying: err,
		}
	case 404:
		return &models.ProviderError{
			Code:       models.ErrorCodeInvalidModel,
			Message:    fmt.Sprintf("model not found: %s", apiErr.Message),
			Underlying: err,
		}
	case 429:
		return &models.ProviderError{
			Code:       models.ErrorCodeRateLimit,
			Message:    "rate limit exceeded",
			Underlying: err,
		}
	case 400:
		return &models.ProviderError{
			Code:       models.ErrorCodeInvalidRequest,
			Message:    fmt.Sprintf("invalid request: %s", apiErr.Message),
			Underlying: err,
		}
	case 500, 502, 503, 504:
		return &models.ProviderError{
			Code:       models.ErrorCodeUnavailable,
			Message:    "service unavailable",
			Underlying: err,
		}
	default:
		return &models.ProviderError{
			Code:       models.ErrorCodeNetwork,
			Message:    fmt.Sprintf("API error: %s", apiErr.Message),
			Underlying: err,
		}
	}
}
