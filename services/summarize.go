package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Provider turns extracted document text into a plain-English summary.
// Implementations return either a non-empty summary or an error; errors are
// formatted for the user at the handler boundary and are never persisted.
type Provider interface {
	Summarize(ctx context.Context, docText, filename string) (string, error)
}

var (
	ErrMissingKey = errors.New("API key not found. Please go back and enter your key")

	// ErrEmptySummary guards the provider contract: a summary is either a
	// non-empty string or an error, never both empty and nil.
	ErrEmptySummary = errors.New("summarization produced no text")
)

// APIStatusError is a non-200 reply from a hosted summarization API.
type APIStatusError struct {
	Code int
	Body string
}

func (e *APIStatusError) Error() string {
	return fmt.Sprintf("API Error %d: %s", e.Code, e.Body)
}

// UnexpectedOutputError carries a response body that parsed as JSON but
// matched none of the shapes the API documents.
type UnexpectedOutputError struct {
	Raw string
}

func (e *UnexpectedOutputError) Error() string {
	return fmt.Sprintf("Unexpected output: %s", e.Raw)
}

// UserMessage converts a provider failure into the string shown to the user.
func UserMessage(err error) string {
	var unexpected *UnexpectedOutputError
	if errors.As(err, &unexpected) {
		return "⚠️ " + err.Error()
	}
	return "❌ " + err.Error()
}

// --- Demo variant ---

const demoFallback = "📜 Demo Summary: Unable to identify document type. This is a general contract."

const demoRental = `This is a rental agreement made between Mr. Rakesh Kumar (the property owner) and Mr. Anil Reddy (the person renting).

- The house is in Jubilee Hills, Hyderabad.
- Rent is ₹18,000/month, paid by the 5th.
- Anil pays a ₹36,000 security deposit.
- The rental period is 11 months: from August 1, 2025, to June 30, 2026.
- Either side can cancel the agreement with 1 month’s written notice.
- Anil can't sub-rent the house to anyone else unless Rakesh agrees.

In short: this document explains the rules of staying in the rented house, money terms, and how both sides can exit the deal.`

const demoNDA = `This Non-Disclosure Agreement (NDA) is between TechNova Pvt. Ltd. and Mr. Kiran Rao.

- Kiran will receive sensitive business information from TechNova.
- He agrees to keep this confidential and not use it for anything other than their business discussions.
- This includes technical data, strategies, client info, designs, etc.
- He cannot share it, even after the project ends, for 3 years.
- Exceptions: if info is public, received legally from others, or required by law.
- If he breaks the agreement, TechNova can take legal action, including asking the court to stop him immediately.

In short: Kiran must not reveal or misuse any business secrets he gets from TechNova during their potential partnership.`

const demoEmployment = `This is an official job contract between GlobalTech Ltd. and Ms. Priya Sharma.

- Priya will join as a Senior Software Engineer from August 1, 2025.
- She will earn Rs. 12,00,000/year, including bonuses and allowances.
- She must work 40+ hours/week, either from office or remotely.
- First 6 months = probation, 15-day notice for quitting or firing.
- After that, it becomes 60-day notice.
- She must not share company secrets or join rival companies for 1 year after leaving.
- Any inventions or code she builds belong to the company.
- She gets 20 paid leaves + public holidays.

In short: This contract outlines Priya’s job, salary, rules during and after employment, and what happens if she quits or is fired.`

// DemoProvider returns one of a fixed set of canned summaries picked by
// filename. It never touches the network and never fails.
type DemoProvider struct{}

func (DemoProvider) Summarize(_ context.Context, _ string, filename string) (string, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "rental"):
		return demoRental, nil
	case strings.Contains(name, "nda"):
		return demoNDA, nil
	case strings.Contains(name, "employment"):
		return demoEmployment, nil
	default:
		return demoFallback, nil
	}
}

// --- Own-key variant (OpenAI-compatible chat completion) ---

const simplifySystemPrompt = "You are a legal assistant. Simplify legal documents in plain English."

type OpenAIProvider struct {
	APIKey  string
	BaseURL string
	Model   string
	Client  *http.Client
}

func NewOpenAIProvider(apiKey, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{
		APIKey:  apiKey,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   "gpt-3.5-turbo",
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *OpenAIProvider) Summarize(ctx context.Context, docText, _ string) (string, error) {
	return p.complete(ctx, simplifySystemPrompt, docText)
}

// complete runs one system+user chat completion and returns the first
// choice's content.
func (p *OpenAIProvider) complete(ctx context.Context, system, user string) (string, error) {
	if p.APIKey == "" {
		return "", ErrMissingKey
	}

	payload := chatCompletionRequest{
		Model: p.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("OpenAI Error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("OpenAI Error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("OpenAI Error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("OpenAI Error: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("OpenAI Error: %w", err)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", &UnexpectedOutputError{Raw: strings.TrimSpace(string(raw))}
	}
	return parsed.Choices[0].Message.Content, nil
}

// --- Hosted-open-source variant (Hugging Face inference API) ---

type HuggingFaceProvider struct {
	Token  string
	APIURL string
	Client *http.Client
	Cache  *MemoCache
}

func NewHuggingFaceProvider(token, apiURL string, cache *MemoCache) *HuggingFaceProvider {
	return &HuggingFaceProvider{
		Token:  token,
		APIURL: apiURL,
		Client: &http.Client{Timeout: 120 * time.Second},
		Cache:  cache,
	}
}

type hfRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxLength int  `json:"max_length"`
		DoSample  bool `json:"do_sample"`
	} `json:"parameters"`
	Options struct {
		WaitForModel bool `json:"wait_for_model"`
	} `json:"options"`
}

func (p *HuggingFaceProvider) Summarize(ctx context.Context, docText, _ string) (string, error) {
	prompt := "Summarize the following document in bullet points:\n\n" + docText

	if p.Cache != nil {
		if cached, ok := p.Cache.Get(prompt); ok {
			return cached, nil
		}
	}

	summary, err := p.query(ctx, prompt)
	if err != nil {
		return "", err
	}
	if p.Cache != nil {
		p.Cache.Set(prompt, summary)
	}
	return summary, nil
}

func (p *HuggingFaceProvider) query(ctx context.Context, prompt string) (string, error) {
	reqBody := hfRequest{Inputs: prompt}
	reqBody.Parameters.MaxLength = 200
	reqBody.Parameters.DoSample = false
	reqBody.Options.WaitForModel = true

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("Exception: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.APIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("Exception: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.Token)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("Exception: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("Exception: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	return parseHFResponse(raw)
}

// parseHFResponse accepts either a list of objects (first element's
// summary_text) or a single object with a summary_text field. An empty
// summary_text is as unexpected as a missing one.
func parseHFResponse(raw []byte) (string, error) {
	var asList []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asList); err == nil && len(asList) > 0 {
		if st, ok := asList[0]["summary_text"]; ok {
			var text string
			if err := json.Unmarshal(st, &text); err == nil && strings.TrimSpace(text) != "" {
				return text, nil
			}
		}
		return "", &UnexpectedOutputError{Raw: strings.TrimSpace(string(raw))}
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asObject); err == nil {
		if st, ok := asObject["summary_text"]; ok {
			var text string
			if err := json.Unmarshal(st, &text); err == nil && strings.TrimSpace(text) != "" {
				return text, nil
			}
		}
	}

	return "", &UnexpectedOutputError{Raw: strings.TrimSpace(string(raw))}
}
