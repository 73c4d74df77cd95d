package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoProviderCannedSummaries(t *testing.T) {
	p := DemoProvider{}
	ctx := context.Background()

	tests := []struct {
		filename string
		want     string
	}{
		{"rental_agreement.pdf", demoRental},
		{"RENTAL_Agreement.PDF", demoRental},
		{"my_nda_signed.pdf", demoNDA},
		{"employment_contract.pdf", demoEmployment},
		{"Employment-Offer.pdf", demoEmployment},
		{"mystery.pdf", demoFallback},
		{"", demoFallback},
	}
	for _, tt := range tests {
		got, err := p.Summarize(ctx, "ignored document text", tt.filename)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "filename %q", tt.filename)
	}
}

func TestDemoRentalMentionsRent(t *testing.T) {
	p := DemoProvider{}
	got, err := p.Summarize(context.Background(), "", "rental_agreement.pdf")
	require.NoError(t, err)
	assert.Contains(t, got, "₹18,000/month")
}

func TestHuggingFaceListResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"summary_text": "short summary"}]`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("test-token", srv.URL, nil)
	got, err := p.Summarize(context.Background(), "long legal text", "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "short summary", got)
}

func TestHuggingFaceObjectResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary_text": "object shaped summary"}`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("", srv.URL, nil)
	got, err := p.Summarize(context.Background(), "text", "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "object shaped summary", got)
}

func TestHuggingFaceRequestBody(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`[{"summary_text": "ok"}]`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("", srv.URL, nil)
	_, err := p.Summarize(context.Background(), "the document", "doc.pdf")
	require.NoError(t, err)

	body := string(gotBody)
	assert.Contains(t, body, `"max_length":200`)
	assert.Contains(t, body, `"do_sample":false`)
	assert.Contains(t, body, `"wait_for_model":true`)
	assert.Contains(t, body, "Summarize the following document in bullet points:")
}

func TestHuggingFaceNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "model loading"}`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("", srv.URL, nil)
	_, err := p.Summarize(context.Background(), "text", "doc.pdf")
	require.Error(t, err)

	var statusErr *APIStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
	assert.True(t, len(UserMessage(err)) > 0)
	assert.Contains(t, UserMessage(err), "❌ API Error 503:")
}

func TestHuggingFaceUnexpectedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"generated_text": "not a summary shape"}`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("", srv.URL, nil)
	_, err := p.Summarize(context.Background(), "text", "doc.pdf")
	require.Error(t, err)

	var unexpected *UnexpectedOutputError
	require.ErrorAs(t, err, &unexpected)
	assert.Contains(t, UserMessage(err), "⚠️ Unexpected output:")
	assert.Contains(t, unexpected.Raw, "generated_text")
}

func TestHuggingFaceEmptySummaryText(t *testing.T) {
	responses := []string{
		`[{"summary_text": ""}]`,
		`[{"summary_text": "   "}]`,
		`{"summary_text": ""}`,
	}
	for _, resp := range responses {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(resp))
		}))

		p := NewHuggingFaceProvider("", srv.URL, nil)
		got, err := p.Summarize(context.Background(), "text", "doc.pdf")
		srv.Close()

		var unexpected *UnexpectedOutputError
		require.ErrorAs(t, err, &unexpected, "response %q", resp)
		assert.Empty(t, got)
	}
}

func TestHuggingFaceCacheShortCircuits(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"summary_text": "cached result"}]`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("", srv.URL, NewMemoCache())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := p.Summarize(ctx, "identical document", "doc.pdf")
		require.NoError(t, err)
		assert.Equal(t, "cached result", got)
	}
	assert.Equal(t, int32(1), calls.Load(), "identical prompts must hit the network once")

	_, err := p.Summarize(ctx, "a different document", "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestHuggingFaceErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"summary_text": "recovered"}]`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("", srv.URL, NewMemoCache())
	ctx := context.Background()

	_, err := p.Summarize(ctx, "doc", "doc.pdf")
	require.Error(t, err)

	got, err := p.Summarize(ctx, "doc", "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "recovered", got)
}

func TestOpenAIMissingKey(t *testing.T) {
	p := NewOpenAIProvider("", "https://api.openai.com/v1")
	_, err := p.Summarize(context.Background(), "text", "doc.pdf")
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestOpenAISummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"choices": [{"message": {"content": "plain english version"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL)
	got, err := p.Summarize(context.Background(), "whereas the party of the first part", "doc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "plain english version", got)
}

func TestOpenAISendsSystemAndUserMessages(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL)
	_, err := p.Summarize(context.Background(), "full document text", "doc.pdf")
	require.NoError(t, err)

	body := string(gotBody)
	assert.Contains(t, body, `"model":"gpt-3.5-turbo"`)
	assert.Contains(t, body, `"role":"system"`)
	assert.Contains(t, body, "Simplify legal documents in plain English")
	assert.Contains(t, body, `"role":"user"`)
	assert.Contains(t, body, "full document text")
}

func TestOpenAINon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"message": "invalid key"}}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-bad", srv.URL)
	_, err := p.Summarize(context.Background(), "text", "doc.pdf")

	var statusErr *APIStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
}

func TestOpenAIEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL)
	_, err := p.Summarize(context.Background(), "text", "doc.pdf")

	var unexpected *UnexpectedOutputError
	assert.ErrorAs(t, err, &unexpected)
}

func TestOpenAIEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices": [{"message": {"content": "  "}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider("sk-test", srv.URL)
	got, err := p.Summarize(context.Background(), "text", "doc.pdf")

	var unexpected *UnexpectedOutputError
	require.ErrorAs(t, err, &unexpected)
	assert.Empty(t, got)
}
