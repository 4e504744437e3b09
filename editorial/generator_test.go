package editorial

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testGenerator(t *testing.T, handler http.HandlerFunc) *OpenAIGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gen := NewOpenAIGenerator("test-key", DefaultCalendar(date(2025, time.January, 1)))
	gen.client.baseURL = srv.URL
	return gen
}

func TestGenerateArticleSendsEditorialPrompts(t *testing.T) {
	var got responsesRequest
	gen := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			t.Errorf("path = %s, want /responses", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"output": []map[string]any{{
				"type": "message",
				"content": []map[string]any{
					{"type": "output_text", "text": "<article><h1>ok</h1></article>"},
				},
			}},
		})
	})

	topic := gen.calendar.Topics[6]
	text, err := gen.GenerateArticle(context.Background(), 6, topic, "07 January 2025")
	if err != nil {
		t.Fatalf("GenerateArticle: %v", err)
	}
	if text != "<article><h1>ok</h1></article>" {
		t.Errorf("text = %q", text)
	}

	if got.Model != textModel {
		t.Errorf("model = %q, want %q", got.Model, textModel)
	}
	if got.MaxOutputTokens != maxOutputTokens || got.Temperature != textTemperature {
		t.Errorf("bounds = (%d, %v), want (%d, %v)", got.MaxOutputTokens, got.Temperature, maxOutputTokens, textTemperature)
	}
	if len(got.Input) != 2 {
		t.Fatalf("input has %d messages, want 2", len(got.Input))
	}
	system, user := got.Input[0], got.Input[1]
	if system.Role != "system" || !strings.Contains(system.Content, "Meta Description:") {
		t.Errorf("system prompt missing editorial guidelines: %q", system.Content)
	}
	if !strings.Contains(system.Content, "7. "+topic.Title) {
		t.Errorf("system prompt missing numbered calendar entry for %q", topic.Title)
	}
	if user.Role != "user" || !strings.Contains(user.Content, "topic #7: "+topic.Title) {
		t.Errorf("user prompt missing topic reference: %q", user.Content)
	}
	if !strings.Contains(user.Content, topic.Angle) {
		t.Errorf("user prompt missing topic angle: %q", user.Content)
	}
}

func TestGenerateArticleRejectsEmptyOutput(t *testing.T) {
	gen := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"output": []map[string]any{}})
	})

	_, err := gen.GenerateArticle(context.Background(), 0, gen.calendar.Topics[0], "01 January 2025")
	if err == nil {
		t.Fatal("expected error for empty provider output")
	}
}

func TestGenerateArticleSurfacesProviderError(t *testing.T) {
	gen := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded", "type": "rate_limit_error"},
		})
	})

	_, err := gen.GenerateArticle(context.Background(), 0, gen.calendar.Topics[0], "01 January 2025")
	if err == nil || !strings.Contains(err.Error(), "rate limit exceeded") {
		t.Fatalf("error = %v, want provider message surfaced", err)
	}
}

func TestGenerateImageDecodesPayload(t *testing.T) {
	raw := []byte{0x89, 0x50, 0x4e, 0x47}
	var got imagesRequest
	gen := testGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("path = %s, want /images/generations", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"b64_json": base64.StdEncoding.EncodeToString(raw)}},
		})
	})

	topic := gen.calendar.Topics[2]
	day := date(2025, time.January, 3)
	img, err := gen.GenerateImage(context.Background(), 2, topic, day)
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}
	if string(img.Data) != string(raw) {
		t.Errorf("decoded bytes mismatch")
	}
	if img.Mimetype != "image/png" {
		t.Errorf("mimetype = %q, want image/png", img.Mimetype)
	}
	if img.Filename != "blog-2025-01-03-3.png" {
		t.Errorf("filename = %q, want blog-2025-01-03-3.png", img.Filename)
	}

	if got.Model != imageModel || got.Size != imageSize || got.Quality != imageQuality {
		t.Errorf("request = %+v, want model/size/quality constants", got)
	}
	if !strings.Contains(got.Prompt, strings.ToLower(topic.Title)) {
		t.Errorf("prompt missing topic: %q", got.Prompt)
	}
	for _, constraint := range []string{"no people", "no text", "high-resolution"} {
		if !strings.Contains(got.Prompt, constraint) {
			t.Errorf("prompt missing style constraint %q: %q", constraint, got.Prompt)
		}
	}
}

func TestMissingAPIKeyIsNotConfigured(t *testing.T) {
	gen := NewOpenAIGenerator("", DefaultCalendar(date(2025, time.January, 1)))

	_, err := gen.GenerateArticle(context.Background(), 0, gen.calendar.Topics[0], "01 January 2025")
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("article error = %v, want ErrNotConfigured", err)
	}

	_, err = gen.GenerateImage(context.Background(), 0, gen.calendar.Topics[0], date(2025, time.January, 1))
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("image error = %v, want ErrNotConfigured", err)
	}
}
