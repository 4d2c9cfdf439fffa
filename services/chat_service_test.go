package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aitutorhq/ai-tutor-api/model"
	"github.com/aitutorhq/ai-tutor-api/services/gemini"
)

// newFakeGemini returns a client pointed at a stub server that always answers
// with the given text.
func newFakeGemini(t *testing.T, answer string) *gemini.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gemini.GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("stub received invalid request body: %v", err)
		}
		if len(req.Contents) == 0 {
			t.Error("stub received request without contents")
		}

		resp := gemini.GenerateResponse{
			Candidates: []gemini.Candidate{
				{
					Content: gemini.Content{
						Role:  "model",
						Parts: []gemini.Part{{Text: answer}},
					},
					FinishReason: "STOP",
				},
			},
			UsageMetadata: gemini.UsageMetadata{
				PromptTokenCount:     12,
				CandidatesTokenCount: 30,
				TotalTokenCount:      42,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	return gemini.NewClient(gemini.Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gemini-test",
	})
}

func TestChatPersistsExchangeVerbatim(t *testing.T) {
	db := newTestDB(t)
	answer := "Newton's second law says F = ma.\n\nIn plain words: force equals mass times acceleration."
	svc := NewChatService(db, newFakeGemini(t, answer))
	ctx := context.Background()

	entry, err := svc.Chat(ctx, "student1", "Explain Newton's second law")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if entry.Response != answer {
		t.Errorf("response not persisted verbatim: %q", entry.Response)
	}
	if entry.TokensUsed != 42 {
		t.Errorf("expected 42 tokens recorded, got %d", entry.TokensUsed)
	}

	var stored model.ChatLog
	if err := db.First(&stored, entry.ID).Error; err != nil {
		t.Fatalf("exchange not stored: %v", err)
	}
	if stored.Prompt != "Explain Newton's second law" || stored.Response != answer {
		t.Errorf("stored exchange differs from returned one: %+v", stored)
	}
	if stored.Username != "student1" {
		t.Errorf("requesting username not stored: %q", stored.Username)
	}
}

func TestChatRejectsEmptyPrompt(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db, newFakeGemini(t, "unused"))

	if _, err := svc.Chat(context.Background(), "student1", "   "); err == nil {
		t.Fatal("expected error for blank prompt")
	}

	var count int64
	db.Model(&model.ChatLog{}).Count(&count)
	if count != 0 {
		t.Error("no exchange should be stored for a rejected prompt")
	}
}

func TestHistoryFlattensExchangesInOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewChatService(db, newFakeGemini(t, "answer"))
	ctx := context.Background()

	if _, err := svc.Chat(ctx, "student1", "first question"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if _, err := svc.Chat(ctx, "student1", "second question"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	// Another user's history must not leak in
	if _, err := svc.Chat(ctx, "student2", "unrelated"); err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	history, err := svc.History(ctx, "student1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 4 {
		t.Fatalf("expected 4 flattened entries, got %d", len(history))
	}

	wantSenders := []string{"user", "bot", "user", "bot"}
	for i, entry := range history {
		if entry.Sender != wantSenders[i] {
			t.Errorf("entry %d: expected sender %q, got %q", i, wantSenders[i], entry.Sender)
		}
	}
	if history[0].Text != "first question" || history[2].Text != "second question" {
		t.Errorf("history out of order: %+v", history)
	}
}
