package chunk_test

// Coverage Notes:
// - Byte budgets are verified with len() on the UTF-8 encoding, matching the
//   provider's accounting. Korean syllables are 3 bytes each.
// - Exact chunk boundaries under the forced-byte tier are not locked in; only
//   the observable contract (budget, order, decimal integrity) is.

import (
	"strings"
	"testing"

	"github.com/alnah/go-narrate/internal/chunk"
)

// ---------------------------------------------------------------------------
// TestNewChunker - Budget validation
// ---------------------------------------------------------------------------

func TestNewChunker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		budget  int
		wantErr bool
	}{
		{name: "zero budget rejected", budget: 0, wantErr: true},
		{name: "negative budget rejected", budget: -1, wantErr: true},
		{name: "below minimum rejected", budget: chunk.MinBudget - 1, wantErr: true},
		{name: "boundary: minimum accepted", budget: chunk.MinBudget, wantErr: false},
		{name: "default budget accepted", budget: chunk.DefaultBudget, wantErr: false},
		{name: "multi-scene budget accepted", budget: chunk.MultiSceneBudget, wantErr: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := chunk.NewChunker(tt.budget)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewChunker(%d) expected error, got nil", tt.budget)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewChunker(%d) unexpected error: %v", tt.budget, err)
			}
			if c.Budget() != tt.budget {
				t.Errorf("Budget() = %d, want %d", c.Budget(), tt.budget)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestChunk - Splitting and packing under the byte budget
// ---------------------------------------------------------------------------

func TestChunk(t *testing.T) {
	t.Parallel()

	t.Run("empty input returns nil", func(t *testing.T) {
		t.Parallel()

		c := mustChunker(t, chunk.DefaultBudget)
		if got := c.Chunk(""); got != nil {
			t.Errorf("Chunk(\"\") = %v, want nil", got)
		}
	})

	t.Run("short text is a single chunk", func(t *testing.T) {
		t.Parallel()

		c := mustChunker(t, chunk.DefaultBudget)
		got := c.Chunk("안녕하세요. 반갑습니다.")
		want := []string{"안녕하세요. 반갑습니다."}
		assertChunks(t, got, want)
	})

	t.Run("whitespace is normalized", func(t *testing.T) {
		t.Parallel()

		c := mustChunker(t, chunk.DefaultBudget)
		got := c.Chunk("안녕하세요.\n\n  반갑습니다.\t잘 부탁드립니다.")
		want := []string{"안녕하세요. 반갑습니다. 잘 부탁드립니다."}
		assertChunks(t, got, want)
	})

	t.Run("whitespace-only input still yields one chunk", func(t *testing.T) {
		t.Parallel()

		c := mustChunker(t, chunk.DefaultBudget)
		got := c.Chunk("   \n\t  ")
		if len(got) != 1 {
			t.Fatalf("Chunk(whitespace) = %v, want exactly one chunk", got)
		}
	})

	t.Run("sentences split across chunks at the budget", func(t *testing.T) {
		t.Parallel()

		// Two sentences of 16 bytes each; a 20-byte budget forces one per chunk.
		c := mustChunker(t, 20)
		got := c.Chunk("안녕하세요. 반갑습니다.")
		want := []string{"안녕하세요.", "반갑습니다."}
		assertChunks(t, got, want)
	})

	t.Run("every chunk respects the byte budget", func(t *testing.T) {
		t.Parallel()

		const budget = 50
		c := mustChunker(t, budget)
		text := strings.Repeat("오늘은 날씨가 정말 좋았습니다. ", 30)

		for i, ch := range c.Chunk(text) {
			if len(ch) > budget {
				t.Errorf("chunk %d is %d bytes, budget %d: %q", i, len(ch), budget, ch)
			}
			if strings.TrimSpace(ch) == "" {
				t.Errorf("chunk %d is empty after trimming", i)
			}
		}
	})

	t.Run("chunks rejoin to the normalized input", func(t *testing.T) {
		t.Parallel()

		c := mustChunker(t, 40)
		text := "첫 번째 문장입니다. 두 번째 문장입니다. 세 번째 문장입니다."
		got := c.Chunk(text)

		if rejoined := strings.Join(got, " "); rejoined != text {
			t.Errorf("rejoined chunks = %q, want %q", rejoined, text)
		}
	})

	t.Run("sentence without terminals falls through to forced cut", func(t *testing.T) {
		t.Parallel()

		const budget = 30
		c := mustChunker(t, budget)
		text := strings.Repeat("가나다라마바사 ", 10)

		got := c.Chunk(text)
		if len(got) < 2 {
			t.Fatalf("Chunk() = %d chunks, want several", len(got))
		}
		for i, ch := range got {
			if len(ch) > budget {
				t.Errorf("chunk %d is %d bytes, budget %d", i, len(ch), budget)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestChunkDecimalProtection - Decimal numbers survive every split tier
// ---------------------------------------------------------------------------

func TestChunkDecimalProtection(t *testing.T) {
	t.Parallel()

	t.Run("decimal is not a sentence boundary", func(t *testing.T) {
		t.Parallel()

		c := mustChunker(t, chunk.DefaultBudget)
		got := c.Chunk("무게는 2.6톤입니다.")
		want := []string{"무게는 2.6톤입니다."}
		assertChunks(t, got, want)
	})

	t.Run("tight budget keeps the decimal together", func(t *testing.T) {
		t.Parallel()

		c := mustChunker(t, 20)
		got := c.Chunk("안녕하세요. 저는 1.5톤 트럭을 운전합니다.")

		if len(got) < 2 {
			t.Fatalf("Chunk() = %d chunks, want at least 2", len(got))
		}
		joined := strings.Join(got, " ")
		if !strings.Contains(joined, "1.5") {
			t.Errorf("chunks %v do not contain intact decimal 1.5", got)
		}
		for i, ch := range got {
			if len(ch) > 20 {
				t.Errorf("chunk %d is %d bytes, budget 20", i, len(ch))
			}
			if strings.HasSuffix(ch, "1.") || strings.HasPrefix(ch, "5톤") {
				t.Errorf("decimal split across chunks %d: %v", i, got)
			}
		}
	})

	t.Run("chained decimals round-trip", func(t *testing.T) {
		t.Parallel()

		c := mustChunker(t, chunk.DefaultBudget)
		got := c.Chunk("버전 1.2.3 출시.")
		want := []string{"버전 1.2.3 출시."}
		assertChunks(t, got, want)
	})

	t.Run("multiple decimals in one sentence", func(t *testing.T) {
		t.Parallel()

		c := mustChunker(t, chunk.DefaultBudget)
		got := c.Chunk("키는 1.8미터, 몸무게는 75.5킬로입니다.")
		want := []string{"키는 1.8미터, 몸무게는 75.5킬로입니다."}
		assertChunks(t, got, want)
	})
}

// ---------------------------------------------------------------------------
// TestSplitSentences - Sentence splitting with terminal punctuation attached
// ---------------------------------------------------------------------------

func TestSplitSentences(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:  "single sentence keeps terminal",
			input: "안녕하세요.",
			want:  []string{"안녕하세요."},
		},
		{
			name:  "mixed terminals",
			input: "정말요? 네! 그렇습니다.",
			want:  []string{"정말요?", "네!", "그렇습니다."},
		},
		{
			name:  "fullwidth terminals",
			input: "안녕하세요。반갑습니다！",
			want:  []string{"안녕하세요。", "반갑습니다！"},
		},
		{
			name:  "terminal runs stay together",
			input: "뭐라고요?! 설마...",
			want:  []string{"뭐라고요?!", "설마..."},
		},
		{
			name:  "decimal period is not a terminal",
			input: "온도는 3.5도입니다. 덥네요.",
			want:  []string{"온도는 3.5도입니다.", "덥네요."},
		},
		{
			name:  "no terminal returns whole text",
			input: "끝나지 않은 문장",
			want:  []string{"끝나지 않은 문장"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := chunk.SplitSentences(tt.input)
			assertChunks(t, got, tt.want)
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func mustChunker(t *testing.T, budget int) *chunk.Chunker {
	t.Helper()
	c, err := chunk.NewChunker(budget)
	if err != nil {
		t.Fatalf("NewChunker(%d) unexpected error: %v", budget, err)
	}
	return c
}

func assertChunks(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d chunks %v, want %d chunks %v", len(got), got, len(want), want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("chunk %d = %q, want %q", i, got[i], want[i])
		}
	}
}
