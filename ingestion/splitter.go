package ingestion

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"github.com/pkoukk/tiktoken-go"
)

// Chunking defaults, sized so chunks keep complete context without
// excessive redundancy between neighbors.
const (
	DefaultChunkSize    = 750
	DefaultChunkOverlap = 150
)

// Splitter splits document text into overlapping chunks, preferring
// sentence boundaries over hard character cuts.
type Splitter struct {
	// ChunkSize is the target chunk size in characters.
	ChunkSize int
	// ChunkOverlap is the amount of trailing text repeated at the start of
	// the next chunk, in characters.
	ChunkOverlap int

	tokenizer *sentences.DefaultSentenceTokenizer
	counter   *tiktoken.Tiktoken
}

// NewSplitter creates a Splitter. Non-positive size or negative overlap fall
// back to the defaults.
func NewSplitter(chunkSize, chunkOverlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	if chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than chunk size %d", chunkOverlap, chunkSize)
	}

	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("create sentence tokenizer: %w", err)
	}

	s := &Splitter{
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		tokenizer:    tokenizer,
	}

	// Token accounting is best effort; TokenCount returns -1 without it.
	if enc, err := tiktoken.GetEncoding("cl100k_base"); err == nil {
		s.counter = enc
	}

	return s, nil
}

// SplitText splits text into chunks. Sentences are packed whole until the
// chunk size is reached; a sentence longer than the chunk size is hard-split
// on whitespace.
func (s *Splitter) SplitText(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= s.ChunkSize {
		return []string{text}
	}

	sents := s.sentences(text)

	var chunks []string
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
	}

	for _, sent := range sents {
		for _, piece := range s.splitOversized(sent) {
			if current.Len() > 0 && current.Len()+len(piece)+1 > s.ChunkSize {
				tail := s.overlapTail(current.String())
				flush()
				if tail != "" {
					current.WriteString(tail)
					current.WriteString(" ")
				}
			}
			current.WriteString(piece)
			current.WriteString(" ")
		}
	}
	flush()

	return chunks
}

// TokenCount returns the number of tokens in text, or -1 when no token
// encoding is available.
func (s *Splitter) TokenCount(text string) int {
	if s.counter == nil {
		return -1
	}
	return len(s.counter.Encode(text, nil, nil))
}

func (s *Splitter) sentences(text string) []string {
	tokens := s.tokenizer.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if sent := strings.TrimSpace(t.Text); sent != "" {
			out = append(out, sent)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

// splitOversized hard-splits a sentence longer than the chunk size on
// whitespace.
func (s *Splitter) splitOversized(sent string) []string {
	if len(sent) <= s.ChunkSize {
		return []string{sent}
	}

	words := strings.Fields(sent)
	var pieces []string
	var current strings.Builder
	for _, w := range words {
		if current.Len() > 0 && current.Len()+len(w)+1 > s.ChunkSize {
			pieces = append(pieces, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(w)
	}
	if current.Len() > 0 {
		pieces = append(pieces, current.String())
	}
	return pieces
}

// overlapTail returns the trailing part of chunk carried into the next one,
// cut at a word boundary.
func (s *Splitter) overlapTail(chunk string) string {
	chunk = strings.TrimSpace(chunk)
	if s.ChunkOverlap == 0 || len(chunk) <= s.ChunkOverlap {
		return ""
	}

	tail := chunk[len(chunk)-s.ChunkOverlap:]
	if idx := strings.IndexByte(tail, ' '); idx >= 0 {
		tail = tail[idx+1:]
	}
	return tail
}
