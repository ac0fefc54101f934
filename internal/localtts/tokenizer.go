package localtts

import (
	"errors"
	"fmt"

	gosp "github.com/vikesh-raj/go-sentencepiece-encoder/sentencepiece"
)

// ErrEmptyTokenizerPath is returned when NewTokenizer is called with an
// empty path.
var ErrEmptyTokenizerPath = errors.New("tokenizer model path must not be empty")

// Tokenizer encodes text into SentencePiece token IDs for the synthesis
// graph, using a pure-Go UNIGRAM SentencePiece model.
type Tokenizer struct {
	proc gosp.Sentencepiece
}

// NewTokenizer loads a SentencePiece model from the given path.
func NewTokenizer(modelPath string) (*Tokenizer, error) {
	if modelPath == "" {
		return nil, ErrEmptyTokenizerPath
	}

	proc, err := gosp.NewSentencepieceFromFile(modelPath, false)
	if err != nil {
		return nil, fmt.Errorf("load sentencepiece model %q: %w", modelPath, err)
	}

	return &Tokenizer{proc: proc}, nil
}

// Encode tokenizes text and returns SentencePiece token IDs as int64.
func (t *Tokenizer) Encode(text string) ([]int64, error) {
	if text == "" {
		return []int64{}, nil
	}

	ids := t.proc.TokenizeToIDs(text)

	result := make([]int64, len(ids))
	for i, id := range ids {
		result[i] = int64(id)
	}

	return result, nil
}
