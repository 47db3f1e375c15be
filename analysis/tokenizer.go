package analysis

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Token is one morpheme: the text as written and its dictionary form.
type Token struct {
	Surface string
	Lemma   string
}

// Analyzer splits text into tokens.
type Analyzer interface {
	Analyze(text string) []Token
}

// KagomeAnalyzer is a Japanese morphological analyzer backed by kagome and the IPA dictionary.
type KagomeAnalyzer struct {
	t *tokenizer.Tokenizer
}

// NewKagomeAnalyzer loads the dictionary. It is expensive, so build one per process and share it.
func NewKagomeAnalyzer() (*KagomeAnalyzer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("create tokenizer: %w", err)
	}
	return &KagomeAnalyzer{t: t}, nil
}

func (a *KagomeAnalyzer) Analyze(text string) []Token {
	raw := a.t.Tokenize(text)
	tokens := make([]Token, 0, len(raw))
	for _, tok := range raw {
		lemma, ok := tok.BaseForm()
		if !ok || lemma == "" || lemma == "*" {
			lemma = tok.Surface
		}
		tokens = append(tokens, Token{Surface: tok.Surface, Lemma: lemma})
	}
	return tokens
}

// Lemmatizer turns text into the lemmas worth counting.
type Lemmatizer struct {
	analyzer  Analyzer
	stopwords Stopwords
}

func NewLemmatizer(analyzer Analyzer, stopwords Stopwords) *Lemmatizer {
	if stopwords == nil {
		stopwords = DefaultStopwords()
	}
	return &Lemmatizer{analyzer: analyzer, stopwords: stopwords}
}

// Lemmatize returns the lemma of every token whose surface is not a stopword.
// The stopword test uses the surface, so an inflected stopword missing from the list keeps its lemma.
func (l *Lemmatizer) Lemmatize(text string) []string {
	var lemmas []string
	for _, tok := range l.analyzer.Analyze(text) {
		if l.stopwords.Contains(tok.Surface) || strings.TrimSpace(tok.Surface) == "" {
			continue
		}
		lemmas = append(lemmas, tok.Lemma)
	}
	return lemmas
}
