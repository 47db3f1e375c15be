package analysis

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// noiseTokens are punctuation and whitespace tokens that the tokenizer emits on their own.
var noiseTokens = []string{
	"\n", "\n\n", " ", "　", "。", "、", "？", "?", "「", "」", ".", ",", "－",
	"（", "）", "(", ")", "＇", "’", "!", "！", "『", "』",
}

// japaneseStopwords is the Japanese stopword list used for counting.
var japaneseStopwords = []string{
	"あそこ", "あっ", "あの", "あのかた", "あの人", "あり", "あります", "ある", "あれ",
	"い", "いう", "います", "いる", "う", "うち", "え", "お", "および", "おり", "おります",
	"か", "かつて", "から", "が", "き", "ここ", "こちら", "こと", "この", "これ", "これら",
	"さ", "さらに", "し", "しかし", "する", "ず", "せ", "せる", "そこ", "そして", "その",
	"その他", "その後", "それ", "それぞれ", "それで", "た", "ただし", "たち", "ため", "たり",
	"だ", "だっ", "だれ", "つ", "て", "で", "でき", "できる", "です", "では", "でも", "と",
	"という", "といった", "とき", "ところ", "として", "とともに", "とも", "と共に", "どこ",
	"どの", "な", "ない", "なお", "なかっ", "ながら", "なく", "なっ", "など", "なに", "なら",
	"なり", "なる", "なん", "に", "において", "における", "について", "にて", "によって",
	"により", "による", "に対して", "に対する", "に関する", "の", "ので", "のみ", "は", "ば",
	"へ", "ほか", "ほとんど", "ほど", "ます", "また", "または", "まで", "も", "もの", "ものの",
	"や", "よう", "より", "ら", "られ", "られる", "れ", "れる", "を", "ん", "及び", "彼",
	"彼女", "我々", "特に", "私", "私達", "貴方", "貴方方",
}

// Stopwords is a read-only set of token surfaces excluded from counting.
type Stopwords map[string]struct{}

// DefaultStopwords returns the Japanese stopwords plus punctuation and whitespace noise, plus extra.
func DefaultStopwords(extra ...string) Stopwords {
	s := make(Stopwords, len(japaneseStopwords)+len(noiseTokens)+len(extra))
	for _, list := range [][]string{japaneseStopwords, noiseTokens, extra} {
		for _, w := range list {
			s[w] = struct{}{}
		}
	}
	return s
}

func (s Stopwords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// ReadStopwords reads one stopword per line. Blank lines and lines starting with # are skipped.
func ReadStopwords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

func LoadStopwordsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open stopwords file: %w", err)
	}
	defer f.Close()
	return ReadStopwords(f)
}
