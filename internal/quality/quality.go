package quality

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kanon0111/sdlg-edu/internal/dedup"
	"github.com/kanon0111/sdlg-edu/internal/model"
)

const (
	MinLanguageMatch = 0.98
	MaxDupRate       = 0.02
)

var latinRE = regexp.MustCompile(`[A-Za-z]`)

type Metrics struct {
	Count         int     `json:"count"`
	LanguageMatch float64 `json:"language_match"`
	Dup5GramRate  float64 `json:"dup_5gram_rate"`
	ToxicityRate  float64 `json:"toxicity_rate"`
	PIIRate       float64 `json:"pii_rate"`
}

type Breakdown struct {
	ByTopic      map[string]int `json:"by_topic"`
	ByDifficulty map[string]int `json:"by_difficulty"`
}

type Report struct {
	Metrics   Metrics   `json:"metrics"`
	Breakdown Breakdown `json:"breakdown"`
	Pass      bool      `json:"pass"`
}

// ReadJSONL parses a dataset file. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]model.GeneratedItem, error) {
	var items []model.GeneratedItem
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var item model.GeneratedItem
		if err := json.Unmarshal(line, &item); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		items = append(items, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func ReadFile(path string) ([]model.GeneratedItem, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return ReadJSONL(file)
}

// HasEnglish reports whether s contains at least one Latin letter.
func HasEnglish(s string) bool {
	return latinRE.MatchString(s)
}

// Evaluate computes the language-match ratio and the corpus-wide duplicate
// n-gram rate over items. Both passes run concurrently.
func Evaluate(ctx context.Context, items []model.GeneratedItem, n int) (Report, error) {
	var (
		langOK  int
		dupRate float64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i, item := range items {
			if i%1000 == 0 {
				if err := gctx.Err(); err != nil {
					return err
				}
			}
			if HasEnglish(item.QuestionEN) && HasEnglish(item.AnswerEN) {
				langOK++
			}
		}
		return nil
	})
	g.Go(func() error {
		rate, err := DuplicateRate(gctx, items, n)
		dupRate = rate
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	m := Metrics{Count: len(items), Dup5GramRate: round4(dupRate)}
	if len(items) > 0 {
		m.LanguageMatch = round4(float64(langOK) / float64(len(items)))
	}
	return Report{
		Metrics:   m,
		Breakdown: breakdown(items),
		Pass:      Passes(m),
	}, nil
}

// DuplicateRate is the number of repeated gram occurrences divided by all
// gram occurrences across the corpus.
func DuplicateRate(ctx context.Context, items []model.GeneratedItem, n int) (float64, error) {
	counts := make(map[string]int)
	total := 0
	for i, item := range items {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		for _, gram := range dedup.NGrams(dedup.Normalize(item.QuestionEN+" "+item.AnswerEN), n) {
			counts[gram]++
			total++
		}
	}
	if total == 0 {
		return 0, nil
	}
	dups := 0
	for _, c := range counts {
		if c > 1 {
			dups += c - 1
		}
	}
	return float64(dups) / float64(total), nil
}

func Passes(m Metrics) bool {
	return m.LanguageMatch >= MinLanguageMatch && m.Dup5GramRate <= MaxDupRate
}

func breakdown(items []model.GeneratedItem) Breakdown {
	b := Breakdown{ByTopic: map[string]int{}, ByDifficulty: map[string]int{}}
	for _, item := range items {
		b.ByTopic[item.Topic]++
		b.ByDifficulty[string(item.Difficulty)]++
	}
	return b
}

func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

// JSON renders the machine-readable report.
func (r Report) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Markdown renders the human-readable report.
func (r Report) Markdown() []byte {
	var buf bytes.Buffer
	m := r.Metrics

	buf.WriteString("# Quality Summary\n\n")
	if r.Pass {
		buf.WriteString("**Verdict:** pass ✅\n\n")
	} else {
		buf.WriteString("**Verdict:** fail ❌\n\n")
	}

	buf.WriteString("## Metrics\n\n")
	buf.WriteString("| metric | value | threshold |\n|---|---|---|\n")
	buf.WriteString(fmt.Sprintf("| items | %d | |\n", m.Count))
	buf.WriteString(fmt.Sprintf("| language_match | %.4f | >= %.2f |\n", m.LanguageMatch, MinLanguageMatch))
	buf.WriteString(fmt.Sprintf("| dup_5gram_rate | %.4f | <= %.2f |\n", m.Dup5GramRate, MaxDupRate))
	buf.WriteString(fmt.Sprintf("| toxicity_rate | %.4f | |\n", m.ToxicityRate))
	buf.WriteString(fmt.Sprintf("| pii_rate | %.4f | |\n\n", m.PIIRate))

	writeCounts(&buf, "Items by topic", r.Breakdown.ByTopic)
	writeCounts(&buf, "Items by difficulty", r.Breakdown.ByDifficulty)
	return buf.Bytes()
}

func writeCounts(buf *bytes.Buffer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf.WriteString("## " + title + "\n\n")
	for _, k := range keys {
		buf.WriteString(fmt.Sprintf("- %s: %d\n", strings.ReplaceAll(k, "\n", " "), counts[k]))
	}
	buf.WriteString("\n")
}
