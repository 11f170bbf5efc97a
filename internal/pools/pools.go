package pools

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

//go:embed pools.yaml
var defaultPoolsYAML []byte

// Article answers bound to sentence entries.
const (
	ArticleA    = "a"
	ArticleAn   = "an"
	ArticleThe  = "the"
	ArticleNone = "none"
)

type Pools struct {
	Shared      Shared      `yaml:"shared"`
	PerfectPast PerfectPast `yaml:"perfect_past"`
	Article     Article     `yaml:"article"`
	Fallback    Fallback    `yaml:"fallback"`
}

type Shared struct {
	Names       []string `yaml:"names"`
	Places      []string `yaml:"places"`
	Objects     []string `yaml:"objects"`
	Adjectives  []string `yaml:"adjectives"`
	Adverbs     []string `yaml:"adverbs"`
	Times       []string `yaml:"times"`
	Numbers     []string `yaml:"numbers"`
	Linkers     []string `yaml:"linkers"`
	Modals      []string `yaml:"modals"`
	Punctuation []string `yaml:"punctuation"`
}

// IrregularVerb is a base / simple past / past participle triple.
type IrregularVerb struct {
	Base       string `yaml:"base"`
	Past       string `yaml:"past"`
	Participle string `yaml:"participle"`
}

type PerfectPast struct {
	Verbs        []IrregularVerb `yaml:"verbs"`
	Adverbs      []string        `yaml:"adverbs"`
	Questions    []string        `yaml:"questions"`
	Answers      []string        `yaml:"answers"`
	Explanations []string        `yaml:"explanations"`
}

// ArticleSentence is a sentence with a "__" blank and the article that fills it.
type ArticleSentence struct {
	Text   string `yaml:"text"`
	Answer string `yaml:"answer"`
}

type Article struct {
	Instructions []string            `yaml:"instructions"`
	Sentences    []ArticleSentence   `yaml:"sentences"`
	Explanations map[string][]string `yaml:"explanations"`
}

type RegularVerb struct {
	Base string `yaml:"base"`
	Past string `yaml:"past"`
}

type Fallback struct {
	Questions    []string      `yaml:"questions"`
	Verbs        []RegularVerb `yaml:"verbs"`
	Connectors   []string      `yaml:"connectors"`
	Schemas      []string      `yaml:"schemas"`
	Explanations []string      `yaml:"explanations"`
}

var (
	defaultOnce  sync.Once
	defaultPools *Pools
	defaultErr   error
)

// Default returns the embedded pools. The result is shared and must not be
// modified.
func Default() (*Pools, error) {
	defaultOnce.Do(func() {
		defaultPools, defaultErr = Parse(defaultPoolsYAML)
	})
	return defaultPools, defaultErr
}

// Load reads a pools file. An empty path returns the embedded pools.
func Load(path string) (*Pools, error) {
	p, _, err := LoadWithDigest(path)
	return p, err
}

// LoadWithDigest is Load that also returns the Digest of the bytes it parsed,
// so a run can be fingerprinted by pool contents rather than by path.
func LoadWithDigest(path string) (*Pools, string, error) {
	if path == "" {
		p, err := Default()
		if err != nil {
			return nil, "", err
		}
		return p, Digest(defaultPoolsYAML), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read pools %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("pools %s: %w", path, err)
	}
	return p, Digest(data), nil
}

// Digest is the xxhash of raw pools bytes as 16 hex digits.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

func Parse(data []byte) (*Pools, error) {
	var p Pools
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode pools: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate reports every empty table and every article entry whose answer is
// not one of a, an, the, none.
func (p *Pools) Validate() error {
	var errs []error
	nonEmpty := func(name string, n int) {
		if n == 0 {
			errs = append(errs, fmt.Errorf("%s: empty", name))
		}
	}

	nonEmpty("shared.names", len(p.Shared.Names))
	if len(p.Shared.Names) == 1 {
		errs = append(errs, errors.New("shared.names: need at least two"))
	}
	nonEmpty("shared.places", len(p.Shared.Places))
	nonEmpty("shared.objects", len(p.Shared.Objects))
	nonEmpty("shared.adjectives", len(p.Shared.Adjectives))
	nonEmpty("shared.adverbs", len(p.Shared.Adverbs))
	nonEmpty("shared.times", len(p.Shared.Times))
	nonEmpty("shared.numbers", len(p.Shared.Numbers))
	nonEmpty("shared.linkers", len(p.Shared.Linkers))
	nonEmpty("shared.modals", len(p.Shared.Modals))
	nonEmpty("shared.punctuation", len(p.Shared.Punctuation))

	nonEmpty("perfect_past.verbs", len(p.PerfectPast.Verbs))
	nonEmpty("perfect_past.adverbs", len(p.PerfectPast.Adverbs))
	nonEmpty("perfect_past.questions", len(p.PerfectPast.Questions))
	nonEmpty("perfect_past.answers", len(p.PerfectPast.Answers))
	nonEmpty("perfect_past.explanations", len(p.PerfectPast.Explanations))
	for i, v := range p.PerfectPast.Verbs {
		if v.Base == "" || v.Past == "" || v.Participle == "" {
			errs = append(errs, fmt.Errorf("perfect_past.verbs[%d]: incomplete triple", i))
		}
	}

	nonEmpty("article.instructions", len(p.Article.Instructions))
	nonEmpty("article.sentences", len(p.Article.Sentences))
	for i, s := range p.Article.Sentences {
		if !ValidArticle(s.Answer) {
			errs = append(errs, fmt.Errorf("article.sentences[%d]: unknown answer %q", i, s.Answer))
			continue
		}
		if len(p.Article.Explanations[s.Answer]) == 0 {
			errs = append(errs, fmt.Errorf("article.explanations.%s: empty", s.Answer))
		}
	}

	nonEmpty("fallback.questions", len(p.Fallback.Questions))
	nonEmpty("fallback.verbs", len(p.Fallback.Verbs))
	nonEmpty("fallback.connectors", len(p.Fallback.Connectors))
	nonEmpty("fallback.schemas", len(p.Fallback.Schemas))
	nonEmpty("fallback.explanations", len(p.Fallback.Explanations))

	return errors.Join(errs...)
}

func ValidArticle(a string) bool {
	switch a {
	case ArticleA, ArticleAn, ArticleThe, ArticleNone:
		return true
	}
	return false
}
