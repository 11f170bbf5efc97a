package recipe

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/kanon0111/sdlg-edu/internal/pattern"
)

const DefaultTopic = "general grammar"

// Spec is one recipe line with its builder resolved.
type Spec struct {
	Topic   string       `json:"topic"`
	Pattern string       `json:"pattern"`
	Kind    pattern.Kind `json:"-"`
}

// ParseError reports a recipe line that is not a valid JSON object.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("recipe line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewSpec applies defaults to a raw (topic, pattern) pair and resolves the
// builder.
func NewSpec(topic, patternID string) Spec {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = DefaultTopic
	}
	patternID = strings.TrimSpace(patternID)
	if patternID == "" {
		patternID = pattern.IDGeneric
	}
	return Spec{Topic: topic, Pattern: patternID, Kind: pattern.Resolve(patternID)}
}

func Load(path string) ([]Spec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads newline-delimited JSON objects. Blank lines are skipped; the
// first malformed line aborts with a *ParseError.
func Parse(r io.Reader) ([]Spec, error) {
	var specs []Spec
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var raw struct {
			Topic   string `json:"topic"`
			Pattern string `json:"pattern"`
		}
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, &ParseError{Line: lineNo, Err: err}
		}
		specs = append(specs, NewSpec(raw.Topic, raw.Pattern))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read recipe: %w", err)
	}
	return specs, nil
}

var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/kanon0111/sdlg-edu/runs"))

// Fingerprint identifies a generation run. Runs with equal fingerprints
// produce byte-identical output.
func Fingerprint(seed int64, perTopic int, specs []Spec, settings string) uuid.UUID {
	var b strings.Builder
	fmt.Fprintf(&b, "seed=%d\nper_topic=%d\nsettings=%s\n", seed, perTopic, settings)
	for _, s := range specs {
		fmt.Fprintf(&b, "%q\t%q\n", s.Topic, s.Pattern)
	}
	return uuid.NewSHA1(runNamespace, []byte(b.String()))
}
