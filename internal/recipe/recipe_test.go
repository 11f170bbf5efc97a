package recipe_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kanon0111/sdlg-edu/internal/pattern"
	"github.com/kanon0111/sdlg-edu/internal/recipe"
)

func TestParse(t *testing.T) {
	in := strings.Join([]string{
		`{"topic":"present perfect","pattern":"contrast_present_perfect_vs_past"}`,
		``,
		`   `,
		`{"topic":"articles","pattern":"choose_correct_article","extra":1}`,
		`{"pattern":"xyz"}`,
		`{}`,
	}, "\n")

	specs, err := recipe.Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, []recipe.Spec{
		{Topic: "present perfect", Pattern: pattern.IDPerfectVsPast, Kind: pattern.KindPerfectVsPast},
		{Topic: "articles", Pattern: pattern.IDArticle, Kind: pattern.KindArticle},
		{Topic: recipe.DefaultTopic, Pattern: "xyz", Kind: pattern.KindFallback},
		{Topic: recipe.DefaultTopic, Pattern: pattern.IDGeneric, Kind: pattern.KindFallback},
	}, specs)
}

func TestParseEmpty(t *testing.T) {
	specs, err := recipe.Parse(strings.NewReader("\n\n"))
	require.NoError(t, err)
	require.Empty(t, specs)
}

func TestParseErrorLine(t *testing.T) {
	in := "{\"topic\":\"a\"}\n\n{not json}\n"
	_, err := recipe.Parse(strings.NewReader(in))
	require.Error(t, err)

	var pe *recipe.ParseError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, 3, pe.Line)
	require.Contains(t, err.Error(), "recipe line 3")

	var syntax *json.SyntaxError
	require.True(t, errors.As(err, &syntax))
}

func TestFingerprint(t *testing.T) {
	specs := []recipe.Spec{recipe.NewSpec("misc", "xyz")}
	a := recipe.Fingerprint(42, 10, specs, "s")
	require.Equal(t, a, recipe.Fingerprint(42, 10, specs, "s"))
	require.NotEqual(t, a, recipe.Fingerprint(43, 10, specs, "s"))
	require.NotEqual(t, a, recipe.Fingerprint(42, 11, specs, "s"))
	require.NotEqual(t, a, recipe.Fingerprint(42, 10, specs, "t"))
	require.NotEqual(t, a, recipe.Fingerprint(42, 10, append(specs, specs[0]), "s"))
	require.Equal(t, 5, int(a.Version()))
}
