package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// table is a map backed source; nil values mean absent.
type table map[string]*string

func (tb table) Translate(_ context.Context, text string) (string, bool, error) {
	v, ok := tb[text]
	if !ok || v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

func str(s string) *string { return &s }

// counting records how often it was asked.
type counting struct {
	Source
	calls int
}

func (c *counting) Translate(ctx context.Context, text string) (string, bool, error) {
	c.calls++
	return c.Source.Translate(ctx, text)
}

func failing(err error) Source {
	return SourceFunc(func(context.Context, string) (string, bool, error) {
		return "", false, err
	})
}

func TestCoalesce(t *testing.T) {
	a := table{"Arzt": str("doctor"), "leer": str(""), "Haus": nil}
	b := table{"Arzt": str("physician"), "leer": str("empty"), "Haus": str("house"), "Baum": str("tree")}
	ctx := context.Background()

	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"Arzt", "doctor", true},
		{"leer", "empty", true},
		{"Haus", "house", true},
		{"Baum", "tree", true},
		{"Nichts", "", false},
	}
	src := Coalesce(a, b)
	for _, tt := range tests {
		got, ok, err := src.Translate(ctx, tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestCoalesce_StopsAtFirstHit(t *testing.T) {
	first := &counting{Source: table{"Arzt": str("doctor")}}
	second := &counting{Source: table{"Arzt": str("physician")}}

	got, ok, err := Coalesce(first, second).Translate(context.Background(), "Arzt")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "doctor", got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestCoalesce_AllEmpty(t *testing.T) {
	got, ok, err := Coalesce(table{"x": str("")}, table{}).Translate(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, got)

	_, ok, err = Coalesce().Translate(context.Background(), "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppend(t *testing.T) {
	a := table{"Arzt": str("m Doctor, physician"), "leer": str("")}
	b := table{"Arzt": str("doctor, medic"), "Baum": str("tree")}
	ctx := context.Background()

	got, ok, err := Append("", a, b).Translate(ctx, "Arzt")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "m doctor, physician, doctor, medic", got)

	got, ok, err = Append("; ", a, b).Translate(ctx, "Baum")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "tree", got)

	_, ok, err = Append("", a, b).Translate(ctx, "leer")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAppend_IsUnionOfCandidates(t *testing.T) {
	a := table{"w": str("One, two")}
	b := table{"w": str("TWO, three")}
	c := table{"w": nil}

	got, ok, err := Append(" | ", a, b, c).Translate(context.Background(), "w")
	require.NoError(t, err)
	require.True(t, ok)

	parts := strings.Split(got, " | ")
	assert.ElementsMatch(t, []string{"one", "two", "three"}, parts)
	assert.Equal(t, []string{"one", "two", "three"}, parts)
}

func TestCombinators_PropagateErrors(t *testing.T) {
	boom := errors.New("backend down")
	ctx := context.Background()

	_, _, err := Coalesce(table{}, Named{Name: "argos", Source: failing(boom)}).Translate(ctx, "x")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "argos")

	_, _, err = Append("", failing(boom)).Translate(ctx, "x")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "#0")
}

func TestCombinators_Nest(t *testing.T) {
	inner := Append("", table{"w": str("a")}, table{"w": str("b")})
	outer := Coalesce(table{}, inner)

	got, ok, err := outer.Translate(context.Background(), "w")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a, b", got)
}

func TestCombinators_CopySources(t *testing.T) {
	sources := []Source{table{"w": str("first")}}
	src := Coalesce(sources...)
	sources[0] = table{"w": str("replaced")}

	got, _, err := src.Translate(context.Background(), "w")
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}
