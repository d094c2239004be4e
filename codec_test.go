package dynamic

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleJSON = `{
  "zeta": 1,
  "alpha": {"inner key": "x", "n": 2.5},
  "list": [1, "two", {"three": 3}],
  "flag": true,
  "none": null
}`

func TestFromJSON(t *testing.T) {
	d, err := FromJSON([]byte(sampleJSON))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "list", "flag", "none"}, d.Keys())
	assert.Equal(t, Int(1), mustGet(t, d, "zeta"))
	assert.Equal(t, Bool(true), mustGet(t, d, "flag"))
	assert.Equal(t, Null{}, mustGet(t, d, "none"))

	alpha, ok := mustGet(t, d, "alpha").(*Dynamic)
	require.True(t, ok)
	assert.Equal(t, []string{"inner_key", "n"}, alpha.Keys())
	assert.Equal(t, Float(2.5), mustGet(t, alpha, "n"))

	list, ok := mustGet(t, d, "list").(Opaque)
	require.True(t, ok)
	want := []any{int64(1), "two", map[string]any{"three": int64(3)}}
	if diff := cmp.Diff(want, list.V); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestFromJSON_Errors(t *testing.T) {
	for _, in := range []string{``, `[1,2]`, `"str"`, `{"a":`} {
		_, err := FromJSON([]byte(in))
		assert.Error(t, err, "input %q", in)
	}

	_, err := FromJSON([]byte(`[1]`))
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestFromJSON_TrailingInput(t *testing.T) {
	for _, in := range []string{`{"a":1} {"b":2}`, `{"a":1} garbage`, `{"a":1}]`} {
		_, err := FromJSON([]byte(in))
		assert.Error(t, err, "input %q", in)
	}

	d, err := FromJSON([]byte("{\"a\":1}\n  \n"))
	require.NoError(t, err)
	assert.Equal(t, Int(1), mustGet(t, d, "a"))
}

func TestUnmarshalJSON_TrailingInputLeavesUnchanged(t *testing.T) {
	d := mustFrom(t, map[string]any{"keep": true})
	require.Error(t, d.UnmarshalJSON([]byte(`{"added":1} {}`)))
	assert.False(t, d.Contains("added"))
}

func TestJSON_RoundTrip(t *testing.T) {
	d, err := FromJSON([]byte(sampleJSON))
	require.NoError(t, err)

	data, err := json.Marshal(d)
	require.NoError(t, err)

	back, err := FromJSON(data)
	require.NoError(t, err)
	assert.True(t, d.Equal(back), "round trip changed content: %s vs %s", d, back)
	assert.Equal(t, d.Keys(), back.Keys())
}

func TestMarshalJSON_OrderAndCallables(t *testing.T) {
	d := New()
	_ = d.Set("b", 1)
	_ = d.Set("a", map[string]any{"y": "z"})
	_ = d.Set("fn", Func(func(...any) (any, error) { return nil, nil }))
	_ = d.Set("c", []int{1})

	data, err := d.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":{"y":"z"},"c":[1]}`, string(data))
}

func TestUnmarshalJSON_Merges(t *testing.T) {
	d, err := From(map[string]any{"keep": 1, "over": "old"})
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal([]byte(`{"over":"new","added":true}`), d))
	assert.True(t, d.Equal(map[string]any{"keep": 1, "over": "new", "added": true}))
}

func TestUnmarshalJSON_ZeroValue(t *testing.T) {
	var d Dynamic
	require.NoError(t, json.Unmarshal([]byte(`{"a":{"b":1}}`), &d))
	v, err := d.Attr("a.b")
	require.NoError(t, err)
	assert.Equal(t, Int(1), v)
}

func TestUnmarshalJSON_StrictTypingAtomic(t *testing.T) {
	d := New(WithStrictTyping(true))
	require.NoError(t, d.Set("n", 1))

	err := d.UnmarshalJSON([]byte(`{"added":1,"n":"str"}`))
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.False(t, d.Contains("added"))
}

const sampleYAML = `
zeta: 1
alpha:
  inner key: x
  n: 2.5
defaults: &defaults
  retries: 3
  timeout: 10
service:
  <<: *defaults
  timeout: 30
list:
  - 1
  - two
none: null
`

func TestFromYAML(t *testing.T) {
	d, err := FromYAML([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, []string{"zeta", "alpha", "defaults", "service", "list", "none"}, d.Keys())
	assert.Equal(t, Int(1), mustGet(t, d, "zeta"))
	assert.Equal(t, Null{}, mustGet(t, d, "none"))

	v, err := d.Attr("alpha.inner_key")
	require.NoError(t, err)
	assert.Equal(t, String("x"), v)

	v, err = d.Attr("service.retries")
	require.NoError(t, err)
	assert.Equal(t, Int(3), v)

	v, err = d.Attr("service.timeout")
	require.NoError(t, err)
	assert.Equal(t, Int(30), v)

	list := mustGet(t, d, "list").(Opaque)
	if diff := cmp.Diff([]any{1, "two"}, list.V); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestFromYAML_MergeKeyPrecedence(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want map[string]any
	}{
		{
			name: "own key before merge",
			doc:  "base: &b\n  a: 1\n  c: 3\nx:\n  a: 2\n  <<: *b\n",
			want: map[string]any{"a": 2, "c": 3},
		},
		{
			name: "own key after merge",
			doc:  "base: &b\n  a: 1\n  c: 3\nx:\n  <<: *b\n  a: 2\n",
			want: map[string]any{"a": 2, "c": 3},
		},
		{
			name: "earlier mapping in sequence wins",
			doc:  "p: &p\n  a: 1\nq: &q\n  a: 2\n  b: 2\nx:\n  <<: [*p, *q]\n",
			want: map[string]any{"a": 1, "b": 2},
		},
		{
			name: "own key beats whole sequence",
			doc:  "p: &p\n  a: 1\nq: &q\n  a: 2\nx:\n  a: 3\n  <<: [*p, *q]\n",
			want: map[string]any{"a": 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := FromYAML([]byte(tt.doc))
			require.NoError(t, err)

			x, ok := mustGet(t, d, "x").(*Dynamic)
			require.True(t, ok)
			assert.True(t, x.Equal(tt.want), "x = %s, want %v", x, tt.want)
		})
	}
}

func TestFromYAML_MergeKeysFirst(t *testing.T) {
	d, err := FromYAML([]byte("base: &b\n  retries: 3\nx:\n  name: svc\n  <<: *b\n"))
	require.NoError(t, err)

	x := mustGet(t, d, "x").(*Dynamic)
	assert.Equal(t, []string{"retries", "name"}, x.Keys())
}

func TestFromYAML_Empty(t *testing.T) {
	d, err := FromYAML(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestFromYAML_NotMapping(t *testing.T) {
	_, err := FromYAML([]byte("- a\n- b\n"))
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = FromYAML([]byte("a: [unterminated"))
	assert.Error(t, err)
}

func TestYAML_RoundTrip(t *testing.T) {
	d, err := FromYAML([]byte(sampleYAML))
	require.NoError(t, err)

	data, err := yaml.Marshal(d)
	require.NoError(t, err)

	back, err := FromYAML(data)
	require.NoError(t, err)
	assert.True(t, d.Equal(back), "round trip changed content:\n%s", data)
	assert.Equal(t, d.Keys(), back.Keys())
}

func TestMarshalYAML_Order(t *testing.T) {
	d := New()
	_ = d.Set("b", 1)
	_ = d.Set("a", map[string]any{"y": "z"})
	_ = d.Set("fn", Func(func(...any) (any, error) { return nil, nil }))

	data, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "b: 1\na:\n    y: z\n", string(data))
}

func TestUnmarshalYAML_IntoDynamic(t *testing.T) {
	d := New(WithStrictSubtraction(false))
	require.NoError(t, yaml.Unmarshal([]byte("a:\n  b: 1\n"), d))

	nested := mustGet(t, d, "a").(*Dynamic)
	assert.Equal(t, Bool(false), mustGet(t, nested, FieldStrictSubtraction))
}
