package grouping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mark3labs/swagger2ts/internal/collector"
	"github.com/mark3labs/swagger2ts/internal/config"
	"github.com/mark3labs/swagger2ts/internal/spec"
)

func resolve(t *testing.T, opts config.Options) config.Resolved {
	t.Helper()
	r, err := config.Resolve(opts)
	require.NoError(t, err)
	return r
}

func fn(name string, tags ...string) *collector.Function {
	return &collector.Function{Name: name, Description: name + " desc", Tags: tags}
}

func methodNames(c *Class) []string {
	out := make([]string, 0, len(c.Methods))
	for _, m := range c.Methods {
		out = append(out, m.Name)
	}
	return out
}

func TestBuild_NoGlobalTags(t *testing.T) {
	untagged := fn("getA")
	unknown := fn("getB", "nope")
	m := Build(&spec.Document{}, []*collector.Function{untagged, unknown}, resolve(t, config.Options{}))

	require.Len(t, m.Classes, 1)
	common := m.Classes[0]
	assert.Equal(t, Common, common.Name)
	assert.Empty(t, common.Description)
	assert.Equal(t, []string{"getA", "getB"}, methodNames(common))
	assert.False(t, m.HasTags)
	assert.Nil(t, m.Summary())
}

func TestBuild_PositionalNamesAndMapper(t *testing.T) {
	doc := &spec.Document{Tags: []spec.Tag{
		{Name: "pet", Description: "Everything about pets"},
		{Name: "store"},
		{Name: "user", Description: "Users"},
	}}
	cfg := resolve(t, config.Options{TagMapper: config.StaticTagMapper(map[string]string{"user": "Users"})})
	m := Build(doc, nil, cfg)

	names := make([]string, 0, len(m.Classes))
	for _, c := range m.Classes {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{Common, "tag0", "tag1", "Users"}, names)

	pet, ok := m.Class("tag0")
	require.True(t, ok)
	assert.Equal(t, "pet Everything about pets", pet.Description)
	store, _ := m.Class("tag1")
	assert.Equal(t, "store", store.Description)

	name, ok := m.ClassFor("user")
	assert.True(t, ok)
	assert.Equal(t, "Users", name)
}

func TestBuild_MergedDescriptions(t *testing.T) {
	doc := &spec.Document{Tags: []spec.Tag{
		{Name: "pet", Description: "Pets"},
		{Name: "animal", Description: ""},
		{Name: "beast", Description: "Beasts"},
	}}
	cfg := resolve(t, config.Options{TagMapper: func(string) (string, bool) { return "Zoo", true }})
	m := Build(doc, []*collector.Function{fn("a", "pet"), fn("b", "beast")}, cfg)

	require.Len(t, m.Classes, 2)
	zoo := m.Classes[1]
	assert.Equal(t, "pet Pets\nanimal\nbeast Beasts", zoo.Description)
	assert.Equal(t, []string{"a", "b"}, methodNames(zoo))

	summary := m.Summary()
	require.Len(t, summary, 2)
	assert.Equal(t, TagSummary{Key: Common, Name: Common}, summary[0])
	assert.Equal(t, "Zoo", summary[1].Key)
	assert.Equal(t, "pet, animal, beast", summary[1].Name)
	assert.Equal(t, "Pets, Beasts", summary[1].Description)
	assert.Equal(t, []API{{Name: "a", Description: "a desc"}, {Name: "b", Description: "b desc"}}, summary[1].APIs)
}

func TestBuild_TagFallback(t *testing.T) {
	doc := &spec.Document{Tags: []spec.Tag{{Name: "pet"}}}
	untagged := fn("getA")
	unknown := fn("getB", "ghost")
	m := Build(doc, []*collector.Function{untagged, unknown}, resolve(t, config.Options{}))

	common, ok := m.Class(Common)
	require.True(t, ok)
	assert.Equal(t, []string{"getA", "getB"}, methodNames(common))
	pet, _ := m.Class("tag0")
	assert.Empty(t, pet.Methods)
}

func TestBuild_MultiTagMembership(t *testing.T) {
	doc := &spec.Document{Tags: []spec.Tag{{Name: "pet"}, {Name: "store"}}}
	shared := fn("postOrder", "pet", "store")
	m := Build(doc, []*collector.Function{shared}, resolve(t, config.Options{}))

	pet, _ := m.Class("tag0")
	store, _ := m.Class("tag1")
	require.Len(t, pet.Methods, 1)
	require.Len(t, store.Methods, 1)
	assert.Same(t, shared, pet.Methods[0])
	assert.Same(t, pet.Methods[0], store.Methods[0])
}

func TestBuild_SameClassAddedOnce(t *testing.T) {
	doc := &spec.Document{Tags: []spec.Tag{{Name: "a"}, {Name: "b"}}}
	cfg := resolve(t, config.Options{TagMapper: func(string) (string, bool) { return "One", true }})
	both := fn("x", "a", "b", "ghost", "zzz")
	m := Build(doc, []*collector.Function{both}, cfg)

	one, _ := m.Class("One")
	assert.Len(t, one.Methods, 1)
	common, _ := m.Class(Common)
	assert.Len(t, common.Methods, 1)
}
