package typesig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func set(tokens ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		s[t] = struct{}{}
	}
	return s
}

func TestTokenSet(t *testing.T) {
	assert.Equal(t, set("String"), TokenSet("String"))
	assert.Equal(t, set("HashSet", "String"), TokenSet("HashSet<String>"))
	assert.Equal(t, set("HashMap", "Id", "String"), TokenSet("HashMap<Id,String>"))
	assert.Equal(t, set("HashMap", "Id", "String"), TokenSet("HashMap<Id, String>"))
}

func TestDecompose_FlattensNestedGenerics(t *testing.T) {
	assert.Equal(t, []string{"Outer", "Inner", "A", "B", "C"}, Decompose("Outer<Inner<A,B>,C>"))
	assert.Equal(t, []string{"Map", "Id", "List", "String"}, Decompose("Map<Id,List<String>>"))
}

func TestDecompose_KeepsOrderAndDuplicates(t *testing.T) {
	assert.Equal(t, []string{"HashMap", "String", "String"}, Decompose("HashMap<String,String>"))
}

func TestDecompose_DropsEmptyFragments(t *testing.T) {
	assert.Empty(t, Decompose(""))
	assert.Empty(t, Decompose("<>,"))
	assert.Equal(t, []string{"Vec", "u8"}, Decompose("Vec< u8 >"))
}

func TestDecompose_Deterministic(t *testing.T) {
	inputs := []string{"String", "Option<Box<Node>>", "Result<(),Error>", "fn(i32)->i32"}
	for _, in := range inputs {
		assert.Equal(t, Decompose(in), Decompose(in), in)
		assert.Equal(t, TokenSet(in), TokenSet(in), in)
	}
}

func TestHasDependencies(t *testing.T) {
	assert.False(t, HasDependencies("String"))
	assert.False(t, HasDependencies("u64"))
	assert.False(t, HasDependencies("&'astr"))
	assert.True(t, HasDependencies("Vec<User>"))
	assert.True(t, HasDependencies("(A,B)"))
	assert.True(t, HasDependencies("fn()->u8"))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "HashMap<Id,String>", Canonical("HashMap<Id, String>"))
	assert.Equal(t, "&'staticstr", Canonical("&'static str"))
	assert.Equal(t, "Vec<u8>", Canonical("Vec<\n\tu8\n>"))
}

func TestIntersects(t *testing.T) {
	names := set("User", "Profile")
	assert.True(t, Intersects("Profile", names))
	assert.True(t, Intersects("Vec<Profile>", names))
	assert.False(t, Intersects("String", names))
	assert.False(t, Intersects("ProfileId", names))
}
