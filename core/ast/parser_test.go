package ast

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tristendillon/ruml/core/builder"
	"github.com/tristendillon/ruml/core/models"
	"github.com/tristendillon/ruml/core/render"
)

const accountSource = `
use std::collections::HashMap;

/// An account.
#[derive(Debug, Clone)]
pub struct Account {
    pub id: String,
    owner: Option<User>,
    pub(crate) balances: HashMap<Currency, u64>,
}

struct Meters(f64);

struct Marker;

pub enum Currency {
    Eur,
    Usd,
}

impl Account {
    pub fn new(id: String) -> Self {
        Account { id, owner: None, balances: HashMap::new() }
    }

    fn deposit(&mut self, mut amount: u64, (a, b): (u8, u8)) {}

    pub fn boxed(self: Box<Self>) {}
}

impl std::fmt::Display for Account {
    fn fmt(&self, f: &mut std::fmt::Formatter) -> std::fmt::Result {
        write!(f, "{}", self.id)
    }
}

impl<T> Wrapper<T> {
    fn inner(&self) -> &T { &self.0 }
}

impl crate::model::Account {
    fn qualified(&self) {}
}

fn main() {}
`

func parse(t *testing.T, src string) *models.CompilationUnit {
	t.Helper()
	unit, err := NewParser().Parse(context.Background(), "account.rs", []byte(src))
	require.NoError(t, err)
	require.NotNil(t, unit)
	return unit
}

func declsOf(unit *models.CompilationUnit, kind models.DeclKind) []models.Declaration {
	var out []models.Declaration
	for _, d := range unit.Decls {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

func TestParse_Structs(t *testing.T) {
	unit := parse(t, accountSource)
	assert.Equal(t, "account.rs", unit.Path)

	structs := declsOf(unit, models.DeclStruct)
	require.Len(t, structs, 3)

	account := structs[0].Struct
	assert.Equal(t, "Account", account.Name)
	assert.Equal(t, models.Public, account.Visibility)
	assert.Equal(t, models.ShapeNamed, account.Shape)
	assert.Equal(t, []models.FieldDecl{
		{Name: "id", Visibility: models.Public, TypeExpr: "String"},
		{Name: "owner", Visibility: models.Private, TypeExpr: "Option<User>"},
		{Name: "balances", Visibility: models.Public, TypeExpr: "HashMap<Currency,u64>"},
	}, account.Fields)

	meters := structs[1].Struct
	assert.Equal(t, "Meters", meters.Name)
	assert.Equal(t, models.Private, meters.Visibility)
	assert.Equal(t, models.ShapeTuple, meters.Shape)
	assert.Empty(t, meters.Fields)

	marker := structs[2].Struct
	assert.Equal(t, "Marker", marker.Name)
	assert.Equal(t, models.ShapeUnit, marker.Shape)
}

func TestParse_Enums(t *testing.T) {
	enums := declsOf(parse(t, accountSource), models.DeclEnum)
	require.Len(t, enums, 1)
	assert.Equal(t, models.EnumDecl{Name: "Currency", Visibility: models.Public}, *enums[0].Enum)
}

func TestParse_ImplBlocks(t *testing.T) {
	impls := declsOf(parse(t, accountSource), models.DeclImpl)
	require.Len(t, impls, 4)

	inherent := impls[0].Impl
	assert.False(t, inherent.IsTraitImpl)
	assert.Equal(t, models.TypePath{Segments: []string{"Account"}}, inherent.Target)
	require.Len(t, inherent.Methods, 3)

	newFn := inherent.Methods[0]
	assert.Equal(t, "new", newFn.Name)
	assert.Equal(t, models.Public, newFn.Visibility)
	assert.Equal(t, []models.ParamDecl{
		{Binding: models.IdentBinding("id"), TypeExpr: "String"},
	}, newFn.Params)

	deposit := inherent.Methods[1]
	assert.Equal(t, "deposit", deposit.Name)
	assert.Equal(t, models.Private, deposit.Visibility)
	require.Len(t, deposit.Params, 3)
	assert.True(t, deposit.Params[0].Receiver)
	assert.Equal(t, models.IdentBinding("amount"), deposit.Params[1].Binding)
	assert.Equal(t, "u64", deposit.Params[1].TypeExpr)
	assert.False(t, deposit.Params[2].Binding.Simple)
	assert.False(t, deposit.Params[2].Receiver)

	// A typed `self: Box<Self>` counts as a receiver and is dropped like
	// `&self`, so it never shows up as a `self: Box<Self>` parameter.
	boxed := inherent.Methods[2]
	require.Len(t, boxed.Params, 1)
	assert.True(t, boxed.Params[0].Receiver)

	display := impls[1].Impl
	assert.True(t, display.IsTraitImpl)
	assert.Equal(t, []string{"Account"}, display.Target.Segments)

	generic := impls[2].Impl
	assert.Equal(t, models.TypePath{Segments: []string{"Wrapper"}, Generic: true}, generic.Target)
	assert.False(t, generic.Target.Simple())

	qualified := impls[3].Impl
	assert.Equal(t, []string{"crate", "model", "Account"}, qualified.Target.Segments)
	assert.False(t, qualified.Target.Simple())
}

func TestParse_OtherItems(t *testing.T) {
	unit := parse(t, accountSource)
	others := declsOf(unit, models.DeclOther)
	assert.NotEmpty(t, others, "use, fn and comment items are kept as other declarations")
}

const commentedSource = `
pub struct User {
    owner: Option<Profile /* primary */>,
    backup: Option<
        Profile, // fallback
    >,
    handler: Box<dyn Fn(&'a mut Profile)>,
}

pub struct Profile {}

impl User {
    pub fn link(&self, other: Vec<Profile /* peers */>) {}
}
`

func TestParse_TypesIgnoreComments(t *testing.T) {
	unit := parse(t, commentedSource)

	user := declsOf(unit, models.DeclStruct)[0].Struct
	assert.Equal(t, []models.FieldDecl{
		{Name: "owner", TypeExpr: "Option<Profile>"},
		{Name: "backup", TypeExpr: "Option<Profile,>"},
		{Name: "handler", TypeExpr: "Box<dyn Fn(&'a mut Profile)>"},
	}, user.Fields)

	link := declsOf(unit, models.DeclImpl)[0].Impl.Methods[0]
	require.Len(t, link.Params, 2)
	assert.Equal(t, "Vec<Profile>", link.Params[1].TypeExpr)
}

func TestParse_CommentedTypesStillProduceEdges(t *testing.T) {
	out := render.Render(builder.Build(parse(t, commentedSource)))

	assert.Contains(t, out, "    + owner: Option<Profile>\n")
	assert.Contains(t, out, "    + backup: Option<Profile,>\n")
	assert.Contains(t, out, "    + link(other: Vec<Profile>)\n")
	assert.Contains(t, out, "\"User\" <-- \"Option<Profile>\"\n")
	assert.Contains(t, out, "\"User\" <-- \"Option<Profile,>\"\n")
	assert.NotContains(t, out, "/*")
	assert.NotContains(t, out, "//")
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := NewParser().Parse(context.Background(), "broken.rs", []byte("pub struct Broken {\n    id: ,\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
	assert.Contains(t, err.Error(), "broken.rs")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "user.rs")
	require.NoError(t, os.WriteFile(path, []byte("pub struct User { pub id: String }\n"), 0o644))

	unit, err := NewParser().ParseFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, unit.Decls, 1)
	assert.Equal(t, "User", unit.Decls[0].Struct.Name)

	_, err = NewParser().ParseFile(context.Background(), filepath.Join(dir, "missing.rs"))
	assert.Error(t, err)
}
