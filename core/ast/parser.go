package ast

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/tristendillon/ruml/core/logger"
	"github.com/tristendillon/ruml/core/models"
	"github.com/tristendillon/ruml/core/typesig"
)

// ErrSyntax is returned when the source does not parse cleanly.
var ErrSyntax = errors.New("syntax error")

// Parser reads Rust source into compilation units. The language is shared;
// a tree-sitter parser is created per call so a Parser is safe for
// concurrent use.
type Parser struct {
	lang *sitter.Language
}

func NewParser() *Parser {
	return &Parser{lang: rust.GetLanguage()}
}

func (p *Parser) ParseFile(ctx context.Context, path string) (*models.CompilationUnit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	unit, err := p.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parsed %s (%d top-level items)", path, len(unit.Decls))
	return unit, nil
}

func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*models.CompilationUnit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(p.lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w in %s at %s", ErrSyntax, path, errorPosition(root))
	}

	unit := &models.CompilationUnit{Path: path}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		unit.Decls = append(unit.Decls, declaration(root.NamedChild(i), src))
	}
	return unit, nil
}

func errorPosition(node *sitter.Node) string {
	var find func(n *sitter.Node) *sitter.Node
	find = func(n *sitter.Node) *sitter.Node {
		if n.Type() == "ERROR" || n.IsMissing() {
			return n
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if found := find(n.Child(i)); found != nil {
				return found
			}
		}
		return nil
	}

	if bad := find(node); bad != nil {
		node = bad
	}
	pos := node.StartPoint()
	return fmt.Sprintf("%d:%d", pos.Row+1, pos.Column+1)
}

func declaration(node *sitter.Node, src []byte) models.Declaration {
	switch node.Type() {
	case "struct_item":
		return models.NewStruct(structDecl(node, src))
	case "enum_item":
		return models.NewEnum(models.EnumDecl{
			Name:       fieldContent(node, "name", src),
			Visibility: visibility(node),
		})
	case "impl_item":
		return models.NewImpl(implDecl(node, src))
	default:
		return models.Declaration{Kind: models.DeclOther}
	}
}

func visibility(node *sitter.Node) models.Visibility {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if node.NamedChild(i).Type() == "visibility_modifier" {
			return models.Public
		}
	}
	return models.Private
}

func fieldContent(node *sitter.Node, field string, src []byte) string {
	if child := node.ChildByFieldName(field); child != nil {
		return child.Content(src)
	}
	return ""
}

// typeText joins the leaf tokens of a type node, leaving out comments, so
// `Option<Profile /* primary */>` reads as `Option<Profile>`. Adjacent words
// keep one space (`dyn Trait`, `&'a mut T`).
func typeText(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch n.Type() {
		case "line_comment", "block_comment", "comment":
			return
		}
		if n.ChildCount() == 0 {
			token := n.Content(src)
			if sb.Len() > 0 && token != "" && isWordByte(sb.String()[sb.Len()-1]) && isWordByte(token[0]) {
				sb.WriteByte(' ')
			}
			sb.WriteString(token)
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(node)
	return sb.String()
}

func isWordByte(b byte) bool {
	return b == '_' || b >= 0x80 ||
		('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

func structDecl(node *sitter.Node, src []byte) models.StructDecl {
	decl := models.StructDecl{
		Name:       fieldContent(node, "name", src),
		Visibility: visibility(node),
		Shape:      models.ShapeUnit,
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}

	switch body.Type() {
	case "field_declaration_list":
		decl.Shape = models.ShapeNamed
		for i := 0; i < int(body.NamedChildCount()); i++ {
			f := body.NamedChild(i)
			if f.Type() != "field_declaration" {
				continue
			}
			decl.Fields = append(decl.Fields, models.FieldDecl{
				Name:       fieldContent(f, "name", src),
				Visibility: visibility(f),
				TypeExpr:   typeText(f.ChildByFieldName("type"), src),
			})
		}
	case "ordered_field_declaration_list":
		decl.Shape = models.ShapeTuple
	}
	return decl
}

func implDecl(node *sitter.Node, src []byte) models.ImplDecl {
	decl := models.ImplDecl{
		IsTraitImpl: node.ChildByFieldName("trait") != nil,
	}
	if target := node.ChildByFieldName("type"); target != nil {
		decl.Target = typePath(target, src)
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return decl
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		item := body.NamedChild(i)
		if item.Type() != "function_item" {
			continue
		}
		decl.Methods = append(decl.Methods, methodDecl(item, src))
	}
	return decl
}

// typePath resolves the self type of an impl block into path segments.
// Anything that is not a plain, scoped or generic path yields no segments.
func typePath(node *sitter.Node, src []byte) models.TypePath {
	switch node.Type() {
	case "type_identifier":
		return models.TypePath{Segments: []string{node.Content(src)}}
	case "scoped_type_identifier":
		var segments []string
		for _, s := range strings.Split(typesig.Canonical(node.Content(src)), "::") {
			if s != "" {
				segments = append(segments, s)
			}
		}
		return models.TypePath{Segments: segments}
	case "generic_type":
		inner := node.ChildByFieldName("type")
		if inner == nil {
			return models.TypePath{Generic: true}
		}
		path := typePath(inner, src)
		path.Generic = true
		return path
	default:
		return models.TypePath{}
	}
}

func methodDecl(node *sitter.Node, src []byte) models.MethodDecl {
	decl := models.MethodDecl{
		Name:       fieldContent(node, "name", src),
		Visibility: visibility(node),
	}

	params := node.ChildByFieldName("parameters")
	if params == nil {
		return decl
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(i)
		switch param.Type() {
		case "self_parameter":
			decl.Params = append(decl.Params, models.ParamDecl{
				Receiver: true,
				TypeExpr: param.Content(src),
			})
		case "parameter":
			decl.Params = append(decl.Params, parameter(param, src))
		}
	}
	return decl
}

func parameter(node *sitter.Node, src []byte) models.ParamDecl {
	param := models.ParamDecl{TypeExpr: typeText(node.ChildByFieldName("type"), src)}

	pattern := node.ChildByFieldName("pattern")
	if pattern == nil {
		return param
	}
	pattern = unwrapBinding(pattern)
	switch pattern.Type() {
	case "self":
		param.Receiver = true
	case "identifier":
		param.Binding = models.IdentBinding(pattern.Content(src))
	}
	return param
}

// unwrapBinding looks through `mut x` and `ref x` to the bound pattern.
func unwrapBinding(pattern *sitter.Node) *sitter.Node {
	for pattern.Type() == "mut_pattern" || pattern.Type() == "ref_pattern" {
		var inner *sitter.Node
		for i := 0; i < int(pattern.NamedChildCount()); i++ {
			if c := pattern.NamedChild(i); c.Type() != "mutable_specifier" {
				inner = c
				break
			}
		}
		if inner == nil {
			return pattern
		}
		pattern = inner
	}
	return pattern
}
