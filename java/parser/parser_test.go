package parser

import (
	"encoding/json"
	"strings"
	"testing"
)

func parse(t *testing.T, src string, opts ...Option) *Node {
	t.Helper()
	node := ParseCompilationUnit(strings.NewReader(src), opts...).Finish()
	if node == nil {
		t.Fatal("Finish returned nil")
	}
	return node
}

func kinds(nodes []*Node) []NodeKind {
	var out []NodeKind
	for _, n := range nodes {
		out = append(out, n.Kind)
	}
	return out
}

func assertKinds(t *testing.T, got []*Node, want ...NodeKind) {
	t.Helper()
	gotKinds := kinds(got)
	if len(gotKinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", gotKinds, want)
	}
	for i := range want {
		if gotKinds[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", gotKinds, want)
		}
	}
}

func modifierLiterals(decl *Node) []string {
	mods := decl.FirstChildOfKind(KindModifiers)
	if mods == nil {
		return nil
	}
	var out []string
	for _, child := range mods.Children {
		switch child.Kind {
		case KindIdentifier:
			out = append(out, child.TokenLiteral())
		case KindAnnotation:
			out = append(out, "@"+child.FirstChildOfKind(KindQualifiedName).QualifiedName())
		}
	}
	return out
}

const personSource = `package com.example;

import java.util.List;
import static java.util.Collections.*;

/** A person. */
@Entity(name = "people")
public final class Person extends Base implements Comparable<Person>, java.io.Serializable {
    private String name, nick[];
    public static final int MAX = compute(1, 2), MIN = 0;
    private Map<String, Integer> counts = new HashMap<String, Integer>(), other;

    public Person(String name) { this.name = name; }

    public String getName() { return "}" + name; }
    public <T> void visit(T t, String... rest) throws java.io.IOException, RuntimeException { if (x) { } }
    abstract int[] values();
    static { init(); }
    { instance(); }

    static class Inner { }
}
`

func TestParseClass(t *testing.T) {
	cu := parse(t, personSource)
	assertKinds(t, cu.Children, KindPackageDecl, KindImportDecl, KindImportDecl, KindClassDecl)

	t.Run("package", func(t *testing.T) {
		qn := cu.Children[0].FirstChildOfKind(KindQualifiedName)
		if got := qn.QualifiedName(); got != "com.example" {
			t.Errorf("package = %q", got)
		}
	})

	t.Run("imports", func(t *testing.T) {
		plain := cu.Children[1]
		if got := plain.FirstChildOfKind(KindQualifiedName).QualifiedName(); got != "java.util.List" {
			t.Errorf("import = %q", got)
		}
		static := cu.Children[2]
		if static.Name() != "static" {
			t.Errorf("expected static import marker, got %q", static.Name())
		}
		if got := static.FirstChildOfKind(KindQualifiedName).QualifiedName(); got != "java.util.Collections.*" {
			t.Errorf("static import = %q", got)
		}
	})

	class := cu.Children[3]

	t.Run("header", func(t *testing.T) {
		if class.Name() != "Person" {
			t.Errorf("name = %q", class.Name())
		}
		mods := modifierLiterals(class)
		want := []string{"@Entity", "public", "final"}
		if strings.Join(mods, " ") != strings.Join(want, " ") {
			t.Errorf("modifiers = %v, want %v", mods, want)
		}
		ext := class.FirstChildOfKind(KindExtendsClause)
		if ext == nil || len(ext.Children) != 1 {
			t.Fatalf("extends clause = %v", ext)
		}
		impl := class.FirstChildOfKind(KindImplementsClause)
		if impl == nil || len(impl.Children) != 2 {
			t.Fatalf("implements clause = %v", impl)
		}
		if impl.Children[0].FirstChildOfKind(KindTypeArguments) == nil {
			t.Error("expected type arguments on Comparable<Person>")
		}
	})

	body := class.FirstChildOfKind(KindBlock)
	assertKinds(t, body.Children,
		KindFieldDecl, KindFieldDecl, KindFieldDecl,
		KindConstructorDecl,
		KindMethodDecl, KindMethodDecl, KindMethodDecl,
		KindInitializer, KindInitializer,
		KindClassDecl,
	)

	t.Run("fields", func(t *testing.T) {
		names := func(field *Node) []string {
			var out []string
			for _, d := range field.ChildrenOfKind(KindVariableDeclarator) {
				out = append(out, d.Name())
			}
			return out
		}
		if got := names(body.Children[0]); strings.Join(got, ",") != "name,nick" {
			t.Errorf("declarators = %v", got)
		}
		nick := body.Children[0].ChildrenOfKind(KindVariableDeclarator)[1]
		if len(nick.ChildrenOfKind(KindDim)) != 1 {
			t.Error("expected one dimension on nick[]")
		}
		if got := names(body.Children[1]); strings.Join(got, ",") != "MAX,MIN" {
			t.Errorf("declarators = %v", got)
		}
		if got := names(body.Children[2]); strings.Join(got, ",") != "counts,other" {
			t.Errorf("declarators = %v", got)
		}
	})

	t.Run("constructor", func(t *testing.T) {
		ctor := body.Children[3]
		if ctor.Name() != "Person" {
			t.Errorf("name = %q", ctor.Name())
		}
		if params := ctor.FirstChildOfKind(KindParameters); len(params.Children) != 1 {
			t.Errorf("params = %d, want 1", len(params.Children))
		}
	})

	t.Run("generic varargs method", func(t *testing.T) {
		m := body.Children[5]
		if m.Name() != "visit" {
			t.Fatalf("name = %q", m.Name())
		}
		if m.FirstChildOfKind(KindTypeParameters) == nil {
			t.Error("expected type parameters")
		}
		params := m.FirstChildOfKind(KindParameters).Children
		if len(params) != 2 {
			t.Fatalf("params = %d, want 2", len(params))
		}
		if params[0].Token != nil {
			t.Error("first parameter is not varargs")
		}
		if params[1].TokenLiteral() != "..." || params[1].Name() != "rest" {
			t.Errorf("second parameter = %q %q", params[1].TokenLiteral(), params[1].Name())
		}
		throws := m.FirstChildOfKind(KindThrowsList)
		if throws == nil || len(throws.Children) != 2 {
			t.Errorf("throws = %v", throws)
		}
		block := m.FirstChildOfKind(KindBlock)
		if block == nil || len(block.Children) != 0 {
			t.Error("expected an empty skipped body")
		}
	})

	t.Run("array return type", func(t *testing.T) {
		m := body.Children[6]
		if m.FirstChildOfKind(KindArrayType) == nil {
			t.Error("expected array return type")
		}
		if m.FirstChildOfKind(KindBlock) != nil {
			t.Error("abstract method has no body")
		}
	})

	t.Run("static initializer", func(t *testing.T) {
		init := body.Children[7]
		if init.Name() != "static" {
			t.Errorf("expected static marker, got %q", init.Name())
		}
	})

	t.Run("nested type", func(t *testing.T) {
		inner := body.Children[9]
		if inner.Name() != "Inner" {
			t.Errorf("name = %q", inner.Name())
		}
	})
}

func TestParseInterface(t *testing.T) {
	cu := parse(t, `interface A extends B, C<D> {
    void run();
    default int size() { return 0; }
    int X = 1;
}`)
	assertKinds(t, cu.Children, KindInterfaceDecl)
	iface := cu.Children[0]

	ext := iface.FirstChildOfKind(KindExtendsClause)
	if ext == nil || len(ext.Children) != 2 {
		t.Fatalf("extends clause = %v", ext)
	}
	body := iface.FirstChildOfKind(KindBlock)
	assertKinds(t, body.Children, KindMethodDecl, KindMethodDecl, KindFieldDecl)
	if mods := modifierLiterals(body.Children[1]); len(mods) != 1 || mods[0] != "default" {
		t.Errorf("modifiers = %v", mods)
	}
}

func TestParseEnum(t *testing.T) {
	cu := parse(t, `enum Color implements Named {
    RED("r") { void f() {} },
    GREEN,
    @Deprecated BLUE;

    private final String code;
    Color(String c) { code = c; }
    public String code() { return code; }
}`)
	enum := cu.Children[0]
	if enum.Kind != KindEnumDecl || enum.Name() != "Color" {
		t.Fatalf("got %v %q", enum.Kind, enum.Name())
	}
	if enum.FirstChildOfKind(KindImplementsClause) == nil {
		t.Error("expected implements clause")
	}
	body := enum.FirstChildOfKind(KindBlock)
	assertKinds(t, body.Children,
		KindEnumConstant, KindEnumConstant, KindEnumConstant,
		KindFieldDecl, KindConstructorDecl, KindMethodDecl,
	)
	if body.Children[0].FirstChildOfKind(KindBlock) == nil {
		t.Error("expected skipped constant body")
	}
	if body.Children[2].Name() != "BLUE" {
		t.Errorf("name = %q", body.Children[2].Name())
	}
}

func TestParseAnnotationDecl(t *testing.T) {
	cu := parse(t, `public @interface Marker {
    String value() default "x";
    int[] ids() default {1, 2};
}`)
	decl := cu.Children[0]
	if decl.Kind != KindAnnotationDecl || decl.Name() != "Marker" {
		t.Fatalf("got %v %q", decl.Kind, decl.Name())
	}
	assertKinds(t, decl.FirstChildOfKind(KindBlock).Children, KindMethodDecl, KindMethodDecl)
}

func TestParseRecord(t *testing.T) {
	cu := parse(t, `public record Point(int x, int y) implements Shape {
    public Point { if (x < 0) throw new IllegalArgumentException(); }
    static Point origin() { return new Point(0, 0); }
}`)
	rec := cu.Children[0]
	if rec.Kind != KindRecordDecl || rec.Name() != "Point" {
		t.Fatalf("got %v %q", rec.Kind, rec.Name())
	}
	if got := len(rec.FirstChildOfKind(KindParameters).Children); got != 2 {
		t.Errorf("components = %d, want 2", got)
	}
	body := rec.FirstChildOfKind(KindBlock)
	assertKinds(t, body.Children, KindConstructorDecl, KindMethodDecl)
	if body.Children[0].FirstChildOfKind(KindParameters) != nil {
		t.Error("compact constructor has no parameter list")
	}
}

func TestParseCompactSourceFile(t *testing.T) {
	cu := parse(t, `void main() { System.out.println("hi"); }
String greeting = "hello";
`)
	assertKinds(t, cu.Children, KindMethodDecl, KindFieldDecl)
}

func TestParseNestedTypeArguments(t *testing.T) {
	cu := parse(t, `class G { Map<String, List<Integer>> m; Outer<T>.Inner<U> n; }`)
	body := cu.Children[0].FirstChildOfKind(KindBlock)
	assertKinds(t, body.Children, KindFieldDecl, KindFieldDecl)

	typ := body.Children[0].FirstChildOfKind(KindType)
	args := typ.FirstChildOfKind(KindTypeArguments)
	if args == nil || len(args.Children) != 2 {
		t.Fatalf("type arguments = %v", args)
	}
	if args.Children[1].FirstChildOfKind(KindTypeArguments) == nil {
		t.Error("expected nested type arguments on List<Integer>")
	}

	inner := body.Children[1].FirstChildOfKind(KindType)
	if got := len(inner.ChildrenOfKind(KindQualifiedName)); got != 2 {
		t.Errorf("qualified segments = %d, want 2", got)
	}
}

func TestParseReceiverParameter(t *testing.T) {
	cu := parse(t, `class R { void m(R this, int x) {} void n(@A Outer Outer.this) {} }`)
	body := cu.Children[0].FirstChildOfKind(KindBlock)
	if got := len(body.Children[0].FirstChildOfKind(KindParameters).Children); got != 1 {
		t.Errorf("params = %d, want 1", got)
	}
	if got := len(body.Children[1].FirstChildOfKind(KindParameters).Children); got != 0 {
		t.Errorf("params = %d, want 0", got)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	t.Run("broken member", func(t *testing.T) {
		cu := parse(t, `class Broken { int ; void ok() {} }`)
		body := cu.Children[0].FirstChildOfKind(KindBlock)
		assertKinds(t, body.Children, KindError, KindMethodDecl)
		if body.Children[1].Name() != "ok" {
			t.Errorf("name = %q", body.Children[1].Name())
		}
	})

	t.Run("unterminated", func(t *testing.T) {
		cu := parse(t, `class A { void f() {`)
		class := cu.Children[0]
		if class.Name() != "A" {
			t.Fatalf("name = %q", class.Name())
		}
		assertKinds(t, class.FirstChildOfKind(KindBlock).Children, KindMethodDecl)
	})

	t.Run("stray brace", func(t *testing.T) {
		cu := parse(t, `} class A {}`)
		assertKinds(t, cu.Children, KindError, KindClassDecl)
	})
}

func TestParseEmpty(t *testing.T) {
	if node := ParseCompilationUnit(strings.NewReader("")).Finish(); node != nil {
		t.Errorf("expected nil for empty input, got %v", node.Kind)
	}
}

func TestComments(t *testing.T) {
	src := "/** Doc. */\n@Deprecated\npublic class A {\n  // note\n}\n"

	p := ParseCompilationUnit(strings.NewReader(src), WithComments(), WithFile("A.java"))
	cu := p.Finish()
	comments := p.Comments()
	if len(comments) != 2 {
		t.Fatalf("comments = %d, want 2", len(comments))
	}
	if comments[0].Literal != "/** Doc. */" {
		t.Errorf("first comment = %q", comments[0].Literal)
	}
	if p.File() != "A.java" {
		t.Errorf("file = %q", p.File())
	}

	class := cu.Children[0]
	if class.Span.Start.Line != 2 {
		t.Errorf("declaration starts on line %d, want 2 (first annotation)", class.Span.Start.Line)
	}
	if class.Span.Start.File != "A.java" {
		t.Errorf("file = %q", class.Span.Start.File)
	}

	without := ParseCompilationUnit(strings.NewReader(src))
	without.Finish()
	if len(without.Comments()) != 0 {
		t.Error("comments kept without WithComments")
	}
}

func TestMarshalJSON(t *testing.T) {
	cu := parse(t, `class A { void f() {} }`)
	data, err := json.Marshal(cu)
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Kind     string `json:"kind"`
		Children []struct {
			Kind string `json:"kind"`
			Name string `json:"name"`
		} `json:"children"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Kind != "CompilationUnit" {
		t.Errorf("kind = %q", decoded.Kind)
	}
	if len(decoded.Children) != 1 || decoded.Children[0].Name != "A" {
		t.Errorf("children = %+v", decoded.Children)
	}
}
