// Package parser reads Java source down to the declaration level.
//
// The parser produces a tree of *Node values for everything a
// documentation tool needs: the package declaration, imports, type
// declarations with their modifiers, annotations, type parameters and
// extends/implements clauses, and the fields, methods, constructors,
// enum constants and nested types they contain. Method bodies, initializer
// blocks, variable initializers and annotation arguments are consumed by
// bracket matching and never parsed; bodies are recorded as empty Block
// nodes spanning the skipped source.
//
// # Tree shape
//
//	CompilationUnit
//	  PackageDecl      Modifiers QualifiedName
//	  ImportDecl       [Identifier static] QualifiedName
//	  ClassDecl        Modifiers Identifier [TypeParameters] [ExtendsClause]
//	                   [ImplementsClause] [PermitsClause] Block
//	  InterfaceDecl    Modifiers Identifier [TypeParameters] [ExtendsClause] Block
//	  EnumDecl         Modifiers Identifier [ImplementsClause] Block
//	  RecordDecl       Modifiers Identifier [TypeParameters] Parameters
//	                   [ImplementsClause] Block
//	  AnnotationDecl   Modifiers Identifier Block
//
// Class bodies hold FieldDecl (Modifiers Type VariableDeclarator...),
// MethodDecl (Modifiers [TypeParameters] Type Identifier Parameters
// [ThrowsList] [Block]), ConstructorDecl, EnumConstant, Initializer and
// nested type declarations. A Modifiers node holds one Identifier per
// modifier keyword plus one Annotation per annotation, in source order.
//
// Compact source files may declare fields and methods outside any type;
// those are attached to the CompilationUnit directly.
//
// # Positions
//
// Every node carries a Span with 1-based lines and byte-based columns.
// A declaration's span starts at its first modifier or annotation, which
// is what comment pairing relies on.
//
// # Errors
//
// The parser never panics on malformed input. It records Error nodes and
// skips ahead to the next ';' or '}' before continuing.
package parser
