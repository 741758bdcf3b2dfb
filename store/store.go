// Package store keeps a doc.Model in a SQLite database.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/dhamidi/gdoc/doc"
)

//go:embed schema.sql
var schema string

const (
	memberField       = "field"
	memberProperty    = "property"
	memberMethod      = "method"
	memberConstructor = "constructor"

	roleInterface = "interface"
	roleImport    = "import"
)

type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and makes sure the schema
// exists. Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// a second connection to ":memory:" would see an empty database
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes every class of model in one transaction. A class already
// stored under the same path is replaced with all of its members.
func (s *Store) Save(ctx context.Context, model *doc.Model) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, c := range model.Classes() {
		if err := saveClass(ctx, tx, c); err != nil {
			return fmt.Errorf("save %s: %w", c.FullPath, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func saveClass(ctx context.Context, tx *sql.Tx, c *doc.ClassDoc) error {
	deletes := []string{
		`DELETE FROM parameters WHERE member_id IN (SELECT id FROM members WHERE class_path = ?)`,
		`DELETE FROM members WHERE class_path = ?`,
		`DELETE FROM class_names WHERE class_path = ?`,
	}
	for _, stmt := range deletes {
		if _, err := tx.ExecContext(ctx, stmt, c.FullPath); err != nil {
			return err
		}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO classes (path, name, kind, modifiers, super_class, raw_comment) VALUES (?, ?, ?, ?, ?, ?)`,
		c.FullPath, c.Name, string(c.Kind), c.Modifiers.String(), c.SuperClass, c.RawComment)
	if err != nil {
		return err
	}

	for role, names := range map[string][]string{roleInterface: c.Interfaces, roleImport: c.Imports} {
		for i, name := range names {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO class_names (class_path, role, position, name) VALUES (?, ?, ?, ?)`,
				c.FullPath, role, i, name)
			if err != nil {
				return err
			}
		}
	}

	for i, f := range c.Fields {
		if _, err := insertMember(ctx, tx, c.FullPath, memberField, i, f.Member, f.Type); err != nil {
			return err
		}
	}
	for i, p := range c.Properties {
		if _, err := insertMember(ctx, tx, c.FullPath, memberProperty, i, p.Member, p.Type); err != nil {
			return err
		}
	}
	for i, m := range c.Methods {
		id, err := insertMember(ctx, tx, c.FullPath, memberMethod, i, m.Member, m.ReturnType)
		if err != nil {
			return err
		}
		if err := insertParameters(ctx, tx, id, m.Parameters); err != nil {
			return err
		}
	}
	for i, ctor := range c.Constructors {
		id, err := insertMember(ctx, tx, c.FullPath, memberConstructor, i, ctor.Member, "")
		if err != nil {
			return err
		}
		if err := insertParameters(ctx, tx, id, ctor.Parameters); err != nil {
			return err
		}
	}
	return nil
}

func insertMember(ctx context.Context, tx *sql.Tx, classPath, kind string, position int, m doc.Member, typ string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO members (class_path, kind, position, name, type, modifiers, raw_comment) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		classPath, kind, position, m.Name, typ, m.Modifiers.String(), m.RawComment)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertParameters(ctx context.Context, tx *sql.Tx, memberID int64, params []doc.ParameterDoc) error {
	for i, p := range params {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO parameters (member_id, position, name, type) VALUES (?, ?, ?, ?)`,
			memberID, i, p.Name, p.Type)
		if err != nil {
			return err
		}
	}
	return nil
}

// Load reads every stored class back into a fresh model.
func (s *Store) Load(ctx context.Context) (*doc.Model, error) {
	model := doc.NewModel()
	classes := map[string]*doc.ClassDoc{}

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, name, kind, modifiers, super_class, raw_comment FROM classes ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c doc.ClassDoc
		var kind, mods string
		if err := rows.Scan(&c.FullPath, &c.Name, &kind, &mods, &c.SuperClass, &c.RawComment); err != nil {
			return nil, fmt.Errorf("load classes: %w", err)
		}
		c.Kind = doc.Kind(kind)
		c.Modifiers = parseModifiers(mods)
		classes[c.FullPath] = &c
		model.Put(&c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load classes: %w", err)
	}

	if err := s.loadNames(ctx, classes); err != nil {
		return nil, err
	}
	if err := s.loadMembers(ctx, classes); err != nil {
		return nil, err
	}
	return model, nil
}

func (s *Store) loadNames(ctx context.Context, classes map[string]*doc.ClassDoc) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT class_path, role, name FROM class_names ORDER BY class_path, role, position`)
	if err != nil {
		return fmt.Errorf("load names: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var path, role, name string
		if err := rows.Scan(&path, &role, &name); err != nil {
			return fmt.Errorf("load names: %w", err)
		}
		c, ok := classes[path]
		if !ok {
			continue
		}
		switch role {
		case roleInterface:
			c.AddInterface(name)
		case roleImport:
			c.Imports = append(c.Imports, name)
		}
	}
	return rows.Err()
}

func (s *Store) loadMembers(ctx context.Context, classes map[string]*doc.ClassDoc) error {
	params, err := s.loadParameters(ctx)
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, class_path, kind, name, type, modifiers, raw_comment FROM members ORDER BY class_path, kind, position`)
	if err != nil {
		return fmt.Errorf("load members: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id                    int64
			path, kind, typ, mods string
			m                     doc.Member
		)
		if err := rows.Scan(&id, &path, &kind, &m.Name, &typ, &mods, &m.RawComment); err != nil {
			return fmt.Errorf("load members: %w", err)
		}
		m.Modifiers = parseModifiers(mods)
		c, ok := classes[path]
		if !ok {
			continue
		}
		switch kind {
		case memberField:
			c.AddField(&doc.FieldDoc{Member: m, Type: typ})
		case memberProperty:
			c.AddProperty(&doc.PropertyDoc{Member: m, Type: typ})
		case memberMethod:
			c.AddMethod(&doc.MethodDoc{Member: m, ReturnType: typ, Parameters: params[id]})
		case memberConstructor:
			c.AddConstructor(&doc.ConstructorDoc{Member: m, Parameters: params[id]})
		}
	}
	return rows.Err()
}

func (s *Store) loadParameters(ctx context.Context) (map[int64][]doc.ParameterDoc, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT member_id, name, type FROM parameters ORDER BY member_id, position`)
	if err != nil {
		return nil, fmt.Errorf("load parameters: %w", err)
	}
	defer rows.Close()

	params := map[int64][]doc.ParameterDoc{}
	for rows.Next() {
		var id int64
		var p doc.ParameterDoc
		if err := rows.Scan(&id, &p.Name, &p.Type); err != nil {
			return nil, fmt.Errorf("load parameters: %w", err)
		}
		params[id] = append(params[id], p)
	}
	return params, rows.Err()
}

func parseModifiers(s string) doc.Modifiers {
	var m doc.Modifiers
	for _, word := range strings.Fields(s) {
		switch word {
		case "public":
			m.Public = true
		case "protected":
			m.Protected = true
		case "private":
			m.Private = true
		case "abstract":
			m.Abstract = true
		case "static":
			m.Static = true
		case "final":
			m.Final = true
		}
	}
	return m
}
