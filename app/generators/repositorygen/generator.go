// Package repositorygen turns a Schema Descriptor into the Go source of a base
// repository package and writes it to disk.
//
// Every table gets two files in its own package:
//
//	base_gen.go    entity, descriptor and BaseRepository. Rewritten on every run.
//	repository.go  the extended Repository. Written once and then owned by the user.
package repositorygen

import (
	"bytes"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"

	"github.com/jrazmi/repogen/app/generators/schema"
	"github.com/jrazmi/repogen/core/scaffolding/baserepo"
	"github.com/jrazmi/repogen/core/scaffolding/dialect"
)

const (
	baserepoPath = "github.com/jrazmi/repogen/core/scaffolding/baserepo"
	header       = "Code generated by repogen. DO NOT EDIT."
)

// Package level identifiers declared by base_gen.go and repository.go. An
// entity may not reuse them.
var reserved = map[string]bool{
	"BaseRepository": true,
	"Repository":     true,
	"NewRepository":  true,
	"TableName":      true,
	"PrimaryKey":     true,
	"Columns":        true,
	"SelectColumns":  true,
}

// Generate renders base_gen.go for ts. The output depends only on ts and cfg,
// so running it twice yields identical bytes. An invalid descriptor returns a
// *schema.SchemaError.
func Generate(ts *schema.TableSchema, cfg Config) (SourceUnit, error) {
	if err := validate(ts); err != nil {
		return SourceUnit{}, err
	}

	d, err := dialect.Lookup(cfg.Dialect)
	if err != nil {
		return SourceUnit{}, fmt.Errorf("generate %s: %w", ts.Name, err)
	}

	spec := tableSpec(ts)
	stmts, err := baserepo.BuildStatements(d, spec)
	if err != nil {
		return SourceUnit{}, fmt.Errorf("generate %s: %w", ts.Name, err)
	}

	unit := newUnit(ts, cfg, BaseFile)
	b := &baseBuilder{
		ts:      ts,
		naming:  schema.Derive(ts),
		selects: strings.Join(baserepo.SelectExprs(d, spec), ", "),
		stmts:   stmts,
	}

	f := jen.NewFilePathName(unit.ImportPath, unit.Package)
	f.HeaderComment(header)
	b.entity(f)
	b.constants(f)
	b.columns(f)
	b.marshal(f)
	b.descriptor(f)
	b.repository(f)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return SourceUnit{}, fmt.Errorf("render %s: %w", unit.Path(), err)
	}
	if unit.Source, err = format(unit.Path(), buf.Bytes()); err != nil {
		return SourceUnit{}, err
	}
	return unit, nil
}

func validate(ts *schema.TableSchema) error {
	if err := schema.Validate(ts); err != nil {
		return err
	}

	if entity := schema.EntityName(ts.Name); reserved[entity] {
		return &schema.SchemaError{
			Table:    ts.Name,
			Problems: []string{fmt.Sprintf("entity name %s is reserved by the generated package", entity)},
		}
	}
	return nil
}

func newUnit(ts *schema.TableSchema, cfg Config, filename string) SourceUnit {
	pkg := schema.PackageName(ts.Name)
	return SourceUnit{
		Table:      ts.Name,
		Package:    pkg,
		ImportPath: path.Join(cfg.Module, filepath.ToSlash(cfg.Output), pkg),
		Dir:        filepath.Join(cfg.Output, pkg),
		Filename:   filename,
	}
}

func tableSpec(ts *schema.TableSchema) baserepo.TableSpec {
	spec := baserepo.TableSpec{
		Table:      ts.Name,
		PrimaryKey: ts.PrimaryKey,
		Columns:    make([]baserepo.ColumnSpec, len(ts.Columns)),
	}
	for i, c := range ts.Columns {
		spec.Columns[i] = baserepo.ColumnSpec{Name: c.Name, Time: c.Type == schema.Time}
	}
	return spec
}

func format(filename string, src []byte) ([]byte, error) {
	out, err := imports.Process(filename, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", filename, err)
	}
	return out, nil
}

type baseBuilder struct {
	ts      *schema.TableSchema
	naming  schema.Naming
	selects string
	stmts   baserepo.Statements
}

func (b *baseBuilder) entityType() *jen.Statement {
	return jen.Id(b.naming.Entity)
}

func (b *baseBuilder) entity(f *jen.File) {
	doc := fmt.Sprintf("%s is one row of %s.", b.naming.Entity, b.ts.Name)
	if b.ts.Comment != "" {
		doc += " " + b.ts.Comment
	}
	f.Comment(doc)

	fields := make([]jen.Code, len(b.ts.Columns))
	for i, c := range b.ts.Columns {
		field := jen.Id(schema.FieldName(c.Name)).Id(c.Type.GoType()).
			Tag(map[string]string{"db": c.Name, "json": c.Name})
		if c.Comment != "" {
			field.Comment(c.Comment)
		}
		fields[i] = field
	}
	f.Type().Id(b.naming.Entity).Struct(fields...)
}

func (b *baseBuilder) constants(f *jen.File) {
	f.Const().Defs(
		jen.Id("TableName").Op("=").Lit(b.ts.Name),
		jen.Id("PrimaryKey").Op("=").Lit(b.ts.PrimaryKey),
	)
}

func (b *baseBuilder) columns(f *jen.File) {
	names := make([]jen.Code, len(b.ts.Columns))
	for i, c := range b.ts.Columns {
		names[i] = jen.Lit(c.Name)
	}

	f.Comment("Columns returns the column names in table order.")
	f.Func().Id("Columns").Params().Index().String().Block(
		jen.Return(jen.Index().String().Values(names...)),
	)

	f.Comment("SelectColumns returns the SELECT list used by every read, in table order.")
	f.Func().Id("SelectColumns").Params().String().Block(
		jen.Return(jen.Lit(b.selects)),
	)
}

func (b *baseBuilder) marshal(f *jen.File) {
	fields := make([]jen.Code, len(b.ts.Columns))
	values := make([]jen.Code, len(b.ts.Columns))
	for i, c := range b.ts.Columns {
		name := schema.FieldName(c.Name)
		fields[i] = jen.Id(name).Op(":").Add(cellReader(c.Type, i))

		v := jen.Id("e").Dot(name)
		if c.Type == schema.Time && c.Nullable {
			v = jen.Qual(baserepoPath, "NullableUnix").Call(v)
		}
		values[i] = v
	}

	f.Commentf("scan builds a %s from a row in SelectColumns order.", b.naming.Entity)
	f.Func().Id("scan").Params(jen.Id("row").Qual(baserepoPath, "Row")).Add(b.entityType()).Block(
		jen.Return(b.entityType().Values(multiline(fields)...)),
	)

	f.Comment("values returns the column values of e in table order.")
	f.Func().Id("values").Params(jen.Id("e").Add(b.entityType())).Index().Id("any").Block(
		jen.Return(jen.Index().Id("any").Values(multiline(values)...)),
	)
}

// cellReader returns the marshalling call for column i of a row.
func cellReader(t schema.SemanticType, i int) *jen.Statement {
	cell := jen.Id("row").Dot("Cell").Call(jen.Lit(i))
	switch {
	case t == schema.String:
		return jen.Qual(baserepoPath, "String").Call(cell)
	case t == schema.Bool:
		return jen.Qual(baserepoPath, "Bool").Call(cell)
	case t == schema.Float32 || t == schema.Float64:
		return jen.Qual(baserepoPath, "Float").Types(jen.Id(t.GoType())).Call(cell)
	case t.IsUnsigned():
		return jen.Qual(baserepoPath, "Uint").Types(jen.Id(t.GoType())).Call(cell)
	default:
		return jen.Qual(baserepoPath, "Int").Types(jen.Id(t.GoType())).Call(cell)
	}
}

func (b *baseBuilder) descriptor(f *jen.File) {
	pk, _ := b.ts.Column(b.ts.PrimaryKey)
	pkField := jen.Id("e").Dot(b.naming.PKField)

	getID, setID := jen.Return(pkField.Clone()), pkField.Clone().Op("=").Id("id")
	if goType := pk.Type.GoType(); goType != "int64" {
		getID = jen.Return(jen.Int64().Call(pkField.Clone()))
		setID = pkField.Clone().Op("=").Id(goType).Call(jen.Id("id"))
	}

	desc := []jen.Code{
		jen.Id("Table").Op(":").Id("TableName"),
		jen.Id("PrimaryKey").Op(":").Id("PrimaryKey"),
		jen.Id("Columns").Op(":").Id("Columns").Call(),
		jen.Id("Statements").Op(":").Qual(baserepoPath, "Statements").Values(multiline(b.statementFields())...),
		jen.Id("Scan").Op(":").Id("scan"),
		jen.Id("Values").Op(":").Id("values"),
		jen.Id("ID").Op(":").Func().Params(jen.Id("e").Add(b.entityType())).Int64().Block(getID),
		jen.Id("SetID").Op(":").Func().Params(jen.Id("e").Op("*").Add(b.entityType()), jen.Id("id").Int64()).Block(setID),
	}

	f.Var().Id("table").Op("=").Qual(baserepoPath, "MustNewTable").Call(
		jen.Qual(baserepoPath, "Descriptor").Types(b.entityType()).Values(multiline(desc)...),
	)
}

// statementFields lists the non-empty statements in declaration order.
func (b *baseBuilder) statementFields() []jen.Code {
	s := b.stmts
	all := []struct{ name, sql string }{
		{"Dialect", s.Dialect},
		{"Select", s.Select},
		{"FindOne", s.FindOne},
		{"Update", s.Update},
		{"DeleteOne", s.DeleteOne},
		{"Delete", s.Delete},
		{"Truncate", s.Truncate},
		{"Count", s.Count},
		{"MaxID", s.MaxID},
		{"InsertOne", s.InsertOne},
		{"InsertOneAuto", s.InsertOneAuto},
		{"InsertPrefix", s.InsertPrefix},
		{"InsertPrefixAuto", s.InsertPrefixAuto},
		{"Tuple", s.Tuple},
		{"TupleAuto", s.TupleAuto},
		{"Returning", s.Returning},
	}
	var out []jen.Code
	for _, st := range all {
		if st.sql != "" {
			out = append(out, jen.Id(st.name).Op(":").Lit(st.sql))
		}
	}
	return out
}

func (b *baseBuilder) repository(f *jen.File) {
	entity := b.naming.Entity
	ent := b.entityType
	ctx := func() *jen.Statement { return jen.Id("ctx").Qual("context", "Context") }
	db := func() *jen.Statement { return jen.Id("db").Qual(baserepoPath, "Engine") }
	filter := func() *jen.Statement { return jen.Id("filter").Qual(baserepoPath, "Filter") }
	id := func() *jen.Statement { return jen.Id("id").Int64() }
	count := func() []jen.Code { return []jen.Code{jen.Int64(), jen.Error()} }

	f.Commentf("BaseRepository is the generated data access for %s. It holds no state;", b.ts.Name)
	f.Comment("every operation takes the execution engine explicitly.")
	f.Type().Id("BaseRepository").Struct()

	methods := []struct {
		doc     string
		name    string
		params  []jen.Code
		results []jen.Code
		args    []jen.Code
	}{
		{
			doc:     fmt.Sprintf("NewEntity returns a zero %s.", entity),
			name:    "NewEntity",
			results: []jen.Code{ent()},
		},
		{
			doc:     fmt.Sprintf("FindOne returns the %s with the given id, or a zero %s when there is none.", entity, entity),
			name:    "FindOne",
			params:  []jen.Code{ctx(), db(), id()},
			results: []jen.Code{ent(), jen.Error()},
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db"), jen.Id("id")},
		},
		{
			doc:     fmt.Sprintf("All returns every row of %s.", b.ts.Name),
			name:    "All",
			params:  []jen.Code{ctx(), db()},
			results: []jen.Code{jen.Index().Add(ent()), jen.Error()},
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db")},
		},
		{
			doc:     "GetWhere returns the rows matching filter.",
			name:    "GetWhere",
			params:  []jen.Code{ctx(), db(), filter()},
			results: []jen.Code{jen.Index().Add(ent()), jen.Error()},
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db"), jen.Id("filter")},
		},
		{
			doc:     "InsertOne inserts e and returns it with the primary key the database assigned.",
			name:    "InsertOne",
			params:  []jen.Code{ctx(), db(), jen.Id("e").Add(ent())},
			results: []jen.Code{ent(), jen.Error()},
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db"), jen.Id("e")},
		},
		{
			doc:     "InsertMany inserts entries with one statement and returns the rows affected.",
			name:    "InsertMany",
			params:  []jen.Code{ctx(), db(), jen.Id("entries").Index().Add(ent())},
			results: count(),
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db"), jen.Id("entries")},
		},
		{
			doc:     "UpdateOne rewrites every non-key column of the row keyed by e.",
			name:    "UpdateOne",
			params:  []jen.Code{ctx(), db(), jen.Id("e").Add(ent())},
			results: count(),
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db"), jen.Id("e")},
		},
		{
			doc:     "DeleteOne deletes the row with the given id.",
			name:    "DeleteOne",
			params:  []jen.Code{ctx(), db(), id()},
			results: count(),
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db"), jen.Id("id")},
		},
		{
			doc:     "DeleteWhere deletes the rows matching filter. An empty filter is an error.",
			name:    "DeleteWhere",
			params:  []jen.Code{ctx(), db(), filter()},
			results: count(),
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db"), jen.Id("filter")},
		},
		{
			doc:     fmt.Sprintf("Truncate removes every row of %s.", b.ts.Name),
			name:    "Truncate",
			params:  []jen.Code{ctx(), db()},
			results: count(),
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db")},
		},
		{
			doc:     "Count counts the rows matching every filter.",
			name:    "Count",
			params:  []jen.Code{ctx(), db(), jen.Id("filters").Op("...").Qual(baserepoPath, "Filter")},
			results: count(),
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db"), jen.Id("filters").Op("...")},
		},
		{
			doc:     "GetMaxID returns the largest primary key, or 0 for an empty table.",
			name:    "GetMaxID",
			params:  []jen.Code{ctx(), db()},
			results: count(),
			args:    []jen.Code{jen.Id("ctx"), jen.Id("db")},
		},
	}

	for _, m := range methods {
		f.Comment(m.doc)
		sig := jen.Func().Params(jen.Id("BaseRepository")).Id(m.name).Params(m.params...)
		if len(m.results) == 1 {
			sig.Add(m.results[0])
		} else {
			sig.Params(m.results...)
		}
		f.Add(sig.Block(
			jen.Return(jen.Id("table").Dot(m.name).Call(m.args...)),
		))
	}

	f.Commentf("Get%s returns the first entry with the given id, or a zero %s.", entity, entity)
	f.Func().Id("Get"+entity).Params(jen.Id("entries").Index().Add(ent()), id()).Add(ent()).Block(
		jen.Return(jen.Id("table").Dot("Pick").Call(jen.Id("entries"), jen.Id("id"))),
	)
}

// multiline puts each element of a composite literal on its own line.
func multiline(items []jen.Code) []jen.Code {
	out := make([]jen.Code, 0, len(items)+1)
	for _, it := range items {
		out = append(out, jen.Line().Add(it))
	}
	return append(out, jen.Line())
}
