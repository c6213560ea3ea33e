package repositorygen

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrazmi/repogen/app/generators/schema"
)

func characterBind() *schema.TableSchema {
	return &schema.TableSchema{
		Name:       "character_bind",
		Comment:    "Bind points per character.",
		PrimaryKey: "id",
		Columns: []schema.Column{
			{Name: "id", Type: schema.Uint32},
			{Name: "is_home", Type: schema.Bool},
			{Name: "zone_id", Type: schema.Uint16},
			{Name: "x", Type: schema.Float32},
			{Name: "heading", Type: schema.Float32},
			{Name: "label", Type: schema.String, Comment: "shown in the bind list"},
			{Name: "bound_at", Type: schema.Time, Nullable: true},
			{Name: "slot", Type: schema.Int8},
		},
	}
}

func testConfig(dialect string) Config {
	return Config{
		Module:  "github.com/acme/game",
		Output:  "core/repositories",
		Dialect: dialect,
	}
}

// declarations returns the top-level names in src, with methods as
// "Recv.Name".
func declarations(t *testing.T, src []byte) map[string]bool {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "base_gen.go", src, parser.ParseComments)
	require.NoError(t, err, string(src))

	names := make(map[string]bool)
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			name := d.Name.Name
			if d.Recv != nil {
				if id, ok := d.Recv.List[0].Type.(*ast.Ident); ok {
					name = id.Name + "." + name
				}
			}
			names[name] = true
		case *ast.GenDecl:
			for _, spec := range d.Specs {
				switch s := spec.(type) {
				case *ast.TypeSpec:
					names[s.Name.Name] = true
				case *ast.ValueSpec:
					for _, n := range s.Names {
						names[n.Name] = true
					}
				}
			}
		}
	}
	return names
}

func TestGenerate(t *testing.T) {
	unit, err := Generate(characterBind(), testConfig("mysql"))
	require.NoError(t, err)

	assert.Equal(t, "character_bind", unit.Table)
	assert.Equal(t, "characterbindrepo", unit.Package)
	assert.Equal(t, "github.com/acme/game/core/repositories/characterbindrepo", unit.ImportPath)
	assert.Equal(t, "core/repositories/characterbindrepo/base_gen.go", unit.Path())

	src := string(unit.Source)
	assert.True(t, strings.HasPrefix(src, "// Code generated by repogen. DO NOT EDIT.\n"))
	assert.Contains(t, src, "package characterbindrepo")

	names := declarations(t, unit.Source)
	for _, want := range []string{
		"CharacterBind", "TableName", "PrimaryKey", "Columns", "SelectColumns",
		"scan", "values", "table", "BaseRepository", "GetCharacterBind",
		"BaseRepository.NewEntity", "BaseRepository.FindOne", "BaseRepository.All",
		"BaseRepository.GetWhere", "BaseRepository.InsertOne", "BaseRepository.InsertMany",
		"BaseRepository.UpdateOne", "BaseRepository.DeleteOne", "BaseRepository.DeleteWhere",
		"BaseRepository.Truncate", "BaseRepository.Count", "BaseRepository.GetMaxID",
	} {
		assert.True(t, names[want], "missing declaration %s", want)
	}

	// Entity fields follow column order with narrow types.
	assert.Regexp(t, `(?s)ID\s+uint32.*IsHome\s+uint8.*ZoneID\s+uint16.*X\s+float32.*Heading\s+float32.*Label\s+string.*BoundAt\s+int64.*Slot\s+int8`, src)
	assert.Contains(t, src, "`db:\"zone_id\" json:\"zone_id\"`")
	assert.Contains(t, src, "// shown in the bind list")
	assert.Contains(t, src, "// CharacterBind is one row of character_bind. Bind points per character.")

	// Marshalling follows the same positions.
	assert.Contains(t, src, "baserepo.Uint[uint32](row.Cell(0))")
	assert.Contains(t, src, "baserepo.Bool(row.Cell(1))")
	assert.Contains(t, src, "baserepo.Float[float32](row.Cell(4))")
	assert.Contains(t, src, "baserepo.String(row.Cell(5))")
	assert.Contains(t, src, "baserepo.Int[int64](row.Cell(6))")
	assert.Contains(t, src, "baserepo.Int[int8](row.Cell(7))")
	assert.Contains(t, src, "baserepo.NullableUnix(e.BoundAt)")

	// The key is exchanged as int64.
	assert.Contains(t, src, "return int64(e.ID)")
	assert.Contains(t, src, "e.ID = uint32(id)")

	// Statements are synthesized for the dialect at generation time.
	assert.Contains(t, src, `"SELECT `+"`id`, `is_home`, `zone_id`, `x`, `heading`, `label`, UNIX_TIMESTAMP(`bound_at`), `slot`"+` FROM `+"`character_bind`"+`"`)
	assert.Contains(t, src, `Dialect:`)
	assert.Contains(t, src, `"mysql"`)
	assert.Contains(t, src, "FROM_UNIXTIME(?)")
	assert.NotContains(t, src, "Returning:")
}

func TestGeneratePostgres(t *testing.T) {
	unit, err := Generate(characterBind(), testConfig("postgres"))
	require.NoError(t, err)

	src := string(unit.Source)
	assert.Contains(t, src, `Returning:`)
	assert.Contains(t, src, `CAST(EXTRACT(EPOCH FROM CAST(\"bound_at\" AS timestamptz)) AS BIGINT)`)
	assert.Contains(t, src, `$1`)
}

func TestGenerateInt64Key(t *testing.T) {
	ts := &schema.TableSchema{
		Name:       "users",
		PrimaryKey: "id",
		Columns:    []schema.Column{{Name: "id", Type: schema.Int64}, {Name: "email", Type: schema.String}},
	}
	unit, err := Generate(ts, testConfig("sqlite"))
	require.NoError(t, err)

	src := string(unit.Source)
	assert.Contains(t, src, "type User struct")
	assert.Contains(t, src, "func GetUser(entries []User, id int64) User")
	assert.NotContains(t, src, "int64(e.ID)")
	assert.Contains(t, src, "e.ID = id")
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, d := range []string{"mysql", "postgres", "sqlite"} {
		t.Run(d, func(t *testing.T) {
			first, err := Generate(characterBind(), testConfig(d))
			require.NoError(t, err)
			second, err := Generate(characterBind(), testConfig(d))
			require.NoError(t, err)
			assert.Equal(t, string(first.Source), string(second.Source))
		})
	}
}

func TestGenerateRejectsInvalidDescriptors(t *testing.T) {
	t.Run("schema problems", func(t *testing.T) {
		ts := characterBind()
		ts.PrimaryKey = "label"
		_, err := Generate(ts, testConfig("sqlite"))
		assert.True(t, schema.IsSchemaError(err))
	})

	t.Run("reserved entity", func(t *testing.T) {
		ts := &schema.TableSchema{
			Name:       "repositories",
			PrimaryKey: "id",
			Columns:    []schema.Column{{Name: "id", Type: schema.Int64}},
		}
		_, err := Generate(ts, testConfig("sqlite"))
		assert.True(t, schema.IsSchemaError(err))
		assert.ErrorContains(t, err, "reserved")
	})

	t.Run("column without a Go field name", func(t *testing.T) {
		ts := characterBind()
		ts.Columns = append(ts.Columns, schema.Column{Name: "_1st", Type: schema.Int32})
		_, err := Generate(ts, testConfig("sqlite"))
		assert.True(t, schema.IsSchemaError(err))
		assert.ErrorContains(t, err, `column "_1st" does not produce a Go field name`)
	})

	t.Run("unknown dialect", func(t *testing.T) {
		_, err := Generate(characterBind(), testConfig("oracle"))
		require.Error(t, err)
		assert.False(t, schema.IsSchemaError(err))
	})
}

func TestScaffold(t *testing.T) {
	unit, err := Scaffold(characterBind(), testConfig("sqlite"))
	require.NoError(t, err)
	assert.Equal(t, "core/repositories/characterbindrepo/repository.go", unit.Path())

	names := declarations(t, unit.Source)
	assert.True(t, names["Repository"])
	assert.True(t, names["NewRepository"])

	src := string(unit.Source)
	assert.NotContains(t, src, "DO NOT EDIT")
	assert.Contains(t, src, "BaseRepository")
	assert.Contains(t, src, `FindByIsHome(ctx context.Context, db baserepo.Engine, v uint8) ([]CharacterBind, error)`)
	assert.Contains(t, src, `baserepo.Unchecked("is_home = ?", v)`)
}

// literals returns every basic literal in src, sorted.
func literals(t *testing.T, src []byte) []string {
	t.Helper()
	file, err := parser.ParseFile(token.NewFileSet(), "", src, 0)
	require.NoError(t, err)

	var lits []string
	ast.Inspect(file, func(n ast.Node) bool {
		if lit, ok := n.(*ast.BasicLit); ok {
			lits = append(lits, lit.Value)
		}
		return true
	})
	slices.Sort(lits)
	return lits
}

func TestCommittedSampleIsCurrent(t *testing.T) {
	ts, err := schema.LoadTable("../../../schema/descriptors/character_bind.yaml", "character_bind")
	require.NoError(t, err)

	unit, err := Generate(ts, Config{
		Module:  "github.com/jrazmi/repogen",
		Output:  "core/repositories",
		Dialect: "sqlite",
	})
	require.NoError(t, err)

	committed, err := os.ReadFile("../../../" + unit.Path())
	require.NoError(t, err)

	assert.Equal(t, declarations(t, committed), declarations(t, unit.Source))
	assert.Equal(t, literals(t, committed), literals(t, unit.Source))
}
