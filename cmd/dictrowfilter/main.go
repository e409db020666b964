// Command dictrowfilter demonstrates dictionary-based row-group pruning
// against a real parquet file: it builds a logical schema from the
// file's own physical schema, evaluates one comparison predicate per
// invocation, and reports which row groups the filter says are safe to
// skip.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/schema"
	"github.com/docopt/docopt-go"
	"github.com/pterm/pterm"

	"github.com/icedict/rowfilter"
	"github.com/icedict/rowfilter/dictfilter"
	"github.com/icedict/rowfilter/parquetio"
)

const usage = `dictrowfilter.

Usage:
  dictrowfilter scan <file> --column NAME --op OP [--value VALUE] [--string | --int64 | --float64] [options]
  dictrowfilter -h | --help

Commands:
  scan    Evaluate one predicate against every row group of a parquet file.

Arguments:
  <file>  Path to a parquet file.

Options:
  -h --help           Show this help message and exit.
  --column NAME       Logical column name the predicate refers to.
  --op OP             One of eq, notEq, lt, ltEq, gt, gtEq, isNull, notNull.
  --value VALUE       Literal value; required for every op but isNull/notNull.
  --string            Interpret --value as a string literal (default).
  --int64             Interpret --value as an int64 literal.
  --float64           Interpret --value as a float64 literal.
  --case-insensitive  Match --column against the schema case-insensitively.
  --legacy-not-eq     Use the legacy (skip only when nulls cannot occur) notEq semantics.
`

type config struct {
	File            string `docopt:"<file>"`
	Column          string `docopt:"--column"`
	Op              string `docopt:"--op"`
	Value           string `docopt:"--value"`
	AsInt64         bool   `docopt:"--int64"`
	AsFloat64       bool   `docopt:"--float64"`
	CaseInsensitive bool   `docopt:"--case-insensitive"`
	LegacyNotEqual  bool   `docopt:"--legacy-not-eq"`
}

func main() {
	args, err := docopt.ParseArgs(usage, os.Args[1:], "dictrowfilter")
	if err != nil {
		log.Fatal(err)
	}

	var cfg config
	if err := args.Bind(&cfg); err != nil {
		log.Fatal(err)
	}

	if err := run(cfg); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	f, err := os.Open(cfg.File)
	if err != nil {
		return fmt.Errorf("opening %s: %w", cfg.File, err)
	}
	defer f.Close()

	rdr, err := file.NewParquetReader(f)
	if err != nil {
		return fmt.Errorf("reading parquet metadata: %w", err)
	}
	defer rdr.Close()

	logicalSchema, physicalSchema := schemaFromFile(rdr.MetaData().Schema)

	expr, err := buildPredicate(cfg)
	if err != nil {
		return err
	}

	filterOpts := []dictfilter.FilterOption{dictfilter.WithCaseSensitive(!cfg.CaseInsensitive)}
	if cfg.LegacyNotEqual {
		filterOpts = append(filterOpts, dictfilter.WithLegacyNotEqual(true))
	}
	filter := dictfilter.NewFilter(logicalSchema, expr, filterOpts...)

	data := pterm.TableData{{"Row Group", "Rows", "Should Read"}}
	for rg := 0; rg < rdr.NumRowGroups(); rg++ {
		rgMeta, store, err := parquetio.OpenRowGroup(rdr, rg)
		if err != nil {
			return fmt.Errorf("opening row group %d: %w", rg, err)
		}

		shouldRead, err := filter.ShouldRead(physicalSchema, rgMeta, store)
		if err != nil {
			return fmt.Errorf("evaluating row group %d: %w", rg, err)
		}

		numRows := rdr.MetaData().RowGroup(rg).NumRows()
		data = append(data, []string{strconv.Itoa(rg), strconv.FormatInt(numRows, 10), strconv.FormatBool(shouldRead)})
	}

	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func buildPredicate(cfg config) (rowfilter.BooleanExpression, error) {
	ref := rowfilter.Ref(cfg.Column)

	switch cfg.Op {
	case "isNull":
		return rowfilter.IsNull(ref), nil
	case "notNull":
		return rowfilter.NotNull(ref), nil
	}

	lit, err := parseLiteral(cfg)
	if err != nil {
		return nil, err
	}

	switch cfg.Op {
	case "eq":
		return rowfilter.LiteralPredicate(rowfilter.OpEQ, ref, lit), nil
	case "notEq":
		return rowfilter.LiteralPredicate(rowfilter.OpNEQ, ref, lit), nil
	case "lt":
		return rowfilter.LiteralPredicate(rowfilter.OpLT, ref, lit), nil
	case "ltEq":
		return rowfilter.LiteralPredicate(rowfilter.OpLTEQ, ref, lit), nil
	case "gt":
		return rowfilter.LiteralPredicate(rowfilter.OpGT, ref, lit), nil
	case "gtEq":
		return rowfilter.LiteralPredicate(rowfilter.OpGTEQ, ref, lit), nil
	default:
		return nil, fmt.Errorf("dictrowfilter: unrecognized --op %q", cfg.Op)
	}
}

func parseLiteral(cfg config) (rowfilter.Literal, error) {
	switch {
	case cfg.AsInt64:
		v, err := strconv.ParseInt(cfg.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("dictrowfilter: --value is not a valid int64: %w", err)
		}

		return rowfilter.NewLiteral(v), nil
	case cfg.AsFloat64:
		v, err := strconv.ParseFloat(cfg.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("dictrowfilter: --value is not a valid float64: %w", err)
		}

		return rowfilter.NewLiteral(v), nil
	default:
		return rowfilter.NewLiteral(cfg.Value), nil
	}
}

// schemaFromFile builds a logical schema directly from a parquet file's
// own physical schema, assigning sequential field ids in column order,
// together with a trivial physical schema adapter that resolves every
// logical field back to the same top-level column path.
func schemaFromFile(sc *schema.Schema) (*rowfilter.LogicalSchema, rowfilter.PhysicalSchema) {
	fields := make([]rowfilter.LogicalField, 0, sc.NumColumns())
	physicalTypes := make(map[string]rowfilter.PhysicalType, sc.NumColumns())

	for i := 0; i < sc.NumColumns(); i++ {
		col := sc.Column(i)
		fields = append(fields, rowfilter.LogicalField{
			ID:       i,
			Name:     col.Name(),
			Required: col.MaxDefinitionLevel() == 0,
			Type:     logicalTypeForPhysical(col.PhysicalType()),
		})
		physicalTypes[col.Name()] = parquetio.MapPhysicalType(col.PhysicalType())
	}

	logicalSchema := rowfilter.NewLogicalSchema(fields...)

	return logicalSchema, &fileSchema{physicalTypes: physicalTypes}
}

type fileSchema struct {
	physicalTypes map[string]rowfilter.PhysicalType
}

func (s *fileSchema) ResolveColumn(field rowfilter.LogicalField) (rowfilter.ColumnDescriptor, bool) {
	pt, ok := s.physicalTypes[field.Name]
	if !ok {
		return rowfilter.ColumnDescriptor{}, false
	}

	return rowfilter.ColumnDescriptor{Path: rowfilter.ColumnPath{field.Name}, PhysicalType: pt}, true
}

func logicalTypeForPhysical(t parquet.Type) rowfilter.LogicalType {
	switch t {
	case parquet.Types.Boolean:
		return rowfilter.PrimitiveTypes.Boolean
	case parquet.Types.Int32:
		return rowfilter.PrimitiveTypes.Int32
	case parquet.Types.Int64, parquet.Types.Int96:
		return rowfilter.PrimitiveTypes.Int64
	case parquet.Types.Float:
		return rowfilter.PrimitiveTypes.Float32
	case parquet.Types.Double:
		return rowfilter.PrimitiveTypes.Float64
	default:
		return rowfilter.PrimitiveTypes.String
	}
}
