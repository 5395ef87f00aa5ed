package cleaning

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/dataprep-cli/internal/loader"
	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

var (
	num  = table.NumberValue
	text = table.TextValue
	na   = table.MissingValue
)

func mustTable(t *testing.T, header []string, rows ...[]table.Value) *table.Table {
	t.Helper()
	tb, err := table.FromRows("test", header, rows)
	require.NoError(t, err)
	return tb
}

func TestDeduplicateKeepsFirstOccurrence(t *testing.T) {
	tb := mustTable(t, []string{"k", "v"},
		[]table.Value{text("A"), num(1)},
		[]table.Value{text("B"), num(2)},
		[]table.Value{text("A"), num(1)},
	)
	out, removed := Deduplicate(tb)
	assert.Equal(t, 1, removed)
	assert.Equal(t, [][]string{{"A", "1"}, {"B", "2"}}, out.Records())
	assert.Equal(t, 3, tb.NumRows(), "input must not be mutated")
}

func TestImputeNumericMedian(t *testing.T) {
	tb := mustTable(t, []string{"x"},
		[]table.Value{num(1)},
		[]table.Value{na()},
		[]table.Value{num(3)},
	)
	out, fills, err := Impute(tb)
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, StrategyMedian, fills[0].Strategy)
	assert.Equal(t, 1, fills[0].Filled)
	assert.Equal(t, [][]string{{"1"}, {"2"}, {"3"}}, out.Records())
	assert.True(t, tb.Columns[0].Values[1].IsMissing(), "input must not be mutated")
}

func TestImputeMedianOddCountIgnoresMissing(t *testing.T) {
	tb := mustTable(t, []string{"x"},
		[]table.Value{num(10)},
		[]table.Value{na()},
		[]table.Value{num(1)},
		[]table.Value{num(4)},
	)
	out, _, err := Impute(tb)
	require.NoError(t, err)
	assert.Equal(t, 4.0, out.Columns[0].Values[1].Num)
}

func TestImputeModeTieGoesToFirstSeen(t *testing.T) {
	tb := mustTable(t, []string{"c"},
		[]table.Value{text("red")},
		[]table.Value{text("blue")},
		[]table.Value{na()},
		[]table.Value{text("blue")},
		[]table.Value{text("red")},
	)
	out, fills, err := Impute(tb)
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, StrategyMode, fills[0].Strategy)
	assert.Equal(t, "red", out.Columns[0].Values[2].String())
}

func TestImputeModeOnMixedColumn(t *testing.T) {
	tb := mustTable(t, []string{"m"},
		[]table.Value{num(1)},
		[]table.Value{text("x")},
		[]table.Value{text("x")},
		[]table.Value{na()},
	)
	out, fills, err := Impute(tb)
	require.NoError(t, err)
	assert.Equal(t, StrategyMode, fills[0].Strategy)
	assert.Equal(t, text("x"), out.Columns[0].Values[3])
}

func TestImputeAllMissingColumnFails(t *testing.T) {
	tb := mustTable(t, []string{"ok", "empty"},
		[]table.Value{num(1), na()},
		[]table.Value{num(2), na()},
	)
	_, _, err := Impute(tb)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrImputation))
	var ie *ImputationError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "empty", ie.Column)
}

func TestNormalizeMixedCoercesToText(t *testing.T) {
	tb := mustTable(t, []string{"m", "n"},
		[]table.Value{num(1), num(1)},
		[]table.Value{text("x"), num(2)},
		[]table.Value{num(2), num(3)},
	)
	out, coerced := NormalizeMixed(tb)
	assert.Equal(t, []string{"m"}, coerced)
	col, _ := out.Column("m")
	for _, v := range col.Values {
		assert.Equal(t, table.Text, v.Kind)
	}
	assert.Equal(t, []string{"1", "x", "2"}, []string{col.Values[0].String(), col.Values[1].String(), col.Values[2].String()})
	n, _ := out.Column("n")
	assert.Equal(t, table.TypeNumeric, n.Info().Type)
}

func TestCleanReportsEachPass(t *testing.T) {
	src := "id,city,score,code\n" +
		"1,Oslo,10,7\n" +
		"2,,20,x\n" +
		"1,Oslo,10,7\n" +
		"3,Lima,,9\n" +
		"4,Oslo,40,\n"
	tb, err := loader.Load(strings.NewReader(src), "in.csv", loader.Options{})
	require.NoError(t, err)

	res, err := Clean(tb)
	require.NoError(t, err)
	assert.Equal(t, 1, res.RowsRemoved)
	assert.Equal(t, 0, res.RowsCollapsed)
	assert.Equal(t, []string{"city", "score", "code"}, res.ImputedColumns())
	assert.Equal(t, []string{"code"}, res.Coerced)
	assert.Equal(t, 4, res.Table.NumRows())
	assert.Equal(t, 0, res.Table.MissingCount())
	for _, info := range res.Table.Describe() {
		assert.NotEqual(t, table.TypeMixed, info.Type, info.Name)
	}
	// city mode is Oslo; score median of {10,20,40} is 20; code ties go to 7.
	recs := res.Table.Records()
	assert.Equal(t, []string{"2", "Oslo", "20", "x"}, recs[1])
	assert.Equal(t, []string{"3", "Lima", "20", "9"}, recs[2])
	assert.Equal(t, []string{"4", "Oslo", "40", "7"}, recs[3])
}

func TestCleanIsIdempotent(t *testing.T) {
	tb := mustTable(t, []string{"k", "v"},
		[]table.Value{text("a"), na()},
		[]table.Value{text("a"), num(5)},
		[]table.Value{num(1), text("1")},
		[]table.Value{text("1"), text("1")},
		[]table.Value{text("b"), num(5)},
	)
	first, err := Clean(tb)
	require.NoError(t, err)
	// Row 0 turns into a copy of row 1 once filled; rows 2 and 3 match once k is text.
	assert.Equal(t, 2, first.RowsCollapsed)

	second, err := Clean(first.Table)
	require.NoError(t, err)
	assert.Equal(t, 0, second.RowsRemoved)
	assert.Equal(t, 0, second.RowsCollapsed)
	assert.Empty(t, second.Imputed)
	assert.Empty(t, second.Coerced)
	assert.True(t, first.Table.Equal(second.Table))
}

func TestCleanPropagatesImputationError(t *testing.T) {
	tb := mustTable(t, []string{"x"}, []table.Value{na()})
	res, err := Clean(tb)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrImputation)
}

func TestCleanWithHooksFiresInPassOrder(t *testing.T) {
	tb := mustTable(t, []string{"k", "v"},
		[]table.Value{text("A"), num(1)},
		[]table.Value{text("A"), num(1)},
		[]table.Value{text("A"), na()},
	)
	var events []string
	res, err := CleanWithHooks(tb, Hooks{
		Deduplicated: func(n int) { events = append(events, "dedup") },
		Imputed:      func(f []Imputation) { events = append(events, "impute") },
		Normalized:   func(c []string) { events = append(events, "normalize") },
		Collapsed:    func(n int) { events = append(events, "collapse") },
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"dedup", "impute", "normalize", "collapse"}, events)
	assert.Equal(t, 1, res.RowsRemoved)
	assert.Equal(t, 1, res.RowsCollapsed)
	assert.Equal(t, [][]string{{"A", "1"}}, res.Table.Records())
}

func TestCleanWithHooksStopsAtFailingPass(t *testing.T) {
	tb := mustTable(t, []string{"k", "empty"},
		[]table.Value{text("A"), na()},
		[]table.Value{text("A"), na()},
	)
	var events []string
	_, err := CleanWithHooks(tb, Hooks{
		Deduplicated: func(n int) { events = append(events, "dedup") },
		Imputed:      func(f []Imputation) { events = append(events, "impute") },
	})
	require.ErrorIs(t, err, ErrImputation)
	assert.Equal(t, []string{"dedup"}, events)
}

func TestCleanLeavesInputUntouched(t *testing.T) {
	tb := mustTable(t, []string{"k", "v"},
		[]table.Value{text("a"), na()},
		[]table.Value{text("a"), na()},
		[]table.Value{num(1), num(3)},
	)
	before := tb.Clone()
	res, err := Clean(tb)
	require.NoError(t, err)
	assert.NotSame(t, tb, res.Table)
	assert.True(t, tb.Equal(before))
	assert.Equal(t, 2, tb.MissingCount())
}

func TestDeduplicateTreatsEqualNumbersAsSame(t *testing.T) {
	tb, err := loader.Load(strings.NewReader("a,b\n1,x\n1.0,x\n2,x\n"), "in.csv", loader.Options{})
	require.NoError(t, err)
	out, removed := Deduplicate(tb)
	assert.Equal(t, 1, removed)
	assert.Equal(t, [][]string{{"1", "x"}, {"2", "x"}}, out.Records())
}

func TestImputeModeCountsNumbersByValue(t *testing.T) {
	p := table.NewParser(nil)
	tb := mustTable(t, []string{"v"},
		[]table.Value{text("x")},
		[]table.Value{p.Parse("2.0")},
		[]table.Value{na()},
		[]table.Value{p.Parse("2")},
	)
	out, applied, err := Impute(tb)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	assert.Equal(t, StrategyMode, applied[0].Strategy)
	assert.Equal(t, "2.0", applied[0].Value.String())
	assert.Equal(t, "2.0", out.Records()[2][0])
}

func TestImputeMedianNearFloatLimit(t *testing.T) {
	tb := mustTable(t, []string{"v"},
		[]table.Value{num(1e308)},
		[]table.Value{num(1.7e308)},
		[]table.Value{na()},
	)
	out, applied, err := Impute(tb)
	require.NoError(t, err)
	require.Len(t, applied, 1)
	fill := applied[0].Value
	assert.Equal(t, table.Number, fill.Kind)
	assert.InDelta(t, 1.35e308, fill.Num, 1e293)

	// The written text must load back as the same number.
	back := table.NewParser(nil).Parse(out.Records()[2][0])
	assert.Equal(t, table.Number, back.Kind)
	assert.Equal(t, fill.Num, back.Num)
}
