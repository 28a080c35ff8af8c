package tabula

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/ptiger10/tablediff"
)

// indexField is the reserved field carrying the index value inside the
// structural serialized form.
const indexField = "__index__"

// serializedFrame is the structural serialized form: the ordered column
// names, a detected type tag per column (plus one for the index), and one
// record per row with the index folded in as a reserved field.
type serializedFrame struct {
	ColumnOrder []string          `json:"columnOrder"`
	Columns     map[string]string `json:"columns"`
	Values      []map[string]any  `json:"values"`
}

// Serialize produces the structural serialized form as JSON, preserving
// column order and the detected per-column type tag. Date-typed values
// (including date-typed index keys) are normalized to ISO 8601. Numeric
// values pass through JSON, so integer columns come back from Deserialize
// widened to float64.
func (df *DataFrame) Serialize() (string, error) {
	if df.err != nil {
		return "", fmt.Errorf("serializing DataFrame: %v", df.err)
	}
	c := df.getContent()
	if c.err != nil {
		return "", fmt.Errorf("serializing DataFrame: %v", c.err)
	}
	pairs := collect(c.pairs)

	columns := make(map[string]string, len(c.columnNames)+1)
	for _, col := range c.columnNames {
		columns[col] = "other"
		for _, p := range pairs {
			if v := asRow(p.Value)[col]; v != nil {
				columns[col] = typeTag(v)
				break
			}
		}
	}
	columns[indexField] = "other"
	for _, p := range pairs {
		if p.Index != nil {
			columns[indexField] = typeTag(p.Index)
			break
		}
	}

	values := make([]map[string]any, len(pairs))
	for i, p := range pairs {
		record := make(map[string]any, len(c.columnNames)+1)
		for _, col := range c.columnNames {
			record[col] = serializeValue(asRow(p.Value)[col], columns[col])
		}
		record[indexField] = serializeValue(p.Index, columns[indexField])
		values[i] = record
	}

	out, err := json.MarshalIndent(serializedFrame{
		ColumnOrder: c.columnNames,
		Columns:     columns,
		Values:      values,
	}, "", "    ")
	if err != nil {
		return "", fmt.Errorf("serializing DataFrame: %v", err)
	}
	return string(out), nil
}

func serializeValue(val any, tag string) any {
	if t, ok := val.(time.Time); ok && tag == "date" {
		return t.Format(time.RFC3339Nano)
	}
	return val
}

// Deserialize recovers a DataFrame from the structural serialized form.
// The reserved index field is stripped from each record and reinstated as
// the index sequence; columns tagged "date" are parsed back from ISO 8601.
func Deserialize(data string) (*DataFrame, error) {
	var frame serializedFrame
	if err := json.Unmarshal([]byte(data), &frame); err != nil {
		return nil, fmt.Errorf("deserializing DataFrame: %v", err)
	}
	rows := make([]Row, len(frame.Values))
	index := make([]any, len(frame.Values))
	for i, record := range frame.Values {
		key, err := deserializeValue(record[indexField], frame.Columns[indexField])
		if err != nil {
			return nil, fmt.Errorf("deserializing DataFrame: index at row %d: %v", i, err)
		}
		index[i] = key
		row := make(Row, len(frame.ColumnOrder))
		for _, col := range frame.ColumnOrder {
			val, err := deserializeValue(record[col], frame.Columns[col])
			if err != nil {
				return nil, fmt.Errorf("deserializing DataFrame: column %s at row %d: %v", col, i, err)
			}
			row[col] = val
		}
		rows[i] = row
	}
	return NewDataFrameConfig(DataFrameConfig{
		Values:      rows,
		ColumnNames: frame.ColumnOrder,
		Index:       index,
	}), nil
}

func deserializeValue(val any, tag string) (any, error) {
	if tag != "date" || val == nil {
		return val, nil
	}
	text, ok := val.(string)
	if !ok {
		return nil, fmt.Errorf("date-tagged value must be a string, not %T", val)
	}
	t, err := dateparse.ParseAny(text)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %v", text, err)
	}
	return t, nil
}

// -- TEXT ADAPTERS
// Renderers consume the core only through ToRows, ToArray, ToPairs, and
// GetColumnNames.

// CSVRecords reduces the DataFrame to [][]string records: a header of
// column names followed by the stringified rows in column order.
func (df *DataFrame) CSVRecords() [][]string {
	columnNames := df.GetColumnNames()
	ret := [][]string{columnNames}
	for _, rowVals := range df.ToRows() {
		record := make([]string, len(rowVals))
		for i, v := range rowVals {
			record[i] = stringifyCell(v)
		}
		ret = append(ret, record)
	}
	return ret
}

// WriteCSV writes the DataFrame as CSV with standard comma/quote escaping.
func (df *DataFrame) WriteCSV(w io.Writer) error {
	if df.err != nil {
		return fmt.Errorf("writing csv: %v", df.err)
	}
	if err := df.getContent().err; err != nil {
		return fmt.Errorf("writing csv: %v", err)
	}
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(df.CSVRecords()); err != nil {
		return fmt.Errorf("writing csv: %v", err)
	}
	return nil
}

// ToCSV renders the DataFrame as a CSV string.
func (df *DataFrame) ToCSV() (string, error) {
	var buf strings.Builder
	if err := df.WriteCSV(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ReadCSV reads CSV data into a DataFrame. The first record is the header;
// all values are read as strings (see Series.ParseInts, ParseFloats, and
// ParseDates for typing them afterward).
func ReadCSV(r io.Reader) (*DataFrame, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %v", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("reading csv: must have at least a header record")
	}
	rows := make([][]any, len(records)-1)
	for i, record := range records[1:] {
		row := make([]any, len(record))
		for j, cell := range record {
			row[j] = cell
		}
		rows[i] = row
	}
	df := NewDataFrameConfig(DataFrameConfig{Rows: rows, ColumnNames: records[0]})
	if df.err != nil {
		return nil, fmt.Errorf("reading csv: %v", df.err)
	}
	return df, nil
}

// ToJSON renders ToArray pretty-printed as JSON.
func (df *DataFrame) ToJSON() (string, error) {
	if df.err != nil {
		return "", fmt.Errorf("converting to json: %v", df.err)
	}
	rows := df.ToArray()
	if err := df.getContent().err; err != nil {
		return "", fmt.Errorf("converting to json: %v", err)
	}
	out, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		return "", fmt.Errorf("converting to json: %v", err)
	}
	return string(out), nil
}

// ToHTML renders the DataFrame as an HTML table with one th per column
// and one tr per pair. Values are interpolated unescaped; do not feed the
// output untrusted data.
func (df *DataFrame) ToHTML() (string, error) {
	if df.err != nil {
		return "", fmt.Errorf("converting to html: %v", df.err)
	}
	c := df.getContent()
	if c.err != nil {
		return "", fmt.Errorf("converting to html: %v", c.err)
	}
	var buf strings.Builder
	buf.WriteString("<table border=\"1\" class=\"dataframe\">\n")
	buf.WriteString("    <thead>\n        <tr>\n")
	buf.WriteString("            <th></th>\n")
	for _, col := range c.columnNames {
		fmt.Fprintf(&buf, "            <th>%s</th>\n", col)
	}
	buf.WriteString("        </tr>\n    </thead>\n    <tbody>\n")
	c.pairs(func(p Pair) bool {
		buf.WriteString("        <tr>\n")
		fmt.Fprintf(&buf, "            <th>%s</th>\n", stringifyCell(p.Index))
		for _, v := range rowValues(asRow(p.Value), c.columnNames) {
			fmt.Fprintf(&buf, "            <td>%s</td>\n", stringifyCell(v))
		}
		buf.WriteString("        </tr>\n")
		return true
	})
	buf.WriteString("    </tbody>\n</table>")
	return buf.String(), nil
}

func stringifyCell(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case time.Time:
		return v.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(val)
}

// EqualsRecords reduces the DataFrame to stringified csv records and
// evaluates whether they match want. If they do not, the returned
// tablediff.Differences isolates the mismatching cells.
func (df *DataFrame) EqualsRecords(want [][]string) (bool, *tablediff.Differences) {
	diffs, eq := tablediff.Diff(df.CSVRecords(), want)
	return eq, diffs
}
