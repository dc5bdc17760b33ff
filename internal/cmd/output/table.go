package output

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Align is a column alignment.
type Align int

const (
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

var twAligns = map[Align]tw.Align{
	AlignLeft:   tw.AlignLeft,
	AlignCenter: tw.AlignCenter,
	AlignRight:  tw.AlignRight,
}

// Data is a prepared table.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align
}

// maxCellWidth bounds cells outside wide mode.
const maxCellWidth = 40

// TableFormatter renders Data, structs, and slices of structs. Anything else
// is written as JSON.
type TableFormatter struct {
	Wide bool
}

func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.render(w, v)
	case *Data:
		return f.render(w, *v)
	}
	if d, ok := reflectData(data); ok {
		return f.render(w, d)
	}
	return writeJSON(w, data)
}

func (f *TableFormatter) render(w io.Writer, data Data) error {
	var cfg tablewriter.Config
	if len(data.ColumnAlignment) > 0 {
		per := make([]tw.Align, len(data.ColumnAlignment))
		for i, a := range data.ColumnAlignment {
			al, ok := twAligns[a]
			if !ok {
				al = tw.Skip
			}
			per[i] = al
		}
		cfg.Header.Alignment = tw.CellAlignment{PerColumn: per}
		cfg.Row.Alignment = tw.CellAlignment{PerColumn: per}
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(cfg))
	if len(data.Headers) > 0 {
		table.Header(cells(data.Headers, false)...)
	}
	for _, row := range data.Rows {
		if err := table.Append(cells(row, !f.Wide)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func cells(row []string, truncate bool) []any {
	out := make([]any, len(row))
	for i, c := range row {
		if r := []rune(c); truncate && len(r) > maxCellWidth {
			c = string(r[:maxCellWidth-3]) + "..."
		}
		out[i] = c
	}
	return out
}

// reflectData lays out a struct as property rows, or a slice of structs as
// one row per element.
func reflectData(data any) (Data, bool) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return Data{}, false
		}
		v = v.Elem()
	}

	switch {
	case v.Kind() == reflect.Struct:
		d := Data{Headers: []string{"Property", "Value"}}
		for _, i := range visibleFields(v.Type()) {
			d.Rows = append(d.Rows, []string{columnName(v.Type().Field(i)), fmt.Sprint(v.Field(i).Interface())})
		}
		return d, true

	case v.Kind() == reflect.Slice && v.Len() > 0 && v.Index(0).Kind() == reflect.Struct:
		t := v.Index(0).Type()
		fields := visibleFields(t)
		d := Data{}
		for _, i := range fields {
			d.Headers = append(d.Headers, columnName(t.Field(i)))
		}
		for r := 0; r < v.Len(); r++ {
			row := make([]string, len(fields))
			for j, i := range fields {
				row[j] = fmt.Sprint(v.Index(r).Field(i).Interface())
			}
			d.Rows = append(d.Rows, row)
		}
		return d, true
	}
	return Data{}, false
}

// visibleFields skips unexported fields and those tagged json:"-".
func visibleFields(t reflect.Type) []int {
	var idx []int
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if f.IsExported() && f.Tag.Get("json") != "-" {
			idx = append(idx, i)
		}
	}
	return idx
}

// columnName titles the json name of a field ("dry_run" becomes "Dry Run").
func columnName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}
