// internal/app/cli/output.go
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/studyvault/internal/app/present"
	"github.com/dalemusser/studyvault/internal/domain/models"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var bold = color.New(color.Bold)

func printView(w io.Writer, v present.View) {
	if len(v.Breadcrumbs) == 0 {
		fmt.Fprintln(w, "Nothing selected.")
	} else {
		labels := make([]string, 0, len(v.Breadcrumbs))
		for _, c := range v.Breadcrumbs {
			labels = append(labels, c.Label)
		}
		fmt.Fprintln(w, bold.Sprint(strings.Join(labels, " > ")))
	}

	if v.Next != "" {
		fmt.Fprintln(w)
		printOptions(w, string(v.Next), v.Options)
		return
	}

	fmt.Fprintln(w)
	if v.Empty {
		fmt.Fprintln(w, v.Message)
		return
	}
	if len(v.Groups) > 0 {
		for _, g := range v.Groups {
			fmt.Fprintln(w, bold.Sprint(g.Label))
			printFiles(w, g.Files)
			fmt.Fprintln(w)
		}
		return
	}
	printFiles(w, v.Files)
}

func printOptions(w io.Writer, level string, opts []present.Option) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(strings.ToUpper(level)), bold.Sprint("LABEL"))
	for _, o := range opts {
		tbl.AddRow(o.Value, o.Label)
	}
	fmt.Fprintln(w, tbl)
}

func printFiles(w io.Writer, files []models.FileResource) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("NAME"), bold.Sprint("ORIGIN"), bold.Sprint("SIZE"), bold.Sprint("URL"))
	for _, f := range files {
		size := "-"
		if f.Size > 0 {
			size = humanize.Bytes(uint64(f.Size))
		}
		tbl.AddRow(present.DisplayName(f), string(f.Origin), size, f.ViewURL)
	}
	tbl.RightAlign(2)
	fmt.Fprintln(w, tbl)
}

func printSubjects(w io.Writer, subjects []models.Subject) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("CODE"), bold.Sprint("NAME"))
	for _, s := range subjects {
		tbl.AddRow(s.Code, s.Name)
	}
	fmt.Fprintln(w, tbl)
}
