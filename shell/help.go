package shell

import (
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
)

type helpEntry struct {
	Command     string `csv:"command"`
	Usage       string `csv:"usage"`
	Description string `csv:"description"`
}

//go:embed help.csv
var helpRawCSV string

var helpTable map[string]helpEntry

func init() {
	helpTable = make(map[string]helpEntry)
	err := gocsv.UnmarshalToCallback(
		strings.NewReader(helpRawCSV),
		func(row helpEntry) error {
			if _, exists := helpTable[row.Command]; exists {
				return fmt.Errorf("duplicate help entry for command %q", row.Command)
			}
			helpTable[row.Command] = row
			return nil
		},
	)
	if err != nil && err != io.EOF {
		panic(err)
	}
}

// Help returns the usage line and description for name, and whether it
// was found.
func Help(name string) (string, bool) {
	entry, ok := helpTable[name]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s\n    %s", entry.Usage, entry.Description), true
}

// HelpSummary lists every known command's usage line, sorted by name.
func HelpSummary() string {
	names := make([]string, 0, len(helpTable))
	for name := range helpTable {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		sb.WriteString(helpTable[name].Usage)
		sb.WriteByte('\n')
	}
	return sb.String()
}
