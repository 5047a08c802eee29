package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jwulff/glycemia-go/internal/tracker"
)

// period is a YYYY-MM-DD date range shared by stats, chart and report.
type period struct {
	from string
	to   string
}

func addPeriodFlags(fs *pflag.FlagSet, p *period) {
	fs.StringVar(&p.from, "from", "", "Period start YYYY-MM-DD")
	fs.StringVar(&p.to, "to", "", "Period end YYYY-MM-DD")
}

func (p period) set() bool {
	return p.from != "" || p.to != ""
}

func (p period) validate() error {
	return tracker.ValidatePeriod(p.from, p.to)
}

func parseIDArg(name, value string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be > 0", name)
	}
	return v, nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// splitArgs splits a shell line into words. Single and double quotes group words.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		quote   rune
		inWord  bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}
