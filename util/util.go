// Package util provides a collection of domain-agnostic helpers.
package util

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"golang.org/x/exp/constraints"
	"golang.org/x/term"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[\\/<>:;"'|?!*{}#%&^+,~\s]`)
	repeatedUnderscores  = regexp.MustCompile(`__+`)
	edgeSeparators       = regexp.MustCompile(`^[_\-.]+|[_\-.]+$`)
)

// SanitizeFilename normalizes a string into a safe, cross-platform filename.
func SanitizeFilename(filename string) string {
	filename = invalidFilenameChars.ReplaceAllString(filename, "_")
	filename = repeatedUnderscores.ReplaceAllString(filename, "_")
	return edgeSeparators.ReplaceAllString(filename, "")
}

// Quantify returns a pluralized string representation of a count.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// Capitalize transforms the first rune of a string to its uppercase equivalent.
func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// TerminalSize retrieves the current character dimensions of the terminal window.
func TerminalSize() (width, height int, err error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// IsTerminal reports whether stdout is attached to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// FileStem extracts the base filename from a path, excluding the extension.
func FileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// PrintErasable prints an ephemeral line and returns a closure to clear it.
func PrintErasable(msg string) (eraser func()) {
	return FprintErasable(os.Stdout, msg)
}

// FprintErasable is PrintErasable for an arbitrary writer.
func FprintErasable(w io.Writer, msg string) (eraser func()) {
	fmt.Fprintf(w, "\r%s", msg)
	return func() {
		fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", lipgloss.Width(msg)))
	}
}

// Round rounds v to the given number of decimal places, halves to even.
func Round(v float64, places int) float64 {
	pow := math.Pow10(places)
	return math.RoundToEven(v*pow) / pow
}

// FormatDuration renders d as m:ss, or h:mm:ss once it reaches an hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// BestMatch returns the index of the candidate that fuzzily matches query best.
// An empty query or no match yields false.
func BestMatch(query string, candidates []string) (int, bool) {
	if query == "" {
		return 0, false
	}

	ranks := fuzzy.RankFindNormalizedFold(query, candidates)
	if len(ranks) == 0 {
		return 0, false
	}

	best := lo.MinBy(ranks, func(a, b fuzzy.Rank) bool {
		if a.Distance == b.Distance {
			return a.OriginalIndex < b.OriginalIndex
		}
		return a.Distance < b.Distance
	})
	return best.OriginalIndex, true
}

// Max returns the maximum value among arguments.
func Max[T constraints.Ordered](items ...T) (max T) {
	if len(items) == 0 {
		return
	}
	max = items[0]
	for _, item := range items[1:] {
		if item > max {
			max = item
		}
	}
	return
}

// Min returns the minimum value among arguments.
func Min[T constraints.Ordered](items ...T) (min T) {
	if len(items) == 0 {
		return
	}
	min = items[0]
	for _, item := range items[1:] {
		if item < min {
			min = item
		}
	}
	return
}
