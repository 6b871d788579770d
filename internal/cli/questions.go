package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FillInitOptionsInteractive prompts the user to confirm or override defaults.
// Empty answers, or a closed input, keep the provided values.
func FillInitOptionsInteractive(in io.Reader, out io.Writer, opts *InitOptions) {
	reader := bufio.NewReader(in)

	ask := func(prompt string, current *string, def string) {
		shown := *current
		if shown == "" {
			shown = def
		}
		fmt.Fprintf(out, "%s [%s]: ", prompt, shown)
		if s, _ := reader.ReadString('\n'); strings.TrimSpace(s) != "" {
			*current = strings.TrimSpace(s)
		}
	}

	ask("Site directory", &opts.SiteDir, ".")
	ask("Site title", &opts.Title, "Psychoanalytically Speaking")
}
