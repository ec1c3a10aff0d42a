package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var promptStyle = lipgloss.NewStyle().
	Foreground(WarningColor).
	Bold(true)

// PromptPassword asks for a secret without echoing it. When stdin is not a
// terminal a single line is read instead.
func PromptPassword(prompt string) (string, error) {
	fmt.Print(promptStyle.Render(prompt + ": "))

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return readLine(os.Stdin)
	}

	secret, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(secret), nil
}

// Confirm displays a warning and asks the user to type "yes".
func Confirm(title string, warnings []string) bool {
	fmt.Println(NewWarningResult(title, nil).Render())
	for _, warning := range warnings {
		fmt.Println(lipgloss.NewStyle().Foreground(TextColor).Render("   • " + warning))
	}
	fmt.Println()
	fmt.Print(promptStyle.Render("Type \"yes\" to continue: "))

	input, err := readLine(os.Stdin)
	if err == nil && strings.EqualFold(input, "yes") {
		return true
	}

	fmt.Println(lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
