// Package clipboardx connects the kill ring to the system clipboard.
package clipboardx

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
)

type command struct {
	name string
	args []string
}

var (
	writeCommands = []command{
		{name: "wl-copy"},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
		{name: "pbcopy"},
		{name: "clip.exe"},
	}
	readCommands = []command{
		{name: "wl-paste", args: []string{"--no-newline"}},
		{name: "xclip", args: []string{"-o", "-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--output"}},
		{name: "pbpaste"},
		{name: "powershell.exe", args: []string{"-NoProfile", "-Command", "Get-Clipboard"}},
	}
)

// System is a killring.Clipboard backed by the platform clipboard. It
// tries atotto/clipboard first, then the usual command-line tools, and
// finally an OSC 52 escape on Terminal. The last written text is kept so
// reads still work where no clipboard is reachable.
type System struct {
	Terminal io.Writer
	last     string
}

func New() *System {
	s := &System{}
	if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		s.Terminal = os.Stdout
	}
	return s
}

func (s *System) Write(text string) bool {
	s.last = text
	ok := false

	if err := clipboard.WriteAll(text); err == nil {
		ok = true
	}
	if writeWithCommands(text) {
		ok = true
	}
	if s.writeOSC52(text) {
		ok = true
	}
	return ok
}

func (s *System) Read() (string, bool) {
	if text, err := clipboard.ReadAll(); err == nil && text != "" {
		return text, true
	}
	if text, ok := readWithCommands(); ok && text != "" {
		return text, true
	}
	return s.last, s.last != ""
}

func writeWithCommands(text string) bool {
	ok := false
	for _, c := range writeCommands {
		if _, err := exec.LookPath(c.name); err != nil {
			continue
		}
		cmd := exec.Command(c.name, c.args...)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			ok = true
		}
	}
	return ok
}

func readWithCommands() (string, bool) {
	for _, c := range readCommands {
		if _, err := exec.LookPath(c.name); err != nil {
			continue
		}
		out, err := exec.Command(c.name, c.args...).Output()
		if err == nil && len(out) > 0 {
			return string(out), true
		}
	}
	return "", false
}

func (s *System) writeOSC52(text string) bool {
	if text == "" || s.Terminal == nil {
		return false
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	_, err := fmt.Fprintf(s.Terminal, "\x1b]52;c;%s\x07", encoded)
	return err == nil
}
