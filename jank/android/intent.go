package android

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

const (
	ActionView = "android.intent.action.VIEW"

	FlagActivityNewTask = 0x10000000
)

// Intent is an activation request submitted with `am start`.
type Intent struct {
	Action   string
	Package  string
	Activity string
	Data     string
	Flags    int
}

// Component returns "package/activity" in the form `am` accepts.
func (i Intent) Component() string {
	return i.Package + "/" + i.Activity
}

// Args returns the argument list following `am start`.
func (i Intent) Args() []string {
	var args []string
	if i.Action != "" {
		args = append(args, "-a", i.Action)
	}
	if i.Data != "" {
		args = append(args, "-d", i.Data)
	}
	if i.Package != "" && i.Activity != "" {
		args = append(args, "-n", i.Component())
	}
	if i.Flags != 0 {
		args = append(args, "-f", fmt.Sprintf("0x%08x", i.Flags))
	}
	return args
}

// ShellArgs is Args quoted for the device shell, which re-splits the
// command line `adb shell` sends.
func (i Intent) ShellArgs() []string {
	args := i.Args()
	for n, a := range args {
		args[n] = shellQuote(a)
	}
	return args
}

// FileURI turns a device path into a percent-encoded file:// URI. Relative
// paths resolve against the device root and values carrying a scheme pass
// through.
func FileURI(p string) string {
	if strings.Contains(p, "://") {
		return p
	}
	if !path.IsAbs(p) {
		p = "/" + p
	}
	return (&url.URL{Scheme: "file", Path: path.Clean(p)}).String()
}

// shellQuote single-quotes s unless every byte is safe for sh unquoted.
func shellQuote(s string) string {
	if s != "" && strings.Trim(s, shellSafe) == "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

const shellSafe = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_@%+=:,./-"
