package shared

import (
	"fmt"
	"net"
	"os/exec"
	"runtime"
	"strconv"
)

var getRuntime = func() string { return runtime.GOOS }

// LocalURL returns the browsable URL for a listener bound to host:port.
// Wildcard hosts are rewritten to the loopback address.
func LocalURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::", "[::]":
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
}

// browserCommands maps GOOS to the command that hands a URL to the desktop's default browser.
var browserCommands = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// OpenBrowser opens url in the default browser without waiting for it to exit.
func OpenBrowser(url string) error {
	rt := getRuntime()
	argv, ok := browserCommands[rt]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	cmd := exec.Command(argv[0], append(argv[1:], url)...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	go cmd.Wait()
	return nil
}
