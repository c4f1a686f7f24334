package testbed

import (
	"path"
	"strings"

	"github.com/kballard/go-shellquote"
)

// provisionStep is one command executed inside a fresh testbed.
type provisionStep struct {
	desc string
	cmd  []string
}

// authorizeKeySteps installs pubKey for login. The .ssh directory is created
// with mode 0700 and both it and authorized_keys end up owned by login.
func authorizeKeySteps(login, home, pubKey string) []provisionStep {
	sshDir := path.Join(home, ".ssh")
	authorized := path.Join(sshDir, "authorized_keys")

	script := strings.Join([]string{
		shellquote.Join("mkdir", "-p", sshDir),
		shellquote.Join("chmod", "700", sshDir),
		shellquote.Join("printf", `%s\n`, pubKey) + " >> " + shellquote.Join(authorized),
	}, " && ")

	owner := login + ":" + login
	return []provisionStep{
		{desc: "install SSH public key", cmd: []string{"sh", "-c", script}},
		{desc: "set authorized_keys ownership", cmd: []string{"chown", owner, sshDir, authorized}},
	}
}

// aptProxyLine is the apt configuration routing HTTP through proxy.
func aptProxyLine(proxy string) string {
	return "Acquire::http::proxy \"" + proxy + "\";"
}

// aptProxyStep writes the apt proxy configuration to file.
func aptProxyStep(proxy, file string) provisionStep {
	script := shellquote.Join("printf", `%s\n`, aptProxyLine(proxy)) + " > " + shellquote.Join(file)
	return provisionStep{desc: "configure apt proxy", cmd: []string{"sh", "-c", script}}
}
