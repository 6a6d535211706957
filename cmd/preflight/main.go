// cmd/preflight/main.go
package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

func main() {
	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	engine := strings.TrimSpace(os.Getenv("ENGINE_URL"))
	addr := strings.TrimSpace(os.Getenv("ADDR"))
	store := strings.TrimSpace(os.Getenv("SESSION_STORE"))
	redisAddr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	allowed := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))

	if engine == "" {
		warn("ENGINE_URL is empty; default http://localhost:8000 will be used.")
	} else if u, err := url.Parse(engine); err != nil || u.Scheme == "" || u.Host == "" {
		fail("ENGINE_URL is not a valid URL: " + engine)
	} else {
		ok("ENGINE_URL=" + engine)
	}

	if store == "redis" && redisAddr == "" {
		fail("SESSION_STORE=redis but REDIS_ADDR is empty.")
	}
	if store == "memory" {
		warn("SESSION_STORE=memory — the session will not survive a restart.")
	}

	if addr == "" {
		warn("ADDR is empty; default in your app may be used.")
	} else {
		ok("ADDR=" + addr)
	}

	if allowed == "" {
		warn("ALLOWED_ORIGINS empty — the web UI will accept requests from any origin.")
	} else {
		ok("ALLOWED_ORIGINS=" + allowed)
	}

	ok("preflight passed")
}
