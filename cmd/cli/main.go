package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"sitewatch/internal/api"
	"sitewatch/internal/config"
	"sitewatch/internal/domain"
	"sitewatch/internal/lifecycle"
	"sitewatch/internal/scanparam"
	"sitewatch/internal/session"
	"sitewatch/internal/session/memory"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	engine := api.New(cfg.EngineURL, cfg.HTTPTimeout, zap.NewNop())
	sessions := session.NewManager(memory.New(), engine, zap.NewNop())
	coord := lifecycle.NewCoordinator(engine, engine, zap.NewNop())

	in := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email := readLine(in)
	fmt.Print("Password: ")
	password := readLine(in)

	user, err := sessions.Login(ctx, email, password)
	if err != nil {
		fmt.Println("Login failed:", err)
		return
	}
	fmt.Printf("Signed in as %s <%s>\n", user.Name, user.Email)

	for {
		fmt.Print("\n[l]ist  [c]reate  [d]elete  [s]can  [q]uit > ")
		switch readLine(in) {
		case "l":
			monitors, err := coord.List(ctx, user)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			for _, m := range monitors {
				fmt.Printf("  #%d  %-24s %s (every %ds)\n", m.ID, m.SiteName, m.SiteURL, m.Interval)
			}
		case "c":
			runCreate(ctx, in, coord, user)
		case "d":
			runDelete(ctx, in, coord, user)
		case "s":
			runScan(ctx, in, engine)
		case "q":
			sessions.Logout(ctx)
			return
		}
	}
}

func runCreate(ctx context.Context, in *bufio.Reader, coord *lifecycle.Coordinator, user *domain.User) {
	wiz := coord.NewCreate(user)

	fmt.Print("Site name: ")
	wiz.SiteName = readLine(in)
	fmt.Print("Site URL: ")
	wiz.SiteURL = readLine(in)
	if err := wiz.Next(); err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Print("Interval seconds (min 300): ")
	if n, err := strconv.Atoi(readLine(in)); err == nil {
		wiz.Interval = n
	}
	if err := wiz.Next(); err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("Review: %s — %s, every %ds. Create? [y/N] ", wiz.SiteName, wiz.SiteURL, wiz.Interval)
	if readLine(in) != "y" {
		return
	}
	if err := wiz.Submit(ctx); err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("Monitor created.")
}

func runDelete(ctx context.Context, in *bufio.Reader, coord *lifecycle.Coordinator, user *domain.User) {
	fmt.Print("Monitor id: ")
	id, err := strconv.ParseInt(readLine(in), 10, 64)
	if err != nil {
		fmt.Println("Invalid id.")
		return
	}

	flow := coord.NewDelete(user, domain.Monitor{ID: domain.MonitorID(id)})
	fmt.Print("Re-enter email: ")
	email := readLine(in)
	fmt.Print("Re-enter password: ")
	password := readLine(in)
	if err := flow.Verify(ctx, email, password); err != nil {
		fmt.Println("Verification failed:", err)
		return
	}

	fmt.Print("This cannot be undone. Type DELETE to confirm: ")
	if readLine(in) != "DELETE" {
		return
	}
	monitors, err := flow.Confirm(ctx)
	if err != nil {
		fmt.Println("Delete failed:", err)
		return
	}
	fmt.Printf("Deleted. %d monitors remain.\n", len(monitors))
}

func runScan(ctx context.Context, in *bufio.Reader, engine *api.Client) {
	fmt.Print("Start URL (empty for monitored site): ")
	startURL := readLine(in)

	n := scanparam.New()
	fmt.Printf("Max pages [%d-%d, default %d]: ", scanparam.Min, scanparam.Max, n.Slider())
	n.SetText(readLine(in))
	n.Blur()

	result, err := engine.LinkScan(ctx, startURL, n.Effective())
	if err != nil {
		fmt.Println("Scan failed:", err)
		return
	}
	fmt.Printf("Scanned %d pages, %d links checked, %d ok, %d broken (%d ms)\n",
		result.ScannedCount, result.TotalLinksChecked, result.OKCount, result.BrokenCount, result.DurationMS)
	for _, b := range result.Broken {
		status := "n/a"
		if b.StatusCode != nil {
			status = strconv.Itoa(*b.StatusCode)
		}
		fmt.Printf("  %s -> %s [%s]\n", b.SourcePage, b.Link, status)
	}
}

func readLine(in *bufio.Reader) string {
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}
