package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/osse101/TapQuest_Go/internal/domain"
	"github.com/osse101/TapQuest_Go/internal/session"
)

const prompt = "> "

const helpText = `commands:
  tap [n]       tap once, or with n simultaneous touches
  buy <item>    buy an upgrade (tapStrength, recoverSpeed, energyLevel)
  status        show energy, balance and level
  shop          list upgrades with prices
  tasks         list social tasks
  claim <id>    claim a social task reward
  top [n]       show the leaderboard
  quit          save and exit`

// sessionAPI is what the REPL needs beyond the session itself
type sessionAPI interface {
	ListShop(ctx context.Context, identity string) ([]domain.ShopOffer, error)
	ListTasks(ctx context.Context, identity string) ([]domain.TaskStatus, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}

type player interface {
	Tap(touchCount int) session.TapResult
	Purchase(ctx context.Context, item domain.ItemType) (domain.PurchaseResult, error)
	ClaimTask(ctx context.Context, taskID string) (domain.ClaimResult, error)
	Status() session.Status
}

type repl struct {
	sess     player
	api      sessionAPI
	identity string
	out      io.Writer
}

// exec runs one command line and reports whether the loop should continue
func (r *repl) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "tap", "t":
		r.tap(args)
	case "buy":
		r.buy(ctx, args)
	case "status", "s":
		r.printStatus()
	case "shop":
		r.shop(ctx)
	case "tasks":
		r.tasks(ctx)
	case "claim":
		r.claim(ctx, args)
	case "top":
		r.top(ctx, args)
	case "quit", "exit", "q":
		return false
	case "help", "?":
		fmt.Fprintln(r.out, helpText)
	default:
		fmt.Fprintf(r.out, "unknown command %q, try help\n", fields[0])
	}
	return true
}

func (r *repl) tap(args []string) {
	touches := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 || n > domain.MaxTouchesPerTap {
			fmt.Fprintf(r.out, "touch count must be between 1 and %d\n", domain.MaxTouchesPerTap)
			return
		}
		touches = n
	}

	res := r.sess.Tap(touches)
	if !res.Accepted {
		fmt.Fprintf(r.out, "not enough energy (%.0f)\n", res.Energy)
		return
	}
	fmt.Fprintf(r.out, "+%d  balance %d  energy %.0f\n", res.Earned, res.Balance, res.Energy)
}

func (r *repl) buy(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: buy <item>")
		return
	}
	res, err := r.sess.Purchase(ctx, domain.ItemType(args[0]))
	if err != nil {
		fmt.Fprintln(r.out, "purchase failed:", err)
		return
	}
	fmt.Fprintf(r.out, "bought %s level %d for %d, balance %d\n",
		args[0], res.User.ItemLevels.Level(domain.ItemType(args[0])), res.Cost, res.User.Balance)
}

func (r *repl) claim(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(r.out, "usage: claim <task id>")
		return
	}
	res, err := r.sess.ClaimTask(ctx, args[0])
	if err != nil {
		fmt.Fprintln(r.out, "claim failed:", err)
		return
	}
	fmt.Fprintf(r.out, "claimed %s: +%d, balance %d\n", args[0], res.Points, res.User.Balance)
}

func (r *repl) printStatus() {
	st := r.sess.Status()
	fmt.Fprintf(r.out, "energy %.0f/%.0f (+%.0f/s)  balance %d  total %d  level %d (%.0f%%)",
		st.Energy.Current, st.Energy.Capacity, st.Energy.RegenRate,
		st.Balance, st.TotalEarned, st.Level.Level, st.Level.ProgressPercent)
	if st.PendingSave {
		fmt.Fprintf(r.out, "  unsynced %d", st.Pending)
	}
	if st.Offline {
		fmt.Fprint(r.out, "  [offline]")
	}
	fmt.Fprintln(r.out)
}

func (r *repl) shop(ctx context.Context) {
	offers, err := r.api.ListShop(ctx, r.identity)
	if err != nil {
		fmt.Fprintln(r.out, "shop unavailable:", err)
		return
	}
	for _, o := range offers {
		price := strconv.FormatInt(o.NextCost, 10)
		if o.MaxedOut {
			price = "max"
		}
		fmt.Fprintf(r.out, "  %-14s %-16s lvl %2d/%d  %s\n", o.ID, o.Name, o.CurrentLevel, o.MaxLevel, price)
	}
}

func (r *repl) tasks(ctx context.Context) {
	tasks, err := r.api.ListTasks(ctx, r.identity)
	if err != nil {
		fmt.Fprintln(r.out, "tasks unavailable:", err)
		return
	}
	for _, t := range tasks {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(r.out, "  [%s] %-10s +%d  %s\n", mark, t.ID, t.Points, t.Title)
	}
}

func (r *repl) top(ctx context.Context, args []string) {
	limit := 10
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := r.api.Leaderboard(ctx, limit)
	if err != nil {
		fmt.Fprintln(r.out, "leaderboard unavailable:", err)
		return
	}
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = e.Identity
		}
		fmt.Fprintf(r.out, "  %3d. %-20s %10d  lvl %d\n", e.Rank, name, e.TotalEarned, e.Level)
	}
}
