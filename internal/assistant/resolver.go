// Package assistant implements the rule-based task assistant: a fixed,
// ordered chain of intent matchers evaluated against a lower-cased, trimmed
// utterance. The first matching rule formats the reply from the in-memory
// task snapshot; unmatched input always falls through to a filler response,
// so resolution is total and never errors.
package assistant

import (
	"math/rand"
	"strings"
	"time"

	dom "github.com/codewithhoney24/bettertasks/internal/domain"
)

// rule inspects the normalized utterance q (and the raw utterance for
// display) and either produces a reply or passes to the next rule.
type rule func(q, raw string, s *snapshot) (string, bool)

// Resolver answers canned queries about a task snapshot.
//
// Rule order is significant: overlapping intents are disambiguated by
// position in the chain, never by specificity. Do not reorder.
type Resolver struct {
	now   func() time.Time
	rules []rule
}

// New returns a Resolver using the wall clock and an unseeded uniform pick
// for the filler response.
func New() *Resolver {
	return newResolver(time.Now, rand.Intn)
}

// newResolver wires the chain; tests inject a fixed clock and pick.
func newResolver(now func() time.Time, pick func(n int) int) *Resolver {
	return &Resolver{now: now, rules: []rule{
		topicRule,
		overdueRule,
		todayRule,
		upcomingRule,
		priorityRule(dom.PriorityHigh, "🔴", "High", "high priority", "high prio", "urgent", "important"),
		priorityRule(dom.PriorityMedium, "🟡", "Medium", "medium priority", "medium prio"),
		priorityRule(dom.PriorityLow, "🟢", "Low", "low priority", "low prio"),
		prioritySummaryRule,
		workPriorityRule,
		shoppingRule,
		updatedRule,
		greetingRule,
		historyRule,
		deletedRule,
		statusRule,
		searchRule,
		fillerRule(pick),
	}}
}

// Resolve maps an utterance plus the current snapshot to a reply. It is a
// total function: every input resolves to some text.
func (r *Resolver) Resolve(utterance string, tasks []dom.Task, history []dom.Message, deletedCount int) string {
	raw := strings.TrimSpace(utterance)
	q := strings.ToLower(raw)
	s := &snapshot{
		tasks:   tasks,
		history: history,
		deleted: deletedCount,
		today:   startOfDay(r.now()),
	}

	for _, match := range r.rules {
		if reply, ok := match(q, raw, s); ok {
			return reply
		}
	}
	// Unreachable: the filler rule always matches.
	return ""
}

// snapshot bundles the immutable inputs of one resolution. Derived sets are
// recomputed per call; snapshots are small enough that this stays cheap.
type snapshot struct {
	tasks   []dom.Task
	history []dom.Message
	deleted int

	today time.Time // start of the current day, UTC
}

func (s *snapshot) pending() []dom.Task {
	return s.filter(func(t dom.Task) bool { return !t.Completed })
}

func (s *snapshot) completed() []dom.Task {
	return s.filter(func(t dom.Task) bool { return t.Completed })
}

func (s *snapshot) pendingWithPriority(p dom.Priority) []dom.Task {
	return s.filter(func(t dom.Task) bool { return !t.Completed && t.Priority == p })
}

// overdue uses the start of today as the cutoff, so a task due earlier today
// is not yet overdue.
func (s *snapshot) overdue() []dom.Task {
	return s.filter(func(t dom.Task) bool { return t.Overdue(s.today) })
}

func (s *snapshot) dueToday() []dom.Task {
	return s.filter(func(t dom.Task) bool { return !t.Completed && t.DueOn(s.today) })
}

// upcoming covers due dates from today through the next 7 days, pending only.
func (s *snapshot) upcoming() []dom.Task {
	nextWeek := s.today.AddDate(0, 0, 7)
	return s.filter(func(t dom.Task) bool {
		return !t.Completed && t.DueDate != nil &&
			!t.DueDate.Before(s.today) && !t.DueDate.After(nextWeek)
	})
}

func (s *snapshot) recentlyUpdated() []dom.Task {
	return s.filter(dom.Task.RecentlyModified)
}

func (s *snapshot) filter(keep func(dom.Task) bool) []dom.Task {
	var out []dom.Task
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func containsAny(q string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(q, sub) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
