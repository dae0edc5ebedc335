package app

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"boss_respawn_bot/internal/domain/catalog"
	"boss_respawn_bot/internal/domain/timer"

	"github.com/benbjohnson/clock"
	"github.com/sirupsen/logrus"
)

// Application-level errors surfaced by the confirmation workflow.
var (
	ErrNoPendingConfirmation = errors.New("no pending clear confirmation for this scope")
	ErrConfirmationExpired   = errors.New("clear confirmation has expired")
)

// Limit one reply can carry before the roster listing is split in two.
const maxReplyRunes = 3500

// Options tunes the command-side policies.
type Options struct {
	// DeathFutureThreshold: a death time more than this far in the future is
	// assumed to be yesterday's (registered after midnight).
	DeathFutureThreshold time.Duration
	// ConfirmTTL is how long a 清除全部 request stays confirmable.
	ConfirmTTL time.Duration
	// ReplyOnUnrecognized sends the help text for unknown messages instead
	// of staying silent. Group rooms usually want silence.
	ReplyOnUnrecognized bool
}

// TimerService is the orchestrator behind every inbound command: it resolves
// entity queries, computes respawn instants, and mutates the store — always
// under the store lock, one whole sequence per command.
type TimerService struct {
	store   timer.Store
	catalog *catalog.Catalog
	clk     clock.Clock
	loc     *time.Location
	opts    Options
	log     *logrus.Entry
}

func NewTimerService(
	store timer.Store,
	cat *catalog.Catalog,
	clk clock.Clock,
	loc *time.Location,
	opts Options,
	log *logrus.Entry,
) *TimerService {
	return &TimerService{
		store:   store,
		catalog: cat,
		clk:     clk,
		loc:     loc,
		opts:    opts,
		log:     log,
	}
}

func (s *TimerService) now() time.Time {
	return s.clk.Now().In(s.loc)
}

// RegisterTargets remembers push destinations for a scope. The transport
// calls this for every inbound event, so a room starts receiving reminders
// as soon as anyone talks in it.
func (s *TimerService) RegisterTargets(scopeID string, targets ...string) {
	err := s.store.Update(func(st *timer.State) error {
		sc := st.Scope(scopeID)
		changed := false
		for _, t := range targets {
			if t != "" && sc.AddTarget(t) {
				changed = true
			}
		}
		if !changed {
			return timer.ErrNoChange
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("scope", scopeID).Error("Failed to register notification targets")
	}
}

// Handle processes one raw command text for a scope and returns the replies
// to send back. Unrecognized text mutates nothing.
func (s *TimerService) Handle(scopeID, rawText string) []string {
	cmd := ParseCommand(s.catalog, rawText)
	logCtx := s.log.WithFields(logrus.Fields{
		"scope":   scopeID,
		"command": cmd.Kind.String(),
	})

	switch cmd.Kind {
	case CmdListEntities:
		return []string{s.entityList()}
	case CmdListRegistered:
		return s.listRegistered(scopeID)
	case CmdQueryOne:
		return []string{s.queryOne(scopeID, cmd.Query)}
	case CmdRegisterDeath:
		return []string{s.register(scopeID, cmd, timer.ModeDeath, logCtx)}
	case CmdRegisterExplicit:
		return []string{s.register(scopeID, cmd, timer.ModeExplicit, logCtx)}
	case CmdClearOne:
		return []string{s.clearOne(scopeID, cmd.Query, logCtx)}
	case CmdRequestClearAll:
		return []string{s.requestClearAll(scopeID, logCtx)}
	case CmdConfirmClearAll:
		return []string{s.confirmClearAll(scopeID, logCtx)}
	case CmdHelp:
		return []string{helpText}
	default:
		if s.opts.ReplyOnUnrecognized {
			return []string{helpText}
		}
		return nil
	}
}

const helpText = "可用指令：\n" +
	"列表 — 查看可用Boss\n" +
	"王出 — 查看全部重生時間\n" +
	"查 <Boss> — 查單隻\n" +
	"<Boss> 1430 — 記錄死亡時間\n" +
	"<Boss> 1400出 — 指定重生時間\n" +
	"清除 <Boss> — 清除單隻計時\n" +
	"清除全部 — 清除本聊天室全部計時（需確認）\n" +
	"確認清除 — 執行清除全部"

func (s *TimerService) entityList() string {
	names := make([]string, 0, len(s.catalog.All()))
	for _, e := range s.catalog.All() {
		names = append(names, e.Name)
	}
	return fmt.Sprintf("可用Boss：\n%s\n\n%s", strings.Join(names, "、"), helpText)
}

// resolveReply maps a failed resolution to its user reply. ok is true only
// for a unique match.
func (s *TimerService) resolveReply(query string) (catalog.Entity, string, bool) {
	res := s.catalog.Resolve(query)
	switch res.Kind {
	case catalog.Unique:
		return res.Entity, "", true
	case catalog.Ambiguous:
		names := make([]string, 0, len(res.Candidates))
		for _, c := range res.Candidates {
			names = append(names, c.Name)
		}
		return catalog.Entity{}, fmt.Sprintf("「%s」符合多個Boss：%s\n請輸入更完整的名稱", query, strings.Join(names, "、")), false
	default:
		return catalog.Entity{}, fmt.Sprintf("找不到Boss「%s」，輸入「列表」查看可用Boss", query), false
	}
}

func (s *TimerService) register(scopeID string, cmd Command, mode timer.Mode, logCtx *logrus.Entry) string {
	entity, reply, ok := s.resolveReply(cmd.Query)
	if !ok {
		return reply
	}

	hour, minute, err := timer.ParseClock(cmd.Token)
	if err != nil {
		return fmt.Sprintf("時間格式錯誤\n例：%s 1430 或 %s 1400出", entity.Name, entity.Name)
	}

	now := s.now()
	anchor := timer.AnchorToday(hour, minute, now)
	var respawnAt time.Time
	if mode == timer.ModeExplicit {
		respawnAt = timer.ExplicitRespawn(anchor, now)
	} else {
		respawnAt = timer.DeathRespawn(anchor, now, entity.Period(), s.opts.DeathFutureThreshold)
	}

	err = s.store.Update(func(st *timer.State) error {
		st.Scope(scopeID).Timers[entity.Name] = timer.Record{RespawnAt: respawnAt, Mode: mode}
		return nil
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to save timer registration")
		return "儲存失敗，請稍後再試"
	}

	logCtx.WithFields(logrus.Fields{
		"entity":     entity.Name,
		"mode":       string(mode),
		"respawn_at": respawnAt.Format(time.RFC3339),
	}).Info("Timer registered")

	return fmt.Sprintf("【%s】\n重生：%s\n%s", entity.Name, respawnAt.Format("15:04"), timer.RemainText(now, respawnAt))
}

func (s *TimerService) queryOne(scopeID, query string) string {
	entity, reply, ok := s.resolveReply(query)
	if !ok {
		return reply
	}

	var rec timer.Record
	var found bool
	s.store.View(func(st *timer.State) {
		if sc, exists := st.Scopes[scopeID]; exists {
			rec, found = sc.Timers[entity.Name]
		}
	})
	if !found {
		return fmt.Sprintf("「%s」尚未紀錄\n用法：%s 1430 或 %s 1400出", entity.Name, entity.Name, entity.Name)
	}

	now := s.now()
	respawnAt := rec.RespawnAt.In(s.loc)
	if rec.Mode == timer.ModeDeath {
		deathAt := respawnAt.Add(-entity.Period())
		return fmt.Sprintf("【%s】\n死亡：%s\n重生：%s\n%s",
			entity.Name, deathAt.Format("15:04"), respawnAt.Format("15:04"), timer.RemainText(now, respawnAt))
	}
	return fmt.Sprintf("【%s】\n重生：%s\n%s", entity.Name, respawnAt.Format("15:04"), timer.RemainText(now, respawnAt))
}

// listRegistered renders the whole roster: registered timers sorted by
// soonest respawn, unrecorded bosses at the bottom. Replies longer than the
// transport is comfortable with are split in two.
func (s *TimerService) listRegistered(scopeID string) []string {
	now := s.now()

	var timers map[string]timer.Record
	s.store.View(func(st *timer.State) {
		if sc, exists := st.Scopes[scopeID]; exists {
			timers = make(map[string]timer.Record, len(sc.Timers))
			for k, v := range sc.Timers {
				timers[k] = v
			}
		}
	})

	type row struct {
		at   time.Time
		text string
	}
	rows := make([]row, 0, len(s.catalog.All()))
	for _, e := range s.catalog.All() {
		if rec, ok := timers[e.Name]; ok {
			at := rec.RespawnAt.In(s.loc)
			rows = append(rows, row{at, fmt.Sprintf("%s：%s（%s）", e.Name, at.Format("15:04"), timer.RemainText(now, at))})
		} else {
			rows = append(rows, row{time.Time{}, fmt.Sprintf("%s：未紀錄", e.Name)})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].at.IsZero() != rows[j].at.IsZero() {
			return !rows[i].at.IsZero()
		}
		return rows[i].at.Before(rows[j].at)
	})

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, "【王出】")
	for _, r := range rows {
		lines = append(lines, r.text)
	}

	full := strings.Join(lines, "\n")
	if len([]rune(full)) <= maxReplyRunes {
		return []string{full}
	}
	half := len(lines) / 2
	first := strings.Join(lines[:half], "\n")
	second := strings.Join(append([]string{"（續）"}, lines[half:]...), "\n")
	return []string{first, second}
}

func (s *TimerService) clearOne(scopeID, query string, logCtx *logrus.Entry) string {
	entity, reply, ok := s.resolveReply(query)
	if !ok {
		return reply
	}

	removed := false
	err := s.store.Update(func(st *timer.State) error {
		sc, exists := st.Scopes[scopeID]
		if !exists {
			return timer.ErrNoChange
		}
		if _, exists := sc.Timers[entity.Name]; !exists {
			return timer.ErrNoChange
		}
		delete(sc.Timers, entity.Name)
		removed = true
		return nil
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to clear timer")
		return "儲存失敗，請稍後再試"
	}
	if !removed {
		return fmt.Sprintf("「%s」沒有計時紀錄", entity.Name)
	}

	logCtx.WithField("entity", entity.Name).Info("Timer cleared")
	return fmt.Sprintf("已清除【%s】的計時", entity.Name)
}

// requestClearAll arms (or re-arms) the single pending confirmation for the
// scope. Repeated requests replace the previous one, they never accumulate.
func (s *TimerService) requestClearAll(scopeID string, logCtx *logrus.Entry) string {
	now := s.now()
	ttlSeconds := int(s.opts.ConfirmTTL / time.Second)

	err := s.store.Update(func(st *timer.State) error {
		st.Confirmations[scopeID] = timer.Confirmation{RequestedAt: now, TTLSeconds: ttlSeconds}
		return nil
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to arm clear confirmation")
		return "儲存失敗，請稍後再試"
	}

	logCtx.Info("Bulk clear requested, awaiting confirmation")
	return fmt.Sprintf("即將清除本聊天室全部計時！\n請在 %d 秒內輸入「確認清除」執行", ttlSeconds)
}

// confirmClearAll consumes the pending confirmation and wipes every timer in
// the scope — but only if the confirmation is still live. An expired entry
// is removed during the check; the timers themselves are never touched on a
// failed confirmation.
func (s *TimerService) confirmClearAll(scopeID string, logCtx *logrus.Entry) string {
	now := s.now()
	cleared := 0
	var confirmErr error

	err := s.store.Update(func(st *timer.State) error {
		conf, exists := st.Confirmations[scopeID]
		if !exists {
			confirmErr = ErrNoPendingConfirmation
			return timer.ErrNoChange
		}
		if !conf.Live(now) {
			delete(st.Confirmations, scopeID)
			confirmErr = ErrConfirmationExpired
			return nil
		}
		delete(st.Confirmations, scopeID)
		if sc, exists := st.Scopes[scopeID]; exists {
			cleared = len(sc.Timers)
			sc.Timers = make(map[string]timer.Record)
		}
		return nil
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to apply bulk clear")
		return "儲存失敗，請稍後再試"
	}

	switch {
	case errors.Is(confirmErr, ErrNoPendingConfirmation):
		return "沒有待確認的清除請求，請先輸入「清除全部」"
	case errors.Is(confirmErr, ErrConfirmationExpired):
		logCtx.Info("Bulk clear confirmation arrived too late")
		return "確認已逾時，請重新輸入「清除全部」"
	default:
		logCtx.WithField("cleared", cleared).Info("Bulk clear executed")
		return fmt.Sprintf("已清除本聊天室全部計時（共 %d 筆）", cleared)
	}
}
