package app

import (
	"strings"

	"boss_respawn_bot/internal/domain/catalog"
)

// CommandKind is the tag of a parsed chat command.
type CommandKind int

const (
	CmdUnrecognized CommandKind = iota
	CmdListEntities
	CmdListRegistered
	CmdQueryOne
	CmdRegisterDeath
	CmdRegisterExplicit
	CmdClearOne
	CmdRequestClearAll
	CmdConfirmClearAll
	CmdHelp
)

func (k CommandKind) String() string {
	switch k {
	case CmdListEntities:
		return "list_entities"
	case CmdListRegistered:
		return "list_registered"
	case CmdQueryOne:
		return "query_one"
	case CmdRegisterDeath:
		return "register_death"
	case CmdRegisterExplicit:
		return "register_explicit"
	case CmdClearOne:
		return "clear_one"
	case CmdRequestClearAll:
		return "request_clear_all"
	case CmdConfirmClearAll:
		return "confirm_clear_all"
	case CmdHelp:
		return "help"
	default:
		return "unrecognized"
	}
}

// Command is one parsed chat message. Query carries the entity text for
// register/query/clear commands; Token carries the clock token for
// registrations.
type Command struct {
	Kind  CommandKind
	Query string
	Token string
}

// ParseCommand turns raw chat text into a Command. Parsing never mutates
// anything; unknown text comes back as CmdUnrecognized.
//
// The registration grammar is the one players already use: "小巴 1430" or
// "小巴1430" records a death, a trailing 出 ("小巴 1400出") states the
// respawn time directly. ASCII synonyms exist for every keyword.
func ParseCommand(cat *catalog.Catalog, raw string) Command {
	text := catalog.Normalize(raw)

	switch text {
	case "列表", "boss", "list":
		return Command{Kind: CmdListEntities}
	case "王出", "timers":
		return Command{Kind: CmdListRegistered}
	case "清除全部", "clearall":
		return Command{Kind: CmdRequestClearAll}
	case "確認清除", "confirm":
		return Command{Kind: CmdConfirmClearAll}
	case "幫助", "help", "/help", "/start":
		return Command{Kind: CmdHelp}
	}

	parts := strings.Split(text, " ")
	switch len(parts) {
	case 2:
		switch parts[0] {
		case "查", "查詢", "check":
			return Command{Kind: CmdQueryOne, Query: parts[1]}
		case "清除", "clear":
			return Command{Kind: CmdClearOne, Query: parts[1]}
		}
		return registration(parts[0], parts[1])
	case 1:
		if query, token, ok := splitPrefixed(cat, parts[0]); ok {
			return registration(query, token)
		}
	}

	return Command{Kind: CmdUnrecognized}
}

func registration(query, token string) Command {
	if rest, found := strings.CutSuffix(token, "出"); found {
		return Command{Kind: CmdRegisterExplicit, Query: query, Token: strings.TrimSpace(rest)}
	}
	return Command{Kind: CmdRegisterDeath, Query: query, Token: token}
}

// splitPrefixed peels a known entity name or alias off the front of a
// space-less registration like 小巴1430. Catalog keys come longest first so
// 獨角獸 wins over a hypothetical shorter prefix.
func splitPrefixed(cat *catalog.Catalog, text string) (query, token string, ok bool) {
	for _, k := range cat.Keys() {
		if strings.HasPrefix(text, k) && len(text) > len(k) {
			return k, strings.TrimSpace(text[len(k):]), true
		}
	}
	return "", "", false
}
