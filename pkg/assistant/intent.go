// Package assistant turns recognized utterances and game state into spoken
// responses. It owns intent resolution, the utterance cooldown, the tiered
// response wording, and the automatic alert sweep.
package assistant

import "strings"

// Intent is what the player asked for.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentHealth
	IntentEnemies
	IntentAmmo
	IntentZone
	IntentStatus
	IntentHelp
)

// String returns the intent name.
func (i Intent) String() string {
	switch i {
	case IntentHealth:
		return "health"
	case IntentEnemies:
		return "enemies"
	case IntentAmmo:
		return "ammo"
	case IntentZone:
		return "zone"
	case IntentStatus:
		return "status"
	case IntentHelp:
		return "help"
	default:
		return "unknown"
	}
}

// keywordIntents maps trigger keywords to intents. Order defines precedence:
// the first keyword contained in the utterance wins.
var keywordIntents = []struct {
	keyword string
	intent  Intent
}{
	{"health", IntentHealth},
	{"hp", IntentHealth},
	{"enemies", IntentEnemies},
	{"enemy", IntentEnemies},
	{"ammo", IntentAmmo},
	{"bullets", IntentAmmo},
	{"zone", IntentZone},
	{"circle", IntentZone},
	{"status", IntentStatus},
	{"report", IntentStatus},
	{"help", IntentHelp},
}

// ResolveIntent scans normalized utterance text for the first matching
// keyword. Text must already be lowercased.
func ResolveIntent(text string) Intent {
	for _, ki := range keywordIntents {
		if strings.Contains(text, ki.keyword) {
			return ki.intent
		}
	}
	return IntentUnknown
}
