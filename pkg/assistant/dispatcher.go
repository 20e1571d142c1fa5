package assistant

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/callout-gg/callout/internal/log"
	"github.com/callout-gg/callout/pkg/speech"
	"github.com/callout-gg/callout/pkg/stats"
)

const (
	// DefaultWakeWord is the leading keyword marking a command.
	DefaultWakeWord = "callout"

	// DefaultCooldown is the minimum gap between accepted utterances.
	DefaultCooldown = time.Second

	// DefaultAlertCooldown throttles repeats of the same automatic alert.
	// Zero restores fire-on-every-sweep behavior.
	DefaultAlertCooldown = 10 * time.Second
)

// Automatic alert thresholds.
const (
	criticalHPThreshold   = 20
	enemySwarmThreshold   = 3
	lowAmmoThreshold      = 10
	moderateAmmo          = 30
	healthWarnThreshold   = 50
	healthSteadyThreshold = 80
)

type alertKind int

const (
	alertCriticalHP alertKind = iota
	alertEnemySwarm
)

// SnapshotProvider supplies the smoothed game state view.
// *stats.Aggregator implements this.
type SnapshotProvider interface {
	Smoothed() *stats.Smoothed
}

// Speaker receives composed responses. *speech.Queue implements this.
type Speaker interface {
	Enqueue(text string, p speech.Priority)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithWakeWord overrides the wake prefix.
func WithWakeWord(w string) Option {
	return func(d *Dispatcher) { d.wakeWord = strings.ToLower(w) }
}

// WithCooldown overrides the utterance cooldown.
func WithCooldown(c time.Duration) Option {
	return func(d *Dispatcher) { d.cooldown = c }
}

// WithAlertCooldown overrides the auto-alert repeat suppression window.
func WithAlertCooldown(c time.Duration) Option {
	return func(d *Dispatcher) { d.alertCooldown = c }
}

// withClock injects a time source for tests.
func withClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// Dispatcher maps utterances and periodic sweeps to speech requests.
type Dispatcher struct {
	stats   SnapshotProvider
	speaker Speaker

	wakeWord      string
	cooldown      time.Duration
	alertCooldown time.Duration

	mu           sync.Mutex
	lastAccepted time.Time
	lastAlert    map[alertKind]time.Time

	now    func() time.Time
	logger *slog.Logger
}

// NewDispatcher wires a dispatcher to its state source and speech sink.
func NewDispatcher(provider SnapshotProvider, speaker Speaker, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		stats:         provider,
		speaker:       speaker,
		wakeWord:      DefaultWakeWord,
		cooldown:      DefaultCooldown,
		alertCooldown: DefaultAlertCooldown,
		lastAlert:     make(map[alertKind]time.Time),
		now:           time.Now,
		logger:        log.Component("assistant"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// HandleUtterance processes one recognized utterance. Utterances inside the
// cooldown window are dropped silently.
func (d *Dispatcher) HandleUtterance(text string) {
	now := d.now()

	d.mu.Lock()
	if !d.lastAccepted.IsZero() && now.Sub(d.lastAccepted) < d.cooldown {
		d.mu.Unlock()
		d.logger.Debug("utterance dropped by cooldown", "text", text)
		return
	}
	d.lastAccepted = now
	d.mu.Unlock()

	text = strings.ToLower(strings.TrimSpace(text))

	command := text
	hadWake := false
	if strings.HasPrefix(text, d.wakeWord) {
		hadWake = true
		command = strings.TrimSpace(strings.TrimPrefix(text, d.wakeWord))
		if command == "" {
			d.speaker.Enqueue("Yes? What do you need?", speech.PriorityHigh)
			return
		}
	}

	intent := ResolveIntent(command)
	d.logger.Info("utterance", "text", text, "intent", intent.String())

	if intent == IntentUnknown {
		if hadWake {
			d.speaker.Enqueue("Sorry, I didn't catch that command.", speech.PriorityNormal)
		}
		// Without the wake prefix, stray speech is ignored.
		return
	}

	d.handleIntent(intent)
}

func (d *Dispatcher) handleIntent(intent Intent) {
	switch intent {
	case IntentHealth:
		d.respondHealth()
	case IntentEnemies:
		d.respondEnemies()
	case IntentAmmo:
		d.respondAmmo()
	case IntentZone:
		d.respondZone()
	case IntentStatus:
		d.respondStatus()
	case IntentHelp:
		d.speaker.Enqueue(
			"You can ask about health, enemies, ammo, zone, or status. "+
				"Say "+d.wakeWord+" followed by the command.",
			speech.PriorityNormal,
		)
	}
}

func (d *Dispatcher) respondHealth() {
	sm := d.stats.Smoothed()
	if sm == nil || sm.AvgHP == nil {
		d.speaker.Enqueue("Can't read your HP right now.", speech.PriorityNormal)
		return
	}

	hp := int(*sm.AvgHP)
	switch {
	case hp <= criticalHPThreshold:
		d.speaker.Enqueue(
			fmt.Sprintf("Emergency! Your HP is %d percent! Heal immediately!", hp),
			speech.PriorityEmergency,
		)
	case hp <= healthWarnThreshold:
		d.speaker.Enqueue(
			fmt.Sprintf("Warning, your HP is %d percent. Consider healing.", hp),
			speech.PriorityHigh,
		)
	case hp <= healthSteadyThreshold:
		d.speaker.Enqueue(
			fmt.Sprintf("Your HP is %d percent. You're okay for now.", hp),
			speech.PriorityNormal,
		)
	default:
		d.speaker.Enqueue(
			fmt.Sprintf("Your HP is %d percent. You're in good shape.", hp),
			speech.PriorityNormal,
		)
	}
}

func (d *Dispatcher) respondEnemies() {
	sm := d.stats.Smoothed()
	if sm == nil {
		d.speaker.Enqueue("Can't scan for enemies right now.", speech.PriorityNormal)
		return
	}

	enemies := sm.Latest.Enemies
	switch {
	case len(enemies) == 0:
		d.speaker.Enqueue("No enemies detected. You're clear.", speech.PriorityNormal)
	case len(enemies) == 1:
		e := enemies[0]
		d.speaker.Enqueue(
			fmt.Sprintf("One enemy at %s, %s range!", e.Direction, e.Distance),
			speech.PriorityNormal,
		)
	default:
		directions := make([]string, 0, 3)
		for i, e := range enemies {
			if i == 3 {
				break
			}
			directions = append(directions, string(e.Direction))
		}
		d.speaker.Enqueue(
			fmt.Sprintf("%d enemies detected! At %s!", len(enemies), strings.Join(directions, ", ")),
			speech.PriorityHigh,
		)
	}
}

func (d *Dispatcher) respondAmmo() {
	sm := d.stats.Smoothed()
	if sm == nil {
		d.speaker.Enqueue("Can't read ammo right now.", speech.PriorityNormal)
		return
	}

	ammo := sm.Latest.AmmoCount
	switch {
	case ammo == nil:
		d.speaker.Enqueue("Can't read your ammo counter.", speech.PriorityNormal)
	case *ammo <= lowAmmoThreshold:
		d.speaker.Enqueue(
			fmt.Sprintf("Only %d bullets left! Reload soon!", *ammo),
			speech.PriorityHigh,
		)
	case *ammo <= moderateAmmo:
		d.speaker.Enqueue(
			fmt.Sprintf("You have %d bullets remaining.", *ammo),
			speech.PriorityNormal,
		)
	default:
		d.speaker.Enqueue(
			fmt.Sprintf("%d bullets. You're well stocked.", *ammo),
			speech.PriorityNormal,
		)
	}
}

func (d *Dispatcher) respondZone() {
	sm := d.stats.Smoothed()
	if sm == nil {
		d.speaker.Enqueue("Can't analyze the zone right now.", speech.PriorityNormal)
		return
	}

	zone := sm.Latest.Zone
	if !zone.Active {
		d.speaker.Enqueue("No zone data available right now.", speech.PriorityNormal)
		return
	}

	if remaining := sm.Latest.TimeRemaining; remaining != "" {
		d.speaker.Enqueue(
			fmt.Sprintf("Zone closing from %s! %s remaining!", zone.Direction, remaining),
			speech.PriorityHigh,
		)
		return
	}
	d.speaker.Enqueue(
		fmt.Sprintf("Zone closing from %s! Move now!", zone.Direction),
		speech.PriorityHigh,
	)
}

func (d *Dispatcher) respondStatus() {
	sm := d.stats.Smoothed()
	if sm == nil {
		d.speaker.Enqueue("Can't analyze game state right now.", speech.PriorityNormal)
		return
	}

	latest := sm.Latest
	var parts []string
	if latest.HPPercent != nil {
		parts = append(parts, fmt.Sprintf("HP %d percent", int(*latest.HPPercent)))
	}
	if latest.AmmoCount != nil {
		parts = append(parts, fmt.Sprintf("%d bullets", *latest.AmmoCount))
	}
	if latest.Kills != nil {
		parts = append(parts, fmt.Sprintf("%d kills", *latest.Kills))
	}
	if n := len(latest.Enemies); n > 0 {
		parts = append(parts, fmt.Sprintf("%d enemies spotted", n))
	}

	if len(parts) == 0 {
		d.speaker.Enqueue("Scanning in progress, check back in a moment.", speech.PriorityNormal)
		return
	}
	d.speaker.Enqueue("Status: "+strings.Join(parts, ", ")+".", speech.PriorityNormal)
}

// CheckAutoAlerts inspects the latest snapshot and fires emergency or high
// alerts independent of any utterance. Alerts of the same kind repeat no
// sooner than the alert cooldown; the utterance cooldown does not apply.
func (d *Dispatcher) CheckAutoAlerts() {
	sm := d.stats.Smoothed()
	if sm == nil {
		return
	}
	latest := sm.Latest

	if latest.HPPercent != nil && *latest.HPPercent <= criticalHPThreshold {
		if d.alertReady(alertCriticalHP) {
			d.speaker.Enqueue(
				"Critical warning! Your health is extremely low! Heal now!",
				speech.PriorityEmergency,
			)
		}
	}

	if n := len(latest.Enemies); n >= enemySwarmThreshold {
		if d.alertReady(alertEnemySwarm) {
			d.speaker.Enqueue(
				fmt.Sprintf("Alert! %d enemies detected nearby!", n),
				speech.PriorityHigh,
			)
		}
	}
}

// alertReady checks and arms the repeat-suppression window for a kind.
func (d *Dispatcher) alertReady(kind alertKind) bool {
	if d.alertCooldown <= 0 {
		return true
	}

	now := d.now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.lastAlert[kind]; ok && now.Sub(last) < d.alertCooldown {
		return false
	}
	d.lastAlert[kind] = now
	return true
}
