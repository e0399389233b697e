package archetype

// Result is the presentation-ready archetype for one member. The description
// is one of a fixed set of three variants, chosen deterministically by a
// stable hash of the member id so a stable profile always reads the same.
type Result struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Badge       string `json:"badge"`
}

// listeningRule pairs a predicate with a listening archetype. Rules are
// scanned top to bottom and the first match wins; ordering is designed
// behavior, not an artifact. A nil predicate matches everything and must
// terminate the list.
type listeningRule struct {
	key          string
	title        string
	badge        string
	descriptions [3]string
	predicate    func(ListeningFeatures) bool
}

// influenceRule is the same mechanism over the influence feature vector.
type influenceRule struct {
	key          string
	title        string
	badge        string
	descriptions [3]string
	predicate    func(InfluenceFeatures) bool
}

var listeningRules = []listeningRule{
	{
		key:   "lightning_rod",
		title: "Lightning Rod",
		badge: "⚡",
		descriptions: [3]string{
			"Drops everything the second a track lands, every single time.",
			"The feed barely refreshes before this one has already listened.",
			"Instant on every share, and there are a lot of shares.",
		},
		predicate: func(f ListeningFeatures) bool {
			return f.Speed == SpeedInstant && f.Volume == VolumeHighFreq
		},
	},
	{
		key:   "first_responder",
		title: "First Responder",
		badge: "🚨",
		descriptions: [3]string{
			"Usually the first name under any new share.",
			"Reacts in under a minute, like the notification never gets to buzz twice.",
			"If the group had a reaction siren, it would be this member.",
		},
		predicate: func(f ListeningFeatures) bool {
			return f.Speed == SpeedInstant
		},
	},
	{
		key:   "daily_ritualist",
		title: "Daily Ritualist",
		badge: "🕰️",
		descriptions: [3]string{
			"Same time, same promptness. You could set a clock by these listens.",
			"A dependable listening routine that never drifts far.",
			"Keeps a steady rhythm of quick, predictable reactions.",
		},
		predicate: func(f ListeningFeatures) bool {
			return f.Habit == HabitRitualist && (f.Speed == SpeedInstant || f.Speed == SpeedFast)
		},
	},
	{
		key:   "binge_batcher",
		title: "Binge Batcher",
		badge: "📦",
		descriptions: [3]string{
			"Disappears for a while, then clears the whole backlog in one sitting.",
			"Listens arrive in bursts, three or four shares back to back.",
			"Saves the feed up and binges it like a playlist.",
		},
		predicate: func(f ListeningFeatures) bool {
			return f.Habit == HabitBatcher
		},
	},
	{
		key:   "crate_digger",
		title: "Crate Digger",
		badge: "🎚️",
		descriptions: [3]string{
			"Picks tracks carefully and takes time with each one.",
			"Few reactions, but each one is a considered listen.",
			"Quality over speed; the deep cuts get the attention.",
		},
		predicate: func(f ListeningFeatures) bool {
			return f.Volume == VolumeSelective && (f.Speed == SpeedSteady || f.Speed == SpeedDelayed)
		},
	},
	{
		key:   "free_spirit",
		title: "Free Spirit",
		badge: "🌀",
		descriptions: [3]string{
			"No pattern, no schedule. Reactions land whenever the mood strikes.",
			"Sometimes instant, sometimes days later; never the same twice.",
			"Listening habits that refuse to be charted.",
		},
		predicate: func(f ListeningFeatures) bool {
			return f.Habit == HabitErratic
		},
	},
	{
		key:   "steady_regular",
		title: "Steady Regular",
		badge: "🎧",
		descriptions: [3]string{
			"Reliably gets to every share within the hour.",
			"Not racing anyone, but never lets a track go stale.",
			"A dependable presence under every share.",
		},
		predicate: func(f ListeningFeatures) bool {
			return f.Speed == SpeedFast
		},
	},
	{
		key:   "balanced_listener",
		title: "Balanced Listener",
		badge: "⚖️",
		descriptions: [3]string{
			"A bit of everything: sometimes quick, sometimes late, always around.",
			"No extremes here, just a healthy mix of listening habits.",
			"Keeps the group's average honest.",
		},
		predicate: nil, // fallback; must match everything
	},
}

var influenceRules = []influenceRule{
	{
		key:   "main_stage",
		title: "Main Stage",
		badge: "🎤",
		descriptions: [3]string{
			"When this member shares, the whole group drops what it's doing.",
			"Shares that pull instant, unanimous reactions.",
			"The group's center of gravity; every drop is an event.",
		},
		predicate: func(f InfluenceFeatures) bool {
			return f.Gravity == LevelHigh
		},
	},
	{
		key:   "hype_magnet",
		title: "Hype Magnet",
		badge: "🧲",
		descriptions: [3]string{
			"Nearly everyone shows up fast when a share lands.",
			"Reactions arrive early and from all corners of the group.",
			"Shares that reliably spark an immediate pile-on.",
		},
		predicate: func(f InfluenceFeatures) bool {
			return f.Magnetism == LevelHigh && f.Urgency == LevelHigh
		},
	},
	{
		key:   "slow_burn",
		title: "Slow Burn",
		badge: "🕯️",
		descriptions: [3]string{
			"The group always comes around, it just takes a minute.",
			"Shares that gather the whole room eventually, never instantly.",
			"Not a first-hour act, but the reactions keep arriving for days.",
		},
		predicate: func(f InfluenceFeatures) bool {
			return f.Magnetism == LevelHigh
		},
	},
	{
		key:   "deep_cut_dealer",
		title: "Deep Cut Dealer",
		badge: "💿",
		descriptions: [3]string{
			"Rare shares, but the ones that land really land.",
			"Doesn't post often; when it happens, people listen.",
			"A low-volume supplier of tracks the group actually plays.",
		},
		predicate: func(f InfluenceFeatures) bool {
			return f.Volume == LevelLow && f.Magnetism != LevelLow
		},
	},
	{
		key:   "steady_spinner",
		title: "Steady Spinner",
		badge: "🔁",
		descriptions: [3]string{
			"A regular source of tracks with a dependable audience.",
			"Shares that draw a respectable, consistent response.",
			"Keeps the feed moving and the group listening.",
		},
		predicate: func(f InfluenceFeatures) bool {
			return f.Urgency != LevelLow || f.Gravity == LevelMedium
		},
	},
	{
		key:   "background_vibes",
		title: "Background Vibes",
		badge: "🎶",
		descriptions: [3]string{
			"Part of the soundtrack without stealing the show.",
			"Shares that add texture to the feed, quietly.",
			"Every group needs a steady undercurrent; this is it.",
		},
		predicate: nil, // fallback; must match everything
	},
}
