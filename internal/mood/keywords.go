package mood

// keywords maps each label to its hand-curated keyword set. A token match is
// worth two points during resolution.
var keywords = map[Label][]string{
	Happy: {
		"happy", "joy", "joyful", "glad", "great", "good", "smile", "smiling",
		"sunshine", "sunny", "awesome", "amazing", "wonderful", "fantastic",
		"cheerful", "upbeat", "excited", "excitement", "delighted", "thrilled",
		"celebrate", "celebration", "party", "love", "bliss", "laughing",
		"fun", "bright", "optimistic", "grateful",
	},
	Energetic: {
		"energy", "energetic", "pumped", "hype", "hyped", "workout", "gym",
		"run", "running", "sprint", "fast", "power", "powerful", "strong",
		"intense", "adrenaline", "motivated", "motivation", "charged", "fire",
		"fired", "beast", "crush", "unstoppable", "active", "alive", "rush",
		"dance", "dancing", "jump",
	},
	Chill: {
		"chill", "chilling", "relax", "relaxed", "relaxing", "mellow", "easy",
		"easygoing", "lounge", "hang", "hanging", "vibe", "vibes", "vibing",
		"coffee", "sunday", "breeze", "breezy", "casual", "smooth", "groove",
		"groovy", "unwind", "unwinding", "cozy", "comfortable", "slow",
		"lowkey",
	},
	Sad: {
		"sad", "sadness", "down", "blue", "cry", "crying", "tears",
		"heartbreak", "heartbroken", "broken", "lonely", "alone", "miss",
		"missing", "lost", "hurt", "hurting", "pain", "painful", "grief",
		"grieving", "sorrow", "gloomy", "depressed", "depressing", "empty",
		"rain", "rainy", "melancholy",
	},
	Calm: {
		"calm", "calming", "peace", "peaceful", "quiet", "still", "stillness",
		"serene", "serenity", "tranquil", "meditate", "meditation", "breathe",
		"breathing", "sleep", "sleepy", "rest", "resting", "gentle", "soft",
		"ambient", "soothe", "soothing", "zen", "night", "dream", "dreamy",
		"float", "floating",
	},
}

// phraseBoosts maps multi-word phrases, matched against the raw lowercased
// text, to the label they reinforce. A phrase match is worth one point.
var phraseBoosts = map[string]Label{
	"feeling good":        Happy,
	"feel good":           Happy,
	"good mood":           Happy,
	"on top of the world": Happy,
	"need energy":         Energetic,
	"pump me up":          Energetic,
	"lets go":             Energetic,
	"let's go":            Energetic,
	"hit the gym":         Energetic,
	"want to relax":       Chill,
	"wind down":           Chill,
	"take it easy":        Chill,
	"hang out":            Chill,
	"feeling down":        Sad,
	"broken heart":        Sad,
	"miss you":            Sad,
	"bad day":             Sad,
	"calm down":           Calm,
	"fall asleep":         Calm,
	"need to focus":       Calm,
	"quiet night":         Calm,
}
