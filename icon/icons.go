package icon

// Icon identifies a symbol in the global registry.
type Icon int

// Registered UI symbols.
const (
	Success Icon = iota + 1
	Fail
	Progress
	Download
	Link
	Shield
	Search
	Question
)

// icons is the global registry mapping each symbol to its per-variant representations.
var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "",
		plain:   "+",
		kaomoji: "(￣︶￣)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "",
		plain:   "x",
		kaomoji: "(╯°□°)╯",
		squares: "🟥",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "",
		plain:   "*",
		kaomoji: "(￣ー￣)",
		squares: "🟨",
	},
	Download: {
		emoji:   "📥",
		nerd:    "",
		plain:   "v",
		kaomoji: "(ﾉ´ヮ`)ﾉ",
		squares: "🟦",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "~",
		kaomoji: "(つ✧ω✧)つ",
		squares: "🟪",
	},
	Shield: {
		emoji:   "🛡️",
		nerd:    "",
		plain:   "#",
		kaomoji: "(⌐■_■)",
		squares: "⬜",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・_・ )",
		squares: "🟫",
	},
	Question: {
		emoji:   "❓",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・・?)",
		squares: "⬛",
	},
}
