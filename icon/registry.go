package icon

// Icon identifies a registered symbol.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Check
	Update
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "\uf00d",
		plain:   "X",
		kaomoji: "(╥﹏╥)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "\uf00c",
		plain:   "OK",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "\uf252",
		plain:   "...",
		kaomoji: "(＠_＠;)",
		squares: "🟦",
	},
	Check: {
		emoji:   "✅",
		nerd:    "\uf046",
		plain:   "[x]",
		kaomoji: "(✿◠‿◠)",
		squares: "🟩",
	},
	Update: {
		emoji:   "📦",
		nerd:    "\uf1b2",
		plain:   "^",
		kaomoji: "(ﾉ◕ヮ◕)ﾉ",
		squares: "🟫",
	},
}
