package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota + 1
	Success
	Progress
	Mark

	Empty
	Opening
	Play
	Pause
	Stop
	End
	Error

	Volume
	Chapter
	Video
	Audio
	Subtitle
)

var icons = map[Icon]*iconDef{
	Fail:     {emoji: "💀", nerd: "", plain: "x", kaomoji: "(╥﹏╥)", squares: "🟥"},
	Success:  {emoji: "🎉", nerd: "", plain: "✓", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Progress: {emoji: "⏳", nerd: "", plain: "~", kaomoji: "(・_・ヾ", squares: "🟨"},
	Mark:     {emoji: "🔹", nerd: "", plain: "*", kaomoji: "(•̀ᴗ•́)", squares: "🟦"},

	Empty:   {emoji: "📭", nerd: "", plain: "-", kaomoji: "(・・)", squares: "⬜"},
	Opening: {emoji: "📂", nerd: "", plain: "...", kaomoji: "(°o°)", squares: "🟨"},
	Play:    {emoji: "▶️", nerd: "", plain: ">", kaomoji: "ヽ(>∀<☆)ノ", squares: "🟩"},
	Pause:   {emoji: "⏸️", nerd: "", plain: "||", kaomoji: "(－_－)", squares: "🟦"},
	Stop:    {emoji: "⏹️", nerd: "", plain: "[]", kaomoji: "(._.)", squares: "⬛"},
	End:     {emoji: "🏁", nerd: "", plain: "|>|", kaomoji: "(ᵔᴥᵔ)", squares: "🟪"},
	Error:   {emoji: "💥", nerd: "", plain: "!", kaomoji: "(ノಠ益ಠ)ノ", squares: "🟥"},

	Volume:   {emoji: "🔊", nerd: "", plain: "vol", kaomoji: "(ﾟ∀ﾟ)", squares: "🟧"},
	Chapter:  {emoji: "🔖", nerd: "", plain: "ch", kaomoji: "(・ω・)", squares: "🟫"},
	Video:    {emoji: "🎞️", nerd: "", plain: "vid", kaomoji: "(⌐■_■)", squares: "🟦"},
	Audio:    {emoji: "🎵", nerd: "", plain: "aud", kaomoji: "♪(´▽｀)", squares: "🟩"},
	Subtitle: {emoji: "💬", nerd: "", plain: "sub", kaomoji: "(￣▽￣)ノ", squares: "⬜"},
}
