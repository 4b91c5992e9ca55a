package catalog

var defaultThemes = []Theme{
	{
		Name: "games",
		Symbols: []string{
			"🎮", "🎯", "🎨", "🎭", "🎪", "🎸", "🎺", "🎹",
			"🎲", "🎳", "🎻", "🎷", "🥁", "🎬", "🎤", "🎧",
		},
	},
	{
		Name: "animals",
		Symbols: []string{
			"🐶", "🐱", "🐭", "🐹", "🐰", "🦊", "🐻", "🐼",
			"🐨", "🐯", "🦁", "🐮", "🐷", "🐸", "🐵", "🐔",
		},
	},
	{
		Name: "food",
		Symbols: []string{
			"🍎", "🍐", "🍊", "🍋", "🍌", "🍉", "🍇", "🍓",
			"🍒", "🍑", "🍍", "🥝", "🥑", "🍕", "🍔", "🍩",
		},
	},
	{
		Name: "sports",
		Symbols: []string{
			"⚽", "🏀", "🏈", "⚾", "🎾", "🏐", "🏉", "🥏",
			"🏓", "🏸", "🏒", "🏑", "🥍", "🏏", "⛳", "🥊",
		},
	},
	{
		Name: "nature",
		Symbols: []string{
			"🌵", "🌲", "🌴", "🍀", "🍁", "🌻", "🌹", "🌷",
			"🌼", "🌸", "🍄", "🌙", "🔥", "🌈", "⚡", "🌊",
		},
	},
}
