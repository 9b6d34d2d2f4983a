package service

type seedVerse struct {
	Reference string
	Text      string
	Context   string
}

// King James Version text, public domain.
var defaultVerses = []seedVerse{
	{
		Reference: "Genesis 1:1",
		Text:      "In the beginning God created the heaven and the earth.",
		Context:   "The opening line of the creation account.",
	},
	{
		Reference: "Joshua 1:9",
		Text:      "Have not I commanded thee? Be strong and of a good courage; be not afraid, neither be thou dismayed: for the LORD thy God is with thee whithersoever thou goest.",
		Context:   "The LORD commissions Joshua after the death of Moses.",
	},
	{
		Reference: "Psalm 23:1",
		Text:      "The LORD is my shepherd; I shall not want.",
		Context:   "A psalm of David, the shepherd king.",
	},
	{
		Reference: "Psalm 119:11",
		Text:      "Thy word have I hid in mine heart, that I might not sin against thee.",
		Context:   "From the longest psalm, a meditation on God's law.",
	},
	{
		Reference: "Proverbs 3:5",
		Text:      "Trust in the LORD with all thine heart; and lean not unto thine own understanding.",
		Context:   "A father's instruction to his son.",
	},
	{
		Reference: "Isaiah 40:31",
		Text:      "But they that wait upon the LORD shall renew their strength; they shall mount up with wings as eagles; they shall run, and not be weary; and they shall walk, and not faint.",
		Context:   "Comfort for Israel in exile.",
	},
	{
		Reference: "Jeremiah 29:11",
		Text:      "For I know the thoughts that I think toward you, saith the LORD, thoughts of peace, and not of evil, to give you an expected end.",
		Context:   "Jeremiah's letter to the captives in Babylon.",
	},
	{
		Reference: "Matthew 6:33",
		Text:      "But seek ye first the kingdom of God, and his righteousness; and all these things shall be added unto you.",
		Context:   "From the Sermon on the Mount.",
	},
	{
		Reference: "John 3:16",
		Text:      "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life.",
		Context:   "Jesus speaks with Nicodemus, who came to him by night.",
	},
	{
		Reference: "John 11:35",
		Text:      "Jesus wept.",
		Context:   "At the tomb of Lazarus in Bethany.",
	},
	{
		Reference: "Romans 8:28",
		Text:      "And we know that all things work together for good to them that love God, to them who are the called according to his purpose.",
		Context:   "Paul writes to the church at Rome about life in the Spirit.",
	},
	{
		Reference: "Romans 12:2",
		Text:      "And be not conformed to this world: but be ye transformed by the renewing of your mind, that ye may prove what is that good, and acceptable, and perfect, will of God.",
		Context:   "Paul's appeal to living sacrifice.",
	},
	{
		Reference: "Ephesians 2:8",
		Text:      "For by grace are ye saved through faith; and that not of yourselves: it is the gift of God:",
		Context:   "Paul explains salvation to the Ephesians.",
	},
	{
		Reference: "Philippians 4:13",
		Text:      "I can do all things through Christ which strengtheneth me.",
		Context:   "Paul writes from prison about contentment.",
	},
	{
		Reference: "2 Timothy 3:16",
		Text:      "All scripture is given by inspiration of God, and is profitable for doctrine, for reproof, for correction, for instruction in righteousness:",
		Context:   "Paul's final letter to Timothy.",
	},
}
