package persona

// Descriptor is the user-facing persona copy. Key is stable across copy edits.
type Descriptor struct {
	Key         string `json:"key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
}

const (
	KeyFriedWarrior   = "fried_warrior"
	KeyGreenRabbit    = "green_rabbit"
	KeySugarKing      = "sugar_king"
	KeyCaffeineHuman  = "caffeine_human"
	KeyMeatHunter     = "meat_hunter"
	KeySpicyFried     = "spicy_fried_warrior"
	KeyCarbCitizen    = "carb_citizen"
	KeyBBQMaster      = "bbq_master"
	KeyMountainHermit = "mountain_hermit"
	KeyOfficeClassic  = "office_classic"
	KeyFixation       = "fixation"
	KeyZen            = "zen_balanced"
	KeyBalanced       = "balanced"
)

var catalogue = map[string]Descriptor{
	KeyFriedWarrior: {
		Key:         KeyFriedWarrior,
		Title:       "นักรบไก่ทอด ผู้แบกโลกด้วยไขมัน",
		Description: "คุณคือนักรบตัวจริง ที่ใช้พลังงานจากไขมันเป็นวิถีชีวิต ทุกคำที่กรอบ ทุกคำที่อร่อย ล้วนเสริมสร้างพลังให้คุณ!",
		Emoji:       "🍗⚔️",
	},
	KeyGreenRabbit: {
		Key:         KeyGreenRabbit,
		Title:       "กระต่ายน้อยรักษ์โลก",
		Description: "คุณคือนักรบสายกรีน ผู้บริสุทธิ์และรักษ์โลก ทุกคำที่กินล้วนเป็นพลังธรรมชาติที่แท้จริง!",
		Emoji:       "🐰🥬",
	},
	KeySugarKing: {
		Key:         KeySugarKing,
		Title:       "ราชาน้ำตาล ผู้พิทักษ์ความหวาน",
		Description: "คุณคือราชาแห่งความหวาน ผู้ที่ความสุขมาพร้อมกับน้ำตาลทุกคำ ทุกมื้อล้วนเต็มไปด้วยความหวานชื่นใจ!",
		Emoji:       "🍰👑",
	},
	KeyCaffeineHuman: {
		Key:         KeyCaffeineHuman,
		Title:       "มนุษย์คาเฟอีน ผู้ขับเคลื่อนด้วยกาแฟดำ",
		Description: "คุณคือมนุษย์พลังงานสูง ผู้ขับเคลื่อนชีวิตด้วยคาเฟอีน ทุกแก้วคือพลังที่เติมเต็มให้คุณ!",
		Emoji:       "☕💪",
	},
	KeyMeatHunter: {
		Key:         KeyMeatHunter,
		Title:       "นักล่าเนื้อสัตว์ระดับตำนาน",
		Description: "คุณคือนักล่าผู้แข็งแกร่ง ผู้ที่พลังมาพร้อมกับโปรตีน ทุกคำคือชัยชนะ!",
		Emoji:       "🥩🏹",
	},
	KeySpicyFried: {
		Key:         KeySpicyFried,
		Title:       "นักรบไก่ทอดสายเผ็ด",
		Description: "คุณคือนักรบผู้กล้าหาญ ที่รวมความกรอบและความเผ็ดไว้ด้วยกัน ทุกคำคือการผจญภัย!",
		Emoji:       "🍗🌶️",
	},
	KeyCarbCitizen: {
		Key:         KeyCarbCitizen,
		Title:       "พลเมืองคาร์โบ ผู้รักความนุ่มฟู",
		Description: "คุณคือผู้รักความสบาย ผู้ที่ความสุขมาพร้อมกับแป้งและความหวาน ทุกคำคือความอบอุ่น!",
		Emoji:       "🍞🥐",
	},
	KeyBBQMaster: {
		Key:         KeyBBQMaster,
		Title:       "เชฟบาร์บีคิว ระดับปรมาจารย์",
		Description: "คุณคือเชฟผู้เชี่ยวชาญ ผู้ที่รสชาติมาจากการย่าง ทุกคำคือศิลปะแห่งไฟ!",
		Emoji:       "🔥🥩",
	},
	KeyMountainHermit: {
		Key:         KeyMountainHermit,
		Title:       "ฤาษีเขาลึก ผู้บริสุทธิ์",
		Description: "คุณคือฤาษีผู้บริสุทธิ์ ผู้ที่ใช้ชีวิตอย่างเรียบง่ายและสะอาด ทุกคำคือการฝึกฝนจิตใจ!",
		Emoji:       "💧🌿",
	},
	KeyOfficeClassic: {
		Key:         KeyOfficeClassic,
		Title:       "มนุษย์ออฟฟิศ เวอร์ชันคลาสสิก",
		Description: "คุณคือมนุษย์ทำงานทั่วไป ผู้ที่ใช้ชีวิตด้วยกาแฟและของหวาน ทุกคำคือพลังในการทำงาน!",
		Emoji:       "☕🍪",
	},
	KeyFixation: {
		Key:         KeyFixation,
		Title:       "มนุษย์หลงทาง",
		Description: "คุณคือผู้ที่ชื่นชอบอาหารประเภทเดียวอย่างมาก ลองกินหลากหลายดูนะ!",
		Emoji:       "🤔",
	},
	KeyZen: {
		Key:         KeyZen,
		Title:       "พลเมืองอาหาร 5 หมู่ ระดับเซน",
		Description: "คุณคือผู้ที่กินอาหารอย่างสมดุล มีความหลากหลายในทุกมื้อ คุณคือผู้ทรงภูมิปัญญาแห่งโภชนาการ!",
		Emoji:       "🧘‍♂️",
	},
	KeyBalanced: {
		Key:         KeyBalanced,
		Title:       "มนุษย์สมดุล ผู้ทรงภูมิปัญญา",
		Description: "คุณคือผู้ที่กินอาหารอย่างมีความสมดุล มีความหลากหลายและพอประมาณ ทุกคำคือการเรียนรู้!",
		Emoji:       "⚖️",
	},
}

// Lookup returns the catalogue entry for key.
func Lookup(key string) (Descriptor, bool) {
	d, ok := catalogue[key]
	return d, ok
}

// LookupByTitle finds the entry whose title matches exactly. Stored personas
// only keep the title, so this recovers the display emoji.
func LookupByTitle(title string) (Descriptor, bool) {
	for _, d := range catalogue {
		if d.Title == title {
			return d, true
		}
	}
	return Descriptor{}, false
}
